// Package calendar строит недельную сетку приёмов и сопоставляет записи слотам.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huellitas/clinic_bot/internal/clinictime"
)

// Рабочие часы клиники: приёмы с 08:00 по 16:00 включительно
const (
	FirstHour = 8
	LastHour  = 16
)

// DaysShown - рабочие дни клиники: понедельник-суббота
const DaysShown = 6

// Испанские сокращения для интерфейса клиники
var (
	weekdayShort = map[time.Weekday]string{
		time.Monday:    "Lun",
		time.Tuesday:   "Mar",
		time.Wednesday: "Mié",
		time.Thursday:  "Jue",
		time.Friday:    "Vie",
		time.Saturday:  "Sáb",
		time.Sunday:    "Dom",
	}
	monthShort = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun",
		"Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}
)

// WeekDays возвращает понедельник-субботу недели, в которую попадает anchor,
// полночь по времени клиники. Воскресенье считается концом предыдущей
// отображаемой недели, поэтому для воскресного anchor граница откатывается
// на 6 дней назад.
func WeekDays(anchor time.Time) []time.Time {
	day := clinictime.ToClinic(anchor)
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	daysSinceMonday := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}
	monday := day.AddDate(0, 0, -daysSinceMonday)

	days := make([]time.Time, 0, DaysShown)
	for i := 0; i < DaysShown; i++ {
		days = append(days, monday.AddDate(0, 0, i))
	}
	return days
}

// TimeSlots возвращает фиксированную последовательность слотов "08:00".."16:00".
// Это статическая конфигурация рабочих часов, не данные.
func TimeSlots() []string {
	slots := make([]string, 0, LastHour-FirstHour+1)
	for hour := FirstHour; hour <= LastHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
	}
	return slots
}

// SlotHour извлекает час из метки слота ("09:00" -> 9)
func SlotHour(slot string) (int, bool) {
	head, _, ok := strings.Cut(slot, ":")
	if !ok {
		return 0, false
	}
	hour, err := strconv.Atoi(head)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

// SlotTime собирает гражданское время слота из дня и метки времени
func SlotTime(day time.Time, slot string) (time.Time, bool) {
	hour, ok := SlotHour(slot)
	if !ok {
		return time.Time{}, false
	}
	d := clinictime.ToClinic(day)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, d.Location()), true
}

// WeekRangeLabel форматирует диапазон недели для заголовка календаря,
// например "10 - 15 Jun 2024". Месяц схлопывается, если совпадает.
func WeekRangeLabel(days []time.Time) string {
	if len(days) == 0 {
		return ""
	}
	first := days[0]
	last := days[len(days)-1]

	if first.Month() == last.Month() {
		return fmt.Sprintf("%d - %d %s %d",
			first.Day(), last.Day(), monthShort[first.Month()-1], first.Year())
	}
	return fmt.Sprintf("%d %s - %d %s %d",
		first.Day(), monthShort[first.Month()-1],
		last.Day(), monthShort[last.Month()-1], first.Year())
}

// DayHeader форматирует заголовок колонки дня: "Lun 10"
func DayHeader(day time.Time) string {
	d := clinictime.ToClinic(day)
	return fmt.Sprintf("%s %d", weekdayShort[d.Weekday()], d.Day())
}
