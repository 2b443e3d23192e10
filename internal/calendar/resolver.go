package calendar

import (
	"time"

	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/model"
)

// SlotFor проверяет, попадает ли запись в ячейку (день, слот).
//
// Сравниваются календарные поля (год, месяц, день, час) после нормализации,
// а не сырые моменты: бэкенд и сетка могут расходиться в том, несёт ли метка
// таймзону, а пополевое сравнение к этому устойчиво. Минуты игнорируются -
// гранулярность сетки целый час, запись на 09:30 принадлежит слоту "09:00".
func SlotFor(appt *model.Appointment, day time.Time, slot string) bool {
	hour, ok := SlotHour(slot)
	if !ok {
		return false
	}

	at := clinictime.ParseBackend(appt.AppointmentDate)
	d := clinictime.ToClinic(day)

	return at.Year() == d.Year() &&
		at.Month() == d.Month() &&
		at.Day() == d.Day() &&
		at.Hour() == hour
}

// AppointmentsForSlot отбирает записи, попадающие в ячейку (день, слот).
// Ноль, одна или несколько записей - все варианты корректны: двойное
// бронирование отлавливает бэкенд, ячейка просто показывает всё что есть.
func AppointmentsForSlot(appts []*model.Appointment, day time.Time, slot string) []*model.Appointment {
	var matched []*model.Appointment
	for _, appt := range appts {
		if SlotFor(appt, day, slot) {
			matched = append(matched, appt)
		}
	}
	return matched
}
