// Package clinictime работает с гражданским временем клиники.
//
// Все даты в интерфейсе показываются и вводятся в одной фиксированной
// таймзоне клиники (Эквадор), независимо от таймзоны сервера или устройства.
// Вся арифметика слотов должна идти через эти функции, иначе при несовпадении
// таймзон слот "уедет" на час.
package clinictime

import (
	"strings"
	"sync"
	"time"
)

// DefaultTimezone - таймзона клиники по умолчанию
const DefaultTimezone = "America/Guayaquil"

// Форматы обмена с бэкендом и полем ввода
const (
	dateKeyLayout = "2006-01-02"
	inputLayout   = "2006-01-02T15:04"
)

// Варианты, в которых бэкенд присылает appointment_date
var backendLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05", // без таймзоны - трактуем как время клиники
	"2006-01-02T15:04",
}

var (
	mu        sync.RWMutex
	clinicLoc = loadOrFallback(DefaultTimezone)
)

// loadOrFallback загружает IANA-зону, при отсутствии tzdata берёт фиксированный
// UTC-5 (в Эквадоре нет перехода на летнее время, смещение точное)
func loadOrFallback(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone("-05", -5*60*60)
}

// Configure меняет таймзону клиники (вызывается один раз при старте)
func Configure(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	mu.Lock()
	clinicLoc = loc
	mu.Unlock()
	return nil
}

// Location возвращает текущую таймзону клиники
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return clinicLoc
}

// Now возвращает текущее время в таймзоне клиники
func Now() time.Time {
	return time.Now().In(Location())
}

// ToClinic переводит момент времени в таймзону клиники.
// Идемпотентна: повторный вызов ничего не меняет.
func ToClinic(t time.Time) time.Time {
	return t.In(Location())
}

// ParseBackend разбирает метку времени из ответа бэкенда.
// Это путь отображения: битая или пустая строка деградирует до "сейчас",
// календарь не должен падать из-за одной кривой записи.
func ParseBackend(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return Now()
	}

	loc := Location()
	for _, layout := range backendLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc)
		}
	}
	return Now()
}

// FormatBackend форматирует момент для отправки на бэкенд (ISO с таймзоной)
func FormatBackend(t time.Time) string {
	return ToClinic(t).Format(time.RFC3339)
}

// DateKey возвращает дату YYYY-MM-DD в таймзоне клиники.
// Используется как параметр запроса недели календаря.
func DateKey(t time.Time) string {
	return ToClinic(t).Format(dateKeyLayout)
}

// FormatInput форматирует время для поля ввода (YYYY-MM-DDTHH:MM)
func FormatInput(t time.Time) string {
	return ToClinic(t).Format(inputLayout)
}

// ParseInput разбирает значение поля ввода как гражданское время клиники.
// В отличие от ParseBackend возвращает ошибку: это путь валидации ввода,
// молча подставлять "сейчас" здесь нельзя.
func ParseInput(s string) (time.Time, error) {
	return time.ParseInLocation(inputLayout, strings.TrimSpace(s), Location())
}
