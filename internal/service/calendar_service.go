package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/calendar"
	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/model"
)

// WeekStore - нужный сервису срез API клиники
type WeekStore interface {
	CalendarWeek(ctx context.Context, dateKey string) ([]*model.Appointment, error)
}

// WeekView - состояние отображаемой недели одного чата.
// Список записей заменяется целиком после каждой загрузки,
// инкрементальных правок нет.
type WeekView struct {
	Anchor       time.Time
	Days         []time.Time
	Appointments []*model.Appointment
	Loading      bool

	// Счётчик поколений: ответ устаревшей загрузки (пользователь уже
	// переключил неделю) отбрасывается, а не затирает свежие данные
	generation uint64
}

// CalendarService владеет недельными состояниями всех чатов и их обновлением
type CalendarService struct {
	store  WeekStore
	logger *zap.Logger

	mu    sync.Mutex
	views map[int64]*WeekView
}

func NewCalendarService(store WeekStore, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		store:  store,
		logger: logger,
		views:  make(map[int64]*WeekView),
	}
}

// View возвращает текущее недельное состояние чата (nil если ещё не было)
func (s *CalendarService) View(chatID int64) *WeekView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views[chatID]
}

// CurrentWeek показывает неделю с "сегодня" и загружает её записи
func (s *CalendarService) CurrentWeek(ctx context.Context, chatID int64) (*WeekView, error) {
	return s.load(ctx, chatID, clinictime.Now())
}

// NavigateWeek сдвигает якорь ровно на 7 гражданских дней и перечитывает
// записи новой недели целиком
func (s *CalendarService) NavigateWeek(ctx context.Context, chatID int64, direction int) (*WeekView, error) {
	s.mu.Lock()
	view, ok := s.views[chatID]
	var anchor time.Time
	if ok {
		anchor = view.Anchor.AddDate(0, 0, direction*7)
	} else {
		anchor = clinictime.Now().AddDate(0, 0, direction*7)
	}
	s.mu.Unlock()

	return s.load(ctx, chatID, anchor)
}

// ShowWeek показывает неделю, содержащую указанную дату
func (s *CalendarService) ShowWeek(ctx context.Context, chatID int64, anchor time.Time) (*WeekView, error) {
	return s.load(ctx, chatID, anchor)
}

// Refresh перечитывает текущую неделю (вызывается после любой мутации)
func (s *CalendarService) Refresh(ctx context.Context, chatID int64) (*WeekView, error) {
	s.mu.Lock()
	view, ok := s.views[chatID]
	var anchor time.Time
	if ok {
		anchor = view.Anchor
	} else {
		anchor = clinictime.Now()
	}
	s.mu.Unlock()

	return s.load(ctx, chatID, anchor)
}

// SlotAppointments возвращает записи ячейки (день, слот) текущей недели
func (s *CalendarService) SlotAppointments(chatID int64, day time.Time, slot string) []*model.Appointment {
	s.mu.Lock()
	view, ok := s.views[chatID]
	var appts []*model.Appointment
	if ok {
		appts = view.Appointments
	}
	s.mu.Unlock()

	return calendar.AppointmentsForSlot(appts, day, slot)
}

// AppointmentByID ищет запись в кеше текущей недели
func (s *CalendarService) AppointmentByID(chatID, apptID int64) *model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.views[chatID]
	if !ok {
		return nil
	}
	for _, appt := range view.Appointments {
		if appt.ID == apptID {
			return appt
		}
	}
	return nil
}

// load переключает неделю и загружает её записи.
// Поколение фиксируется до сетевого вызова: если за время загрузки чат
// переключился на другую неделю, пришедший ответ отбрасывается.
func (s *CalendarService) load(ctx context.Context, chatID int64, anchor time.Time) (*WeekView, error) {
	s.mu.Lock()
	view, ok := s.views[chatID]
	if !ok {
		view = &WeekView{}
		s.views[chatID] = view
	}
	view.Anchor = clinictime.ToClinic(anchor)
	view.Days = calendar.WeekDays(view.Anchor)
	view.Loading = true
	view.generation++
	gen := view.generation
	dateKey := clinictime.DateKey(view.Anchor)
	s.mu.Unlock()

	appts, err := s.store.CalendarWeek(ctx, dateKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	if view.generation != gen {
		// Пока грузили, пользователь ушёл на другую неделю
		s.logger.Debug("Discarding stale week fetch",
			zap.Int64("chat_id", chatID),
			zap.String("date_key", dateKey))
		return view, nil
	}

	view.Loading = false
	if err != nil {
		return view, fmt.Errorf("load week %s: %w", dateKey, err)
	}

	view.Appointments = appts
	s.logger.Info("Week loaded",
		zap.Int64("chat_id", chatID),
		zap.String("date_key", dateKey),
		zap.Int("appointments", len(appts)))
	return view, nil
}
