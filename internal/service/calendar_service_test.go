package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/model"
)

// fakeWeekStore отдаёт записи по ключу даты и умеет задерживать ответ
type fakeWeekStore struct {
	mu      sync.Mutex
	byDate  map[string][]*model.Appointment
	calls   []string
	blockOn string        // ключ даты, на котором ответ задерживается
	release chan struct{} // закрывается, чтобы отпустить задержанный ответ
}

func newFakeWeekStore() *fakeWeekStore {
	return &fakeWeekStore{
		byDate:  make(map[string][]*model.Appointment),
		release: make(chan struct{}),
	}
}

func (f *fakeWeekStore) CalendarWeek(ctx context.Context, dateKey string) ([]*model.Appointment, error) {
	f.mu.Lock()
	f.calls = append(f.calls, dateKey)
	blocked := f.blockOn == dateKey
	appts := f.byDate[dateKey]
	f.mu.Unlock()

	if blocked {
		<-f.release
	}
	return appts, nil
}

func anchorDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, clinictime.Location())
}

func TestShowWeekLoadsAppointments(t *testing.T) {
	store := newFakeWeekStore()
	store.byDate["2024-06-12"] = []*model.Appointment{
		{ID: 1, AppointmentDate: "2024-06-12T09:00:00-05:00"},
	}
	svc := NewCalendarService(store, zap.NewNop())

	view, err := svc.ShowWeek(context.Background(), 7, anchorDate(2024, 6, 12))

	require.NoError(t, err)
	require.Len(t, view.Days, 6)
	assert.Equal(t, time.Monday, view.Days[0].Weekday())
	require.Len(t, view.Appointments, 1)
	assert.False(t, view.Loading)
}

func TestNavigateWeekDeterminism(t *testing.T) {
	store := newFakeWeekStore()
	svc := NewCalendarService(store, zap.NewNop())

	first, err := svc.ShowWeek(context.Background(), 7, anchorDate(2024, 6, 12))
	require.NoError(t, err)
	original := append([]time.Time(nil), first.Days...)

	_, err = svc.NavigateWeek(context.Background(), 7, +1)
	require.NoError(t, err)
	back, err := svc.NavigateWeek(context.Background(), 7, -1)
	require.NoError(t, err)

	// +1 затем -1 возвращает исходные 6 дат
	require.Len(t, back.Days, 6)
	for i := range original {
		assert.True(t, original[i].Equal(back.Days[i]), "day %d", i)
	}
}

func TestNavigateWeekShiftsFetchKey(t *testing.T) {
	store := newFakeWeekStore()
	svc := NewCalendarService(store, zap.NewNop())

	_, err := svc.ShowWeek(context.Background(), 7, anchorDate(2024, 6, 12))
	require.NoError(t, err)
	_, err = svc.NavigateWeek(context.Background(), 7, +1)
	require.NoError(t, err)

	require.Len(t, store.calls, 2)
	assert.Equal(t, "2024-06-12", store.calls[0])
	assert.Equal(t, "2024-06-19", store.calls[1])
}

func TestStaleWeekFetchIsDiscarded(t *testing.T) {
	store := newFakeWeekStore()
	store.blockOn = "2024-06-12"
	store.byDate["2024-06-12"] = []*model.Appointment{{ID: 1}}
	store.byDate["2024-06-19"] = []*model.Appointment{{ID: 2}}
	svc := NewCalendarService(store, zap.NewNop())

	done := make(chan struct{})
	go func() {
		// Эта загрузка повиснет и разрешится уже после навигации
		svc.ShowWeek(context.Background(), 7, anchorDate(2024, 6, 12))
		close(done)
	}()

	// Дождаться, чтобы первая загрузка началась
	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.calls) == 1
	}, time.Second, 5*time.Millisecond)

	// Пользователь переключается на следующую неделю
	_, err := svc.ShowWeek(context.Background(), 7, anchorDate(2024, 6, 19))
	require.NoError(t, err)

	// Отпустить устаревший ответ
	close(store.release)
	<-done

	// Кеш принадлежит актуальной неделе, устаревший ответ отброшен
	view := svc.View(7)
	require.Len(t, view.Appointments, 1)
	assert.Equal(t, int64(2), view.Appointments[0].ID)
	assert.Equal(t, 19, view.Days[2].Day())
}

func TestRefreshKeepsAnchor(t *testing.T) {
	store := newFakeWeekStore()
	svc := NewCalendarService(store, zap.NewNop())

	_, err := svc.ShowWeek(context.Background(), 7, anchorDate(2024, 6, 12))
	require.NoError(t, err)

	store.byDate["2024-06-12"] = []*model.Appointment{{ID: 9}}
	view, err := svc.Refresh(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, view.Appointments, 1)
	assert.Equal(t, "2024-06-12", store.calls[1])
}

func TestSlotAppointmentsAndLookup(t *testing.T) {
	store := newFakeWeekStore()
	store.byDate["2024-06-12"] = []*model.Appointment{
		{ID: 1, AppointmentDate: "2024-06-12T09:00:00-05:00"},
		{ID: 2, AppointmentDate: "2024-06-13T11:00:00-05:00"},
	}
	svc := NewCalendarService(store, zap.NewNop())

	view, err := svc.ShowWeek(context.Background(), 7, anchorDate(2024, 6, 12))
	require.NoError(t, err)

	matched := svc.SlotAppointments(7, view.Days[2], "09:00")
	require.Len(t, matched, 1)
	assert.Equal(t, int64(1), matched[0].ID)

	assert.NotNil(t, svc.AppointmentByID(7, 2))
	assert.Nil(t, svc.AppointmentByID(7, 99))
}

func TestViewsAreIsolatedPerChat(t *testing.T) {
	store := newFakeWeekStore()
	svc := NewCalendarService(store, zap.NewNop())

	_, err := svc.ShowWeek(context.Background(), 1, anchorDate(2024, 6, 12))
	require.NoError(t, err)
	_, err = svc.ShowWeek(context.Background(), 2, anchorDate(2024, 6, 19))
	require.NoError(t, err)

	assert.Equal(t, 12, svc.View(1).Days[2].Day())
	assert.Equal(t, 19, svc.View(2).Days[2].Day())
}
