package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/api"
	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/model"
)

// fakeStore - подменный бэкенд для тестов редактора
type fakeStore struct {
	pets          []*model.Pet
	services      []*model.Service
	professionals []*model.Professional

	createErr  error
	updateErr  error
	deleteErr  error
	created    []*api.AppointmentPayload
	updated    map[int64]*api.AppointmentPayload
	deletedIDs []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pets: []*model.Pet{{ID: 1, Name: "Firulais"}},
		services: []*model.Service{
			{ID: 1, Name: "Baño Normal"},
			{ID: 2, Name: "Baño Medicado", RequiresMedication: true},
		},
		professionals: []*model.Professional{{ID: 5, FullName: "Dra. Paredes"}},
		updated:       make(map[int64]*api.AppointmentPayload),
	}
}

func (f *fakeStore) Pets(ctx context.Context) ([]*model.Pet, error) { return f.pets, nil }
func (f *fakeStore) Services(ctx context.Context) ([]*model.Service, error) {
	return f.services, nil
}
func (f *fakeStore) Professionals(ctx context.Context) ([]*model.Professional, error) {
	return f.professionals, nil
}

func (f *fakeStore) CreateAppointment(ctx context.Context, p *api.AppointmentPayload) (*model.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, p)
	return &model.Appointment{ID: 100}, nil
}

func (f *fakeStore) UpdateAppointment(ctx context.Context, id int64, p *api.AppointmentPayload) (*model.Appointment, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated[id] = p
	return &model.Appointment{ID: id}, nil
}

func (f *fakeStore) DeleteAppointment(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id int64, st model.AppointmentStatus) error {
	return nil
}

func day(t *testing.T, y int, m time.Month, d int) time.Time {
	t.Helper()
	return time.Date(y, m, d, 0, 0, 0, 0, clinictime.Location())
}

func TestCreateModeSeedsSlotDate(t *testing.T) {
	ed := NewCreate(newFakeStore(), zap.NewNop(), day(t, 2024, 6, 12), "14:00")

	assert.Equal(t, ModeCreate, ed.Draft.Mode)
	assert.Equal(t, "2024-06-12T14:00", ed.Draft.DateInput)
	assert.Equal(t, model.StatusPendiente, ed.Draft.Status)
}

func TestEditModeSeedsFromAppointment(t *testing.T) {
	pro := int64(5)
	appt := &model.Appointment{
		ID:              42,
		PetID:           1,
		ServiceID:       2,
		ProfessionalID:  &pro,
		AppointmentDate: "2024-06-12T14:00:00-05:00",
		Reason:          "Control",
		Status:          model.StatusConfirmada,
		MedicationType:  "Ketoconazol",
	}

	ed := NewEdit(newFakeStore(), zap.NewNop(), appt)

	assert.Equal(t, ModeEdit, ed.Draft.Mode)
	assert.Equal(t, int64(42), ed.Draft.AppointmentID)
	assert.Equal(t, "2024-06-12T14:00", ed.Draft.DateInput)
	assert.Equal(t, int64(5), ed.Draft.ProfessionalID)
	assert.Equal(t, model.StatusConfirmada, ed.Draft.Status)
}

func TestValidateRequiredFields(t *testing.T) {
	ed := NewCreate(newFakeStore(), zap.NewNop(), day(t, 2024, 6, 12), "09:00")

	ok := ed.Validate()

	assert.False(t, ok)
	assert.Equal(t, msgRequired, ed.Draft.Errors[FieldPet])
	assert.Equal(t, msgRequired, ed.Draft.Errors[FieldService])
	assert.Equal(t, msgRequired, ed.Draft.Errors[FieldProfessional])
	// Дата заполнена из слота - ошибки нет
	assert.NotContains(t, ed.Draft.Errors, FieldDate)
}

func TestMedicationRuleTable(t *testing.T) {
	ed := NewCreate(newFakeStore(), zap.NewNop(), day(t, 2024, 6, 12), "09:00")
	require.NoError(t, ed.LoadPickLists(context.Background()))
	ed.SelectPet(1)
	ed.SelectProfessional(5)

	// Обычная услуга - медикаменты не нужны
	ed.SelectService(1)
	assert.True(t, ed.Validate())
	assert.False(t, ed.MedicationRequired())

	// Медикаментозная услуга - тип медикамента обязателен
	ed.SelectService(2)
	assert.True(t, ed.MedicationRequired())
	assert.False(t, ed.Validate())
	assert.Contains(t, ed.Draft.Errors, FieldMedicationType)

	ed.SetField(FieldMedicationType, "Champú ketoconazol")
	assert.True(t, ed.Validate())
}

func TestSubmitCreateSendsCanonicalInstant(t *testing.T) {
	store := newFakeStore()
	ed := NewCreate(store, zap.NewNop(), day(t, 2024, 6, 12), "14:00")
	require.NoError(t, ed.LoadPickLists(context.Background()))
	ed.SelectPet(1)
	ed.SelectService(1)
	ed.SelectProfessional(5)
	ed.SetField(FieldReason, "Vacunación anual")

	saved := ed.Submit(context.Background())

	require.True(t, saved)
	require.Len(t, store.created, 1)
	p := store.created[0]
	assert.Equal(t, "2024-06-12T14:00:00-05:00", p.AppointmentDate)
	assert.Equal(t, int64(1), p.Pet)
	require.NotNil(t, p.AssignedProfessional)
	assert.Equal(t, int64(5), *p.AssignedProfessional)
	assert.Equal(t, "Vacunación anual", p.Reason)
}

func TestSubmitEditUsesUpdate(t *testing.T) {
	store := newFakeStore()
	pro := int64(5)
	ed := NewEdit(store, zap.NewNop(), &model.Appointment{
		ID: 42, PetID: 1, ServiceID: 1, ProfessionalID: &pro,
		AppointmentDate: "2024-06-12T09:00:00-05:00",
		Status:          model.StatusPendiente,
	})
	require.NoError(t, ed.LoadPickLists(context.Background()))
	ed.SetStatus(model.StatusConfirmada)

	require.True(t, ed.Submit(context.Background()))
	require.Contains(t, store.updated, int64(42))
	assert.Equal(t, model.StatusConfirmada, store.updated[42].Status)
	assert.Empty(t, store.created)
}

func TestSubmitBackendFieldErrorsPreserveDraft(t *testing.T) {
	store := newFakeStore()
	store.createErr = &api.ValidationError{
		Status: 400,
		Fields: map[string][]string{"pet": {"This field is required."}},
	}
	ed := NewCreate(store, zap.NewNop(), day(t, 2024, 6, 12), "09:00")
	require.NoError(t, ed.LoadPickLists(context.Background()))
	ed.SelectPet(1)
	ed.SelectService(1)
	ed.SelectProfessional(5)
	ed.SetField(FieldReason, "Control")

	saved := ed.Submit(context.Background())

	assert.False(t, saved)
	assert.Equal(t, "This field is required.", ed.Draft.Errors["pet"])
	// Черновик сохранён дословно, можно исправить и отправить снова
	assert.Equal(t, "Control", ed.Draft.Reason)
	assert.False(t, ed.Draft.Submitting)

	// Повторная отправка после исправления проходит
	store.createErr = nil
	assert.True(t, ed.Submit(context.Background()))
}

func TestSubmitTransportFailureSetsGeneralError(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("dial tcp: connection refused")
	ed := NewCreate(store, zap.NewNop(), day(t, 2024, 6, 12), "09:00")
	require.NoError(t, ed.LoadPickLists(context.Background()))
	ed.SelectPet(1)
	ed.SelectService(1)
	ed.SelectProfessional(5)

	saved := ed.Submit(context.Background())

	assert.False(t, saved)
	assert.Equal(t, msgConnection, ed.Draft.GeneralError)
	assert.Empty(t, ed.Draft.Errors)
}

func TestSubmitBlockedWhileInFlight(t *testing.T) {
	ed := NewCreate(newFakeStore(), zap.NewNop(), day(t, 2024, 6, 12), "09:00")
	ed.Draft.Submitting = true

	assert.False(t, ed.Submit(context.Background()))
}

func TestCancelAppointmentDeletes(t *testing.T) {
	store := newFakeStore()
	ed := NewEdit(store, zap.NewNop(), &model.Appointment{ID: 42, PetID: 1, ServiceID: 1, AppointmentDate: "2024-06-12T09:00:00-05:00"})

	require.True(t, ed.CancelAppointment(context.Background()))
	assert.Equal(t, []int64{42}, store.deletedIDs)
}

func TestCancelAppointmentOnlyInEditMode(t *testing.T) {
	store := newFakeStore()
	ed := NewCreate(store, zap.NewNop(), day(t, 2024, 6, 12), "09:00")

	assert.False(t, ed.CancelAppointment(context.Background()))
	assert.Empty(t, store.deletedIDs)
}

func TestSetFieldClearsFieldError(t *testing.T) {
	ed := NewCreate(newFakeStore(), zap.NewNop(), day(t, 2024, 6, 12), "09:00")
	ed.Validate()
	ed.Draft.Errors[FieldReason] = "algo"

	ed.SetField(FieldReason, "nuevo motivo")

	assert.NotContains(t, ed.Draft.Errors, FieldReason)
	assert.Equal(t, "nuevo motivo", ed.Draft.Reason)
}

func TestValidateRejectsBadDateInput(t *testing.T) {
	ed := NewCreate(newFakeStore(), zap.NewNop(), day(t, 2024, 6, 12), "09:00")
	ed.SelectPet(1)
	ed.SelectService(1)
	ed.SelectProfessional(5)
	ed.SetField(FieldDate, "mañana a las nueve")

	assert.False(t, ed.Validate())
	assert.Equal(t, msgBadDate, ed.Draft.Errors[FieldDate])
}
