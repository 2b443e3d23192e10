// Package editor - рабочий процесс создания/редактирования/отмены записи.
//
// Черновик живёт от открытия редактора до закрытия и никогда не сохраняется
// частично: либо submit целиком уходит на бэкенд, либо close всё отбрасывает.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/api"
	"github.com/huellitas/clinic_bot/internal/calendar"
	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/model"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Store - нужный редактору срез API клиники
type Store interface {
	Pets(ctx context.Context) ([]*model.Pet, error)
	Services(ctx context.Context) ([]*model.Service, error)
	Professionals(ctx context.Context) ([]*model.Professional, error)
	CreateAppointment(ctx context.Context, payload *api.AppointmentPayload) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, payload *api.AppointmentPayload) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
}

// Draft - изменяемое рабочее состояние редактора
type Draft struct {
	Mode          Mode
	AppointmentID int64

	PetID            int64
	ServiceID        int64
	ProfessionalID   int64 // 0 = не выбран
	DateInput        string
	Reason           string
	Status           model.AppointmentStatus
	MedicationType   string
	MedicationDosage string
	Instructions     string
	Observations     string

	// UI-состояние, на бэкенд не уходит
	Errors       map[string]string
	GeneralError string
	Submitting   bool
}

type Editor struct {
	store  Store
	logger *zap.Logger

	Draft *Draft

	// Справочники, загружаются один раз при открытии
	Pets          []*model.Pet
	Services      []*model.Service
	Professionals []*model.Professional
}

// NewCreate открывает редактор в режиме создания из кликнутого слота
func NewCreate(store Store, logger *zap.Logger, day time.Time, slot string) *Editor {
	draft := &Draft{
		Mode:   ModeCreate,
		Status: model.StatusPendiente,
		Errors: make(map[string]string),
	}
	if at, ok := calendar.SlotTime(day, slot); ok {
		draft.DateInput = clinictime.FormatInput(at)
	}
	return &Editor{store: store, logger: logger, Draft: draft}
}

// NewEdit открывает редактор по существующей записи
func NewEdit(store Store, logger *zap.Logger, appt *model.Appointment) *Editor {
	draft := &Draft{
		Mode:             ModeEdit,
		AppointmentID:    appt.ID,
		PetID:            appt.PetID,
		ServiceID:        appt.ServiceID,
		DateInput:        clinictime.FormatInput(clinictime.ParseBackend(appt.AppointmentDate)),
		Reason:           appt.Reason,
		Status:           appt.Status,
		MedicationType:   appt.MedicationType,
		MedicationDosage: appt.MedicationDosage,
		Instructions:     appt.Instructions,
		Observations:     appt.Observations,
		Errors:           make(map[string]string),
	}
	if appt.ProfessionalID != nil {
		draft.ProfessionalID = *appt.ProfessionalID
	}
	return &Editor{store: store, logger: logger, Draft: draft}
}

// LoadPickLists загружает справочники для выбора (питомцы, услуги, специалисты)
func (e *Editor) LoadPickLists(ctx context.Context) error {
	pets, err := e.store.Pets(ctx)
	if err != nil {
		return fmt.Errorf("load pets: %w", err)
	}
	services, err := e.store.Services(ctx)
	if err != nil {
		return fmt.Errorf("load services: %w", err)
	}
	professionals, err := e.store.Professionals(ctx)
	if err != nil {
		return fmt.Errorf("load professionals: %w", err)
	}

	e.Pets = pets
	e.Services = services
	e.Professionals = professionals
	return nil
}

// SelectedService возвращает выбранную услугу из загруженного справочника
func (e *Editor) SelectedService() *model.Service {
	for _, svc := range e.Services {
		if svc.ID == e.Draft.ServiceID {
			return svc
		}
	}
	return nil
}

// PetByID ищет питомца в справочнике
func (e *Editor) PetByID(id int64) *model.Pet {
	for _, pet := range e.Pets {
		if pet.ID == id {
			return pet
		}
	}
	return nil
}

// ProfessionalByID ищет специалиста в справочнике
func (e *Editor) ProfessionalByID(id int64) *model.Professional {
	for _, pro := range e.Professionals {
		if pro.ID == id {
			return pro
		}
	}
	return nil
}

// MedicationRequired сообщает, требует ли выбранная услуга медикаментов
func (e *Editor) MedicationRequired() bool {
	svc := e.SelectedService()
	return svc != nil && svc.RequiresMedication
}

// SetField меняет текстовое поле черновика. Чистая локальная мутация,
// без побочных эффектов; сбрасывает ошибку этого поля.
func (e *Editor) SetField(field, value string) {
	switch field {
	case FieldDate:
		e.Draft.DateInput = value
	case FieldReason:
		e.Draft.Reason = value
	case FieldMedicationType:
		e.Draft.MedicationType = value
	case FieldMedicationDosage:
		e.Draft.MedicationDosage = value
	case FieldInstructions:
		e.Draft.Instructions = value
	case FieldObservations:
		e.Draft.Observations = value
	}
	delete(e.Draft.Errors, field)
}

// SelectPet выбирает питомца
func (e *Editor) SelectPet(id int64) {
	e.Draft.PetID = id
	delete(e.Draft.Errors, FieldPet)
}

// SelectService выбирает услугу
func (e *Editor) SelectService(id int64) {
	e.Draft.ServiceID = id
	delete(e.Draft.Errors, FieldService)
}

// SelectProfessional выбирает специалиста
func (e *Editor) SelectProfessional(id int64) {
	e.Draft.ProfessionalID = id
	delete(e.Draft.Errors, FieldProfessional)
}

// SetStatus меняет статус (доступно только в режиме редактирования)
func (e *Editor) SetStatus(status model.AppointmentStatus) {
	e.Draft.Status = status
}

// Validate проверяет обязательные поля на стороне клиента.
// Возвращает true если черновик готов к отправке.
func (e *Editor) Validate() bool {
	d := e.Draft
	d.Errors = make(map[string]string)
	d.GeneralError = ""

	if d.PetID == 0 {
		d.Errors[FieldPet] = msgRequired
	}
	if d.ServiceID == 0 {
		d.Errors[FieldService] = msgRequired
	}
	if d.ProfessionalID == 0 {
		d.Errors[FieldProfessional] = msgRequired
	}
	if d.DateInput == "" {
		d.Errors[FieldDate] = msgRequired
	} else if _, err := clinictime.ParseInput(d.DateInput); err != nil {
		d.Errors[FieldDate] = msgBadDate
	}

	svc := e.SelectedService()
	for _, rule := range conditionalRules {
		if rule.RequiredWhen(svc) && e.fieldValue(rule.Field) == "" {
			d.Errors[rule.Field] = rule.Message
		}
	}

	return len(d.Errors) == 0
}

func (e *Editor) fieldValue(field string) string {
	switch field {
	case FieldMedicationType:
		return e.Draft.MedicationType
	case FieldMedicationDosage:
		return e.Draft.MedicationDosage
	case FieldInstructions:
		return e.Draft.Instructions
	case FieldObservations:
		return e.Draft.Observations
	case FieldReason:
		return e.Draft.Reason
	case FieldDate:
		return e.Draft.DateInput
	}
	return ""
}

// payload собирает тело запроса из черновика
func (e *Editor) payload() *api.AppointmentPayload {
	d := e.Draft
	at, _ := clinictime.ParseInput(d.DateInput) // валидность уже проверена в Validate

	p := &api.AppointmentPayload{
		Pet:              d.PetID,
		Service:          d.ServiceID,
		AppointmentDate:  clinictime.FormatBackend(at),
		Reason:           d.Reason,
		Status:           d.Status,
		MedicationType:   d.MedicationType,
		MedicationDosage: d.MedicationDosage,
		Instructions:     d.Instructions,
		Observations:     d.Observations,
	}
	if d.ProfessionalID != 0 {
		pro := d.ProfessionalID
		p.AssignedProfessional = &pro
	}
	return p
}

// Submit валидирует черновик и отправляет создание либо обновление.
// Возвращает true при успехе; при ошибке валидации бэкенда черновик
// сохраняется, ошибки ложатся в Errors, и можно исправить и отправить снова.
func (e *Editor) Submit(ctx context.Context) bool {
	d := e.Draft
	if d.Submitting {
		// Защита от двойного нажатия
		return false
	}
	if !e.Validate() {
		return false
	}

	d.Submitting = true
	defer func() { d.Submitting = false }()

	var err error
	if d.Mode == ModeEdit {
		_, err = e.store.UpdateAppointment(ctx, d.AppointmentID, e.payload())
	} else {
		_, err = e.store.CreateAppointment(ctx, e.payload())
	}
	if err == nil {
		return true
	}

	e.applyError(err)
	return false
}

// CancelAppointment отменяет запись (только режим редактирования).
// Деструктивный DELETE; мягкая отмена делается сменой статуса на cancelada.
func (e *Editor) CancelAppointment(ctx context.Context) bool {
	d := e.Draft
	if d.Mode != ModeEdit || d.Submitting {
		return false
	}

	d.Submitting = true
	defer func() { d.Submitting = false }()

	if err := e.store.DeleteAppointment(ctx, d.AppointmentID); err != nil {
		e.applyError(err)
		return false
	}
	return true
}

// applyError раскладывает ошибку бэкенда по состоянию черновика:
// ошибки полей - в карту, транспортный сбой - одной общей строкой
func (e *Editor) applyError(err error) {
	d := e.Draft

	var ve *api.ValidationError
	if errors.As(err, &ve) {
		for field := range ve.Fields {
			if msg := ve.FieldError(field); msg != "" {
				d.Errors[field] = msg
			}
		}
		d.GeneralError = ve.General
		if len(d.Errors) == 0 && d.GeneralError == "" {
			d.GeneralError = msgConnection
		}
		e.logger.Warn("Appointment rejected by backend",
			zap.Int64("appointment_id", d.AppointmentID),
			zap.Int("field_errors", len(d.Errors)))
		return
	}

	d.GeneralError = msgConnection
	e.logger.Error("Appointment request failed", zap.Error(err))
}
