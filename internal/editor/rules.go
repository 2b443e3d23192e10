package editor

import "github.com/huellitas/clinic_bot/internal/model"

// Сообщения валидации (совпадают с формулировками бэкенда)
const (
	msgRequired   = "Este campo es obligatorio."
	msgBadDate    = "Fecha u hora inválida. Formato: YYYY-MM-DDTHH:MM"
	msgConnection = "Error de conexión con el servidor"
)

// Имена полей черновика (совпадают с именами полей API,
// чтобы ошибки бэкенда ложились на те же ключи)
const (
	FieldPet              = "pet"
	FieldService          = "service"
	FieldProfessional     = "assigned_professional"
	FieldDate             = "appointment_date"
	FieldReason           = "reason"
	FieldStatus           = "status"
	FieldMedicationType   = "medication_type"
	FieldMedicationDosage = "medication_dosage"
	FieldInstructions     = "instructions"
	FieldObservations     = "observations"
)

// conditionalRule - поле, обязательность которого зависит от выбранной услуги.
// Таблица правил вместо ветвления в submit: новое условное поле добавляется
// строкой здесь, не трогая путь отправки.
type conditionalRule struct {
	Field        string
	Message      string
	RequiredWhen func(svc *model.Service) bool
}

var conditionalRules = []conditionalRule{
	{
		Field:   FieldMedicationType,
		Message: "El servicio requiere especificar el medicamento",
		RequiredWhen: func(svc *model.Service) bool {
			return svc != nil && svc.RequiresMedication
		},
	},
}
