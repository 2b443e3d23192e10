package model

type AppointmentStatus string

const (
	StatusPendiente  AppointmentStatus = "pendiente"  // Ожидает подтверждения
	StatusConfirmada AppointmentStatus = "confirmada" // Подтверждена
	StatusRealizada  AppointmentStatus = "realizada"  // Выполнена
	StatusCancelada  AppointmentStatus = "cancelada"  // Отменена
)

// AllStatuses - все статусы, которые принимает бэкенд
var AllStatuses = []AppointmentStatus{
	StatusPendiente,
	StatusConfirmada,
	StatusRealizada,
	StatusCancelada,
}

type Appointment struct {
	ID               int64             `json:"id"`
	PetID            int64             `json:"pet"`
	ServiceID        int64             `json:"service"`
	ProfessionalID   *int64            `json:"assigned_professional"` // указатель - может быть nil
	AppointmentDate  string            `json:"appointment_date"`      // сырая строка бэкенда, парсится через clinictime
	Reason           string            `json:"reason"`
	Status           AppointmentStatus `json:"status"`
	MedicationType   string            `json:"medication_type"`
	MedicationDosage string            `json:"medication_dosage"`
	Instructions     string            `json:"instructions"`
	Observations     string            `json:"observations"`

	// Read-only поля из сериализатора (не отправляются при создании)
	PetName          string `json:"pet_name,omitempty"`
	OwnerName        string `json:"owner_name,omitempty"`
	ServiceName      string `json:"service_name,omitempty"`
	ProfessionalName string `json:"professional_name,omitempty"`
	StatusDisplay    string `json:"status_display,omitempty"`
	ServiceDuration  int    `json:"service_duration,omitempty"`
}
