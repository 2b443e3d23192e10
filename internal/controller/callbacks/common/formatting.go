package common

import (
	"fmt"
	"strings"

	"github.com/huellitas/clinic_bot/internal/calendar"
	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/model"
)

// Эмодзи статусов для текстов и кнопок
var statusEmoji = map[model.AppointmentStatus]string{
	model.StatusPendiente:  "🕒",
	model.StatusConfirmada: "✅",
	model.StatusRealizada:  "✔️",
	model.StatusCancelada:  "🚫",
}

// Подписи статусов для персонала клиники
var statusLabel = map[model.AppointmentStatus]string{
	model.StatusPendiente:  "Pendiente",
	model.StatusConfirmada: "Confirmada",
	model.StatusRealizada:  "Realizada",
	model.StatusCancelada:  "Cancelada",
}

// StatusEmoji возвращает эмодзи статуса записи
func StatusEmoji(status model.AppointmentStatus) string {
	if e, ok := statusEmoji[status]; ok {
		return e
	}
	return "❔"
}

// StatusLabel возвращает подпись статуса
func StatusLabel(status model.AppointmentStatus) string {
	if l, ok := statusLabel[status]; ok {
		return l
	}
	return string(status)
}

// AppointmentLine - однострочное описание записи для списков и кнопок:
// "🕒 09:00 Firulais · Baño Medicado"
func AppointmentLine(appt *model.Appointment) string {
	at := clinictime.ParseBackend(appt.AppointmentDate)

	parts := []string{at.Format("15:04")}
	if appt.PetName != "" {
		parts = append(parts, appt.PetName)
	} else {
		parts = append(parts, fmt.Sprintf("Mascota #%d", appt.PetID))
	}
	if appt.ServiceName != "" {
		parts = append(parts, "· "+appt.ServiceName)
	}

	return StatusEmoji(appt.Status) + " " + strings.Join(parts, " ")
}

// AppointmentCard - развёрнутая карточка записи для экрана дня
func AppointmentCard(appt *model.Appointment) string {
	var sb strings.Builder

	at := clinictime.ParseBackend(appt.AppointmentDate)
	fmt.Fprintf(&sb, "%s <b>%s %s</b>\n",
		StatusEmoji(appt.Status), calendar.DayHeader(at), at.Format("15:04"))

	if appt.PetName != "" {
		fmt.Fprintf(&sb, "🐾 %s", appt.PetName)
		if appt.OwnerName != "" {
			fmt.Fprintf(&sb, " (%s)", appt.OwnerName)
		}
		sb.WriteString("\n")
	}
	if appt.ServiceName != "" {
		fmt.Fprintf(&sb, "🧴 %s\n", appt.ServiceName)
	}
	if appt.ProfessionalName != "" {
		fmt.Fprintf(&sb, "👩‍⚕️ %s\n", appt.ProfessionalName)
	}
	if appt.Reason != "" {
		fmt.Fprintf(&sb, "📝 %s\n", appt.Reason)
	}
	fmt.Fprintf(&sb, "Estado: %s", StatusLabel(appt.Status))

	return sb.String()
}
