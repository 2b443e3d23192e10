package common

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huellitas/clinic_bot/internal/model"
)

func TestAppointmentLine(t *testing.T) {
	appt := &model.Appointment{
		ID:              1,
		PetName:         "Firulais",
		ServiceName:     "Baño Medicado",
		AppointmentDate: "2024-06-12T09:00:00",
		Status:          model.StatusPendiente,
	}

	assert.Equal(t, "🕒 09:00 Firulais · Baño Medicado", AppointmentLine(appt))
}

func TestAppointmentLineWithoutNames(t *testing.T) {
	appt := &model.Appointment{
		ID:              2,
		PetID:           7,
		AppointmentDate: "2024-06-12T14:00:00",
		Status:          model.StatusConfirmada,
	}

	assert.Equal(t, "✅ 14:00 Mascota #7", AppointmentLine(appt))
}

func TestStatusEmojiUnknownStatus(t *testing.T) {
	assert.Equal(t, "❔", StatusEmoji(model.AppointmentStatus("algo_raro")))
}

func TestStatusLabelUnknownStatusFallsBackToRaw(t *testing.T) {
	assert.Equal(t, "algo_raro", StatusLabel(model.AppointmentStatus("algo_raro")))
}

func TestAppointmentCard(t *testing.T) {
	appt := &model.Appointment{
		ID:               3,
		PetName:          "Michi",
		OwnerName:        "Ana Pérez",
		ServiceName:      "Consulta General",
		ProfessionalName: "Dra. López",
		Reason:           "Chequeo anual",
		AppointmentDate:  "2024-06-12T10:00:00",
		Status:           model.StatusConfirmada,
	}

	card := AppointmentCard(appt)
	assert.Contains(t, card, "Mié 12")
	assert.Contains(t, card, "10:00")
	assert.Contains(t, card, "Michi")
	assert.Contains(t, card, "Ana Pérez")
	assert.Contains(t, card, "Consulta General")
	assert.Contains(t, card, "Dra. López")
	assert.Contains(t, card, "Chequeo anual")
	assert.Contains(t, card, "Estado: Confirmada")
}
