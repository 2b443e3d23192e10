package main

import (
	"fmt"
	"os"
	"time"

	"github.com/huellitas/clinic_bot/internal/calendar"
	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/controller/callbacks/common"
	"github.com/huellitas/clinic_bot/internal/model"
)

// Утилита для проверки отрисовки недельной картинки без запуска бота:
// генерирует PNG с тестовыми записями и сохраняет его на диск.
func main() {
	days := calendar.WeekDays(clinictime.Now())

	appts := []*model.Appointment{
		// Понедельник 09:00
		{
			ID:              1,
			PetName:         "Firulais",
			ServiceName:     "Baño Medicado",
			AppointmentDate: clinictime.FormatBackend(days[0].Add(9 * time.Hour)),
			Status:          model.StatusPendiente,
		},
		// Понедельник 09:40 - тот же слот, что и первая
		{
			ID:              2,
			PetName:         "Michi",
			ServiceName:     "Consulta General",
			AppointmentDate: clinictime.FormatBackend(days[0].Add(9*time.Hour + 40*time.Minute)),
			Status:          model.StatusConfirmada,
		},
		// Среда 14:00
		{
			ID:              3,
			PetName:         "Rocky",
			ServiceName:     "Vacunación",
			AppointmentDate: clinictime.FormatBackend(days[2].Add(14 * time.Hour)),
			Status:          model.StatusRealizada,
		},
		// Суббота 16:00 - последний слот сетки
		{
			ID:              4,
			PetName:         "Luna",
			ServiceName:     "Peluquería",
			AppointmentDate: clinictime.FormatBackend(days[5].Add(16 * time.Hour)),
			Status:          model.StatusCancelada,
		},
	}

	imageBytes, err := common.GenerateWeekImage(days, appts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate week image: %v\n", err)
		os.Exit(1)
	}

	outPath := "semana_preview.png"
	if err := os.WriteFile(outPath, imageBytes, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("✅ %s (%d bytes, semana %s)\n", outPath, len(imageBytes), calendar.WeekRangeLabel(days))
}
