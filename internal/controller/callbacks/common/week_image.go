package common

import (
	"bytes"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/huellitas/clinic_bot/internal/calendar"
	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/model"
)

// Константы размеров и отступов
const (
	imageWidth      = 1200
	imageHeight     = 800
	headerHeight    = 80
	leftLabelsWidth = 70
	legendHeight    = 40
	cellPadding     = 4.0
	chipRadius      = 5.0
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{60, 64, 70, 255}
	hourLabelColor = color.RGBA{110, 115, 120, 255}
	gridLineColor  = color.NRGBA{200, 200, 200, 255}
	todayBgColor   = color.NRGBA{255, 228, 196, 140}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{228, 230, 233, 255}
	chipTextColor  = color.RGBA{25, 28, 32, 255}

	statusColors = map[model.AppointmentStatus]color.RGBA{
		model.StatusPendiente:  {255, 214, 102, 235},
		model.StatusConfirmada: {133, 193, 85, 235},
		model.StatusRealizada:  {120, 170, 220, 235},
		model.StatusCancelada:  {170, 170, 170, 210},
	}
	defaultChipColor = color.RGBA{220, 220, 220, 230}
)

// GenerateWeekImage рисует недельную сетку приёмов: колонки Пн-Сб,
// строки - рабочие часы 08:00-16:00, записи - цветные плашки по статусу.
func GenerateWeekImage(days []time.Time, appts []*model.Appointment) ([]byte, error) {
	slots := calendar.TimeSlots()

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := float64(imageWidth-leftLabelsWidth) / float64(len(days))
	gridHeight := float64(imageHeight - headerHeight - legendHeight)
	cellHeight := gridHeight / float64(len(slots))
	today := clinictime.Now()

	drawTitle(dc, days)
	drawHourLabels(dc, slots, cellHeight)

	for dayIndex, day := range days {
		x := float64(leftLabelsWidth) + float64(dayIndex)*dayWidth
		drawDayColumn(dc, day, today, x, dayWidth, slots, cellHeight, dayIndex)

		for slotIndex, slot := range slots {
			cellAppts := calendar.AppointmentsForSlot(appts, day, slot)
			if len(cellAppts) == 0 {
				continue
			}
			y := float64(headerHeight) + float64(slotIndex)*cellHeight
			drawChips(dc, cellAppts, x, y, dayWidth, cellHeight)
		}
	}

	drawLegend(dc)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTitle(dc *gg.Context, days []time.Time) {
	dc.SetColor(textColor)
	title := calendar.WeekRangeLabel(days)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/3, 0.5, 0.5)
}

func drawHourLabels(dc *gg.Context, slots []string, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for i, slot := range slots {
		y := float64(headerHeight) + float64(i)*cellHeight + cellHeight/2
		dc.DrawStringAnchored(slot, float64(leftLabelsWidth)-8, y, 1, 0.5)
	}
}

func drawDayColumn(dc *gg.Context, day, today time.Time, x, dayWidth float64,
	slots []string, cellHeight float64, dayIndex int) {

	gridHeight := float64(len(slots)) * cellHeight

	// Фон колонки, сегодняшний день подсвечивается
	switch {
	case sameDay(day, today):
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, float64(headerHeight), dayWidth, gridHeight)
	dc.Fill()

	// Заголовок дня: "Mié 12"
	dc.SetColor(textColor)
	dc.DrawStringAnchored(calendar.DayHeader(day), x+dayWidth/2, float64(headerHeight)*2/3, 0.5, 0.5)

	// Линии часов
	dc.SetColor(gridLineColor)
	dc.SetLineWidth(1)
	for i := 0; i <= len(slots); i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawLine(x, y, x+dayWidth, y)
		dc.Stroke()
	}
	dc.DrawLine(x, float64(headerHeight), x, float64(headerHeight)+gridHeight)
	dc.Stroke()
}

// drawChips рисует плашки записей ячейки, деля её высоту поровну:
// несколько записей в одном слоте - валидная ситуация, показываем все
func drawChips(dc *gg.Context, appts []*model.Appointment, x, y, dayWidth, cellHeight float64) {
	chipHeight := (cellHeight - 2*cellPadding) / float64(len(appts))

	for i, appt := range appts {
		chipColor, ok := statusColors[appt.Status]
		if !ok {
			chipColor = defaultChipColor
		}

		chipY := y + cellPadding + float64(i)*chipHeight
		dc.SetColor(chipColor)
		dc.DrawRoundedRectangle(x+cellPadding, chipY, dayWidth-2*cellPadding, chipHeight-1, chipRadius)
		dc.Fill()

		label := appt.PetName
		if label == "" {
			label = "Cita"
		}
		if appt.ServiceName != "" {
			label += " · " + appt.ServiceName
		}
		dc.SetColor(chipTextColor)
		dc.DrawStringAnchored(truncate(label, int(dayWidth/8)), x+dayWidth/2, chipY+chipHeight/2, 0.5, 0.5)
	}
}

func drawLegend(dc *gg.Context) {
	y := float64(imageHeight - legendHeight/2)
	x := float64(leftLabelsWidth)

	for _, status := range model.AllStatuses {
		dc.SetColor(statusColors[status])
		dc.DrawRoundedRectangle(x, y-7, 14, 14, 3)
		dc.Fill()

		label := StatusLabel(status)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(label, x+20, y, 0, 0.5)
		w, _ := dc.MeasureString(label)
		x += 20 + w + 30
	}
}

func sameDay(a, b time.Time) bool {
	a = clinictime.ToClinic(a)
	b = clinictime.ToClinic(b)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
