package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/calendar"
	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/controller/callbacks/common"
	"github.com/huellitas/clinic_bot/internal/service"
)

// ShowWeek отправляет картинку недели с клавиатурой навигации.
// Старое сообщение удаляется: редактировать фото-сообщение текстом нельзя.
func (h *Handler) ShowWeek(ctx context.Context, b *bot.Bot, chatID int64, view *service.WeekView, oldMessageID int) {
	imageBytes, err := common.GenerateWeekImage(view.Days, view.Appointments)
	if err != nil {
		h.Logger.Error("Failed to generate week image", zap.Error(err))
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ No se pudo generar el calendario",
		})
		return
	}

	caption := fmt.Sprintf("📅 <b>Semana %s</b>\n%d citas", calendar.WeekRangeLabel(view.Days), len(view.Appointments))

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: "semana.png",
			Data:     bytes.NewReader(imageBytes),
		},
		Caption:     caption,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: weekKeyboard(view.Days),
	})
	if err != nil {
		h.Logger.Error("Failed to send week photo", zap.Error(err))
		return
	}

	if oldMessageID != 0 {
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    chatID,
			MessageID: oldMessageID,
		})
	}
}

// weekKeyboard строит клавиатуру недели: кнопки дней + ряд навигации
func weekKeyboard(days []time.Time) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton

	// Дни по три в ряд
	var row []models.InlineKeyboardButton
	for _, day := range days {
		row = append(row, models.InlineKeyboardButton{
			Text:         calendar.DayHeader(day),
			CallbackData: fmt.Sprintf("%s:%s", CallbackDayView, clinictime.DateKey(day)),
		})
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "⬅️ Anterior", CallbackData: CallbackWeekNav + ":-1"},
		{Text: "📍 Hoy", CallbackData: CallbackToday},
		{Text: "Siguiente ➡️", CallbackData: CallbackWeekNav + ":1"},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// HandleWeekNav - переход на соседнюю неделю (cal_nav:-1 | cal_nav:1)
func (h *Handler) HandleWeekNav(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	parts := strings.Split(callback.Data, ":")
	direction := 1
	if len(parts) == 2 {
		if d, err := strconv.Atoi(parts[1]); err == nil {
			direction = d
		}
	}

	view, err := h.Calendar.NavigateWeek(ctx, chatID, direction)
	if err != nil {
		h.Logger.Error("Week navigation failed", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Error de conexión con el servidor")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	h.ShowWeek(ctx, b, chatID, view, msg.ID)
}

// HandleToday возвращает календарь на текущую неделю
func (h *Handler) HandleToday(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	view, err := h.Calendar.CurrentWeek(ctx, chatID)
	if err != nil {
		h.Logger.Error("Failed to load current week", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Error de conexión con el servidor")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "📍 Semana actual")
	h.ShowWeek(ctx, b, chatID, view, msg.ID)
}

// HandleWeekBack возвращает к картинке недели без повторного запроса к бэкенду
func (h *Handler) HandleWeekBack(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	view := h.Calendar.View(chatID)
	if view == nil {
		// Состояние потеряно (рестарт бота) - загружаем текущую неделю
		var err error
		view, err = h.Calendar.CurrentWeek(ctx, chatID)
		if err != nil {
			common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Error de conexión con el servidor")
			return
		}
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	h.ShowWeek(ctx, b, chatID, view, msg.ID)
}

// HandleDayView показывает слоты одного дня (cal_day:2024-06-12)
func (h *Handler) HandleDayView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	parts := strings.Split(callback.Data, ":")
	if len(parts) != 2 {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}

	day, err := time.ParseInLocation("2006-01-02", parts[1], clinictime.Location())
	if err != nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Fecha inválida")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	h.showDay(ctx, b, chatID, day, msg.ID)
}

// showDay рисует экран дня: для каждого часа либо кнопка "создать",
// либо кнопки существующих записей
func (h *Handler) showDay(ctx context.Context, b *bot.Bot, chatID int64, day time.Time, oldMessageID int) {
	var rows [][]models.InlineKeyboardButton
	total := 0

	for _, slot := range calendar.TimeSlots() {
		appts := h.Calendar.SlotAppointments(chatID, day, slot)
		if len(appts) == 0 {
			hour, _ := calendar.SlotHour(slot)
			rows = append(rows, []models.InlineKeyboardButton{{
				Text:         fmt.Sprintf("🕒 %s — libre", slot),
				CallbackData: fmt.Sprintf("%s:%s:%d", CallbackSlotNew, clinictime.DateKey(day), hour),
			}})
			continue
		}
		for _, appt := range appts {
			total++
			rows = append(rows, []models.InlineKeyboardButton{{
				Text:         common.AppointmentLine(appt),
				CallbackData: fmt.Sprintf("%s:%d", CallbackApptEdit, appt.ID),
			}})
		}
	}

	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "⬅️ Volver a la semana", CallbackData: CallbackWeekBack},
	})

	text := fmt.Sprintf("📅 <b>%s (%s)</b>\n%d citas en este día\n\nElige un horario libre para crear una cita o una cita existente para editarla:",
		calendar.DayHeader(day), clinictime.DateKey(day), total)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: rows},
	})

	if oldMessageID != 0 {
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    chatID,
			MessageID: oldMessageID,
		})
	}
}
