package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/controller/state"
	"github.com/huellitas/clinic_bot/internal/editor"
)

// Состояние текстового диалога -> поле черновика
var stateFields = map[state.UserState]string{
	state.StateEditDate:             editor.FieldDate,
	state.StateEditReason:           editor.FieldReason,
	state.StateEditMedicationType:   editor.FieldMedicationType,
	state.StateEditMedicationDosage: editor.FieldMedicationDosage,
	state.StateEditInstructions:     editor.FieldInstructions,
	state.StateEditObservations:     editor.FieldObservations,
}

// HandleTextMessage обрабатывает текстовые сообщения по текущему состоянию диалога
func (h *Handler) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userState := h.State.GetState(chatID)

	field, ok := stateFields[userState]
	if !ok {
		// Вне диалога текст игнорируем, только подсказываем команду
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usa /agenda para ver el calendario de citas.",
		})
		return
	}

	ed := h.State.Editor(chatID)
	if ed == nil {
		h.Logger.Warn("Dialog state without editor", zap.Int64("chat_id", chatID), zap.String("state", string(userState)))
		h.State.ClearState(chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⚠️ La sesión de edición expiró. Usa /agenda para empezar de nuevo.",
		})
		return
	}

	ed.SetField(field, update.Message.Text)
	h.State.SetState(chatID, state.StateNone)
	h.ShowEditor(ctx, b, chatID, 0)
}
