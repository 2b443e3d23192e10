package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/controller/state"
)

// HandleStart - команда /start
func (h *Handler) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	h.State.ClearState(chatID)

	h.Logger.Info("User started bot", zap.Int64("chat_id", chatID))

	text := "🐶 <b>Huellitas Consentidas</b>\n\n" +
		"Hola, soy el asistente de agenda de la clínica.\n\n" +
		"Usa /agenda para ver el calendario semanal de citas.\n" +
		"Usa /ayuda para ver todos los comandos."

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
}

// HandleHelp - команда /ayuda
func (h *Handler) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	text := "ℹ️ <b>Comandos disponibles</b>\n\n" +
		"/agenda — calendario semanal de citas\n" +
		"/cancelar — cancelar la edición en curso\n" +
		"/ayuda — esta ayuda\n\n" +
		"En el calendario: toca un día para ver sus horarios, " +
		"un horario libre para crear una cita, " +
		"o una cita existente para editarla.\n\n" +
		"Horario de atención: 08:00 – 17:00, lunes a sábado."

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
}

// HandleAgenda - команда /agenda, показывает текущую неделю
func (h *Handler) HandleAgenda(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	h.State.ClearState(chatID)

	view, err := h.Calendar.CurrentWeek(ctx, chatID)
	if err != nil {
		h.Logger.Error("Failed to load current week", zap.Int64("chat_id", chatID), zap.Error(err))
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Error de conexión con el servidor. Intenta de nuevo con /agenda.",
		})
		return
	}

	h.ShowWeek(ctx, b, chatID, view, 0)
}

// HandleCancel - команда /cancelar, сбрасывает текущий диалог
func (h *Handler) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	if h.State.GetState(chatID) == state.StateNone && h.State.Editor(chatID) == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "No hay ninguna edición en curso. Usa /agenda para ver el calendario.",
		})
		return
	}

	// Текстовый диалог прерывается, но редактор (если открыт) остаётся:
	// пользователь возвращается к его экрану
	if h.State.Editor(chatID) != nil {
		h.State.SetState(chatID, state.StateNone)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "↩️ Entrada cancelada.",
		})
		h.ShowEditor(ctx, b, chatID, 0)
		return
	}

	h.State.ClearState(chatID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "↩️ Edición cancelada.",
	})
}
