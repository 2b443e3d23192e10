package callbacks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/controller/callbacks/common"
	"github.com/huellitas/clinic_bot/internal/controller/state"
	"github.com/huellitas/clinic_bot/internal/editor"
	"github.com/huellitas/clinic_bot/internal/model"
)

// Подписи полей редактора на экране
var fieldLabels = map[string]string{
	editor.FieldDate:             "📅 Fecha y hora",
	editor.FieldReason:           "📝 Motivo",
	editor.FieldMedicationType:   "💊 Medicamento",
	editor.FieldMedicationDosage: "💉 Dosis",
	editor.FieldInstructions:     "📋 Instrucciones",
	editor.FieldObservations:     "👁 Observaciones",
}

// Поле редактора -> состояние текстового диалога
var fieldStates = map[string]state.UserState{
	editor.FieldDate:             state.StateEditDate,
	editor.FieldReason:           state.StateEditReason,
	editor.FieldMedicationType:   state.StateEditMedicationType,
	editor.FieldMedicationDosage: state.StateEditMedicationDosage,
	editor.FieldInstructions:     state.StateEditInstructions,
	editor.FieldObservations:     state.StateEditObservations,
}

var fieldPrompts = map[string]string{
	editor.FieldDate:             "📅 Escribe la fecha y hora de la cita (formato YYYY-MM-DDTHH:MM, ej. 2024-06-12T09:00):",
	editor.FieldReason:           "📝 Escribe el motivo de la cita:",
	editor.FieldMedicationType:   "💊 Escribe el medicamento a aplicar:",
	editor.FieldMedicationDosage: "💉 Escribe la dosis:",
	editor.FieldInstructions:     "📋 Escribe las instrucciones:",
	editor.FieldObservations:     "👁 Escribe las observaciones:",
}

// HandleSlotNew открывает редактор создания из пустого слота
// (slot_new:2024-06-12:9)
func (h *Handler) HandleSlotNew(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	parts := strings.Split(callback.Data, ":")
	if len(parts) != 3 {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}

	day, err := time.ParseInLocation("2006-01-02", parts[1], clinictime.Location())
	if err != nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Fecha inválida")
		return
	}
	hour, err := strconv.Atoi(parts[2])
	if err != nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}

	ed := editor.NewCreate(h.Store, h.Logger, day, fmt.Sprintf("%02d:00", hour))
	if err := ed.LoadPickLists(ctx); err != nil {
		h.Logger.Error("Failed to load pick lists", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Error de conexión con el servidor")
		return
	}

	h.State.SetEditor(chatID, ed)
	common.AnswerCallback(ctx, b, callback.ID, "🆕 Nueva cita")
	h.ShowEditor(ctx, b, chatID, msg.ID)
}

// HandleApptEdit открывает редактор существующей записи (appt_edit:42)
func (h *Handler) HandleApptEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	apptID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}

	appt := h.Calendar.AppointmentByID(chatID, apptID)
	if appt == nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ La cita ya no está en esta semana. Actualiza el calendario.")
		return
	}

	ed := editor.NewEdit(h.Store, h.Logger, appt)
	if err := ed.LoadPickLists(ctx); err != nil {
		h.Logger.Error("Failed to load pick lists", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Error de conexión con el servidor")
		return
	}

	h.State.SetEditor(chatID, ed)
	common.AnswerCallback(ctx, b, callback.ID, "✏️ Editar cita")
	h.ShowEditor(ctx, b, chatID, msg.ID)
}

// HandleEditorShow перерисовывает экран редактора (ed_show)
func (h *Handler) HandleEditorShow(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	if h.State.Editor(chatID) == nil {
		h.expiredEditor(ctx, b, callback, chatID, msg.ID)
		return
	}
	common.AnswerCallback(ctx, b, callback.ID, "")
	h.ShowEditor(ctx, b, chatID, msg.ID)
}

// ShowEditor рисует экран редактора: сводка черновика, ошибки валидации
// и кнопки всех полей
func (h *Handler) ShowEditor(ctx context.Context, b *bot.Bot, chatID int64, oldMessageID int) {
	ed := h.State.Editor(chatID)
	if ed == nil {
		return
	}
	draft := ed.Draft

	var sb strings.Builder
	if draft.Mode == editor.ModeCreate {
		sb.WriteString("🆕 <b>Nueva cita</b>\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("✏️ <b>Editar cita #%d</b>\n", draft.AppointmentID))
		sb.WriteString(fmt.Sprintf("Estado: %s %s\n\n", common.StatusEmoji(draft.Status), common.StatusLabel(draft.Status)))
	}

	if draft.GeneralError != "" {
		sb.WriteString(fmt.Sprintf("❌ <b>%s</b>\n\n", draft.GeneralError))
	}
	for _, field := range []string{editor.FieldPet, editor.FieldService, editor.FieldProfessional} {
		if errMsg, ok := draft.Errors[field]; ok {
			sb.WriteString(fmt.Sprintf("⚠️ %s\n", errMsg))
		}
	}
	for _, field := range []string{
		editor.FieldDate, editor.FieldReason,
		editor.FieldMedicationType, editor.FieldMedicationDosage,
		editor.FieldInstructions, editor.FieldObservations,
	} {
		if errMsg, ok := draft.Errors[field]; ok {
			sb.WriteString(fmt.Sprintf("⚠️ %s: %s\n", fieldLabels[field], errMsg))
		}
	}

	rows := [][]models.InlineKeyboardButton{
		{{
			Text:         "🐾 Mascota: " + petTitle(ed),
			CallbackData: CallbackPickList + ":pet",
		}},
		{{
			Text:         "🧴 Servicio: " + serviceTitle(ed),
			CallbackData: CallbackPickList + ":service",
		}},
		{{
			Text:         "👩‍⚕️ Profesional: " + professionalTitle(ed),
			CallbackData: CallbackPickList + ":prof",
		}},
		{{
			Text:         "📅 Fecha: " + orDash(draft.DateInput),
			CallbackData: CallbackEditField + ":" + editor.FieldDate,
		}},
		{{
			Text:         "📝 Motivo: " + orDash(draft.Reason),
			CallbackData: CallbackEditField + ":" + editor.FieldReason,
		}},
	}

	// Поля медикации видны только для услуг, которые её требуют
	if ed.MedicationRequired() {
		rows = append(rows,
			[]models.InlineKeyboardButton{{
				Text:         "💊 Medicamento: " + orDash(draft.MedicationType),
				CallbackData: CallbackEditField + ":" + editor.FieldMedicationType,
			}},
			[]models.InlineKeyboardButton{{
				Text:         "💉 Dosis: " + orDash(draft.MedicationDosage),
				CallbackData: CallbackEditField + ":" + editor.FieldMedicationDosage,
			}},
		)
	}

	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "📋 Instrucciones", CallbackData: CallbackEditField + ":" + editor.FieldInstructions},
		{Text: "👁 Observaciones", CallbackData: CallbackEditField + ":" + editor.FieldObservations},
	})

	if draft.Mode == editor.ModeEdit {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         "🔄 Cambiar estado",
			CallbackData: CallbackPickList + ":status",
		}})
	}

	submitText := "💾 Guardar"
	if draft.Submitting {
		submitText = "⏳ Guardando..."
	}
	actionRow := []models.InlineKeyboardButton{
		{Text: submitText, CallbackData: CallbackSubmit},
	}
	if draft.Mode == editor.ModeEdit {
		actionRow = append(actionRow, models.InlineKeyboardButton{
			Text: "🗑 Eliminar cita", CallbackData: CallbackCancelAsk,
		})
	}
	rows = append(rows, actionRow)
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "✖️ Cerrar sin guardar", CallbackData: CallbackClose},
	})

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        sb.String(),
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

// HandlePickList показывает список выбора (ed_pick:pet|service|prof|status)
func (h *Handler) HandlePickList(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	ed := h.State.Editor(chatID)
	if ed == nil {
		h.expiredEditor(ctx, b, callback, chatID, msg.ID)
		return
	}

	parts := strings.Split(callback.Data, ":")
	if len(parts) != 2 {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}

	var title string
	var rows [][]models.InlineKeyboardButton

	switch parts[1] {
	case "pet":
		title = "🐾 <b>Elige la mascota:</b>"
		for _, pet := range ed.Pets {
			label := pet.Name
			if pet.OwnerShortName != "" {
				label = fmt.Sprintf("%s (%s)", pet.Name, pet.OwnerShortName)
			}
			rows = append(rows, []models.InlineKeyboardButton{{
				Text:         label,
				CallbackData: fmt.Sprintf("%s:%d", CallbackPickPet, pet.ID),
			}})
		}
	case "service":
		title = "🧴 <b>Elige el servicio:</b>"
		for _, svc := range ed.Services {
			label := svc.Name
			if svc.RequiresMedication {
				label += " 💊"
			}
			rows = append(rows, []models.InlineKeyboardButton{{
				Text:         label,
				CallbackData: fmt.Sprintf("%s:%d", CallbackPickSvc, svc.ID),
			}})
		}
	case "prof":
		title = "👩‍⚕️ <b>Elige el profesional:</b>"
		for _, prof := range ed.Professionals {
			rows = append(rows, []models.InlineKeyboardButton{{
				Text:         prof.FullName,
				CallbackData: fmt.Sprintf("%s:%d", CallbackPickProf, prof.ID),
			}})
		}
		rows = append(rows, []models.InlineKeyboardButton{{
			Text: "🚫 Sin profesional asignado", CallbackData: CallbackClearProf,
		}})
	case "status":
		title = "🔄 <b>Elige el nuevo estado:</b>"
		for _, status := range model.AllStatuses {
			rows = append(rows, []models.InlineKeyboardButton{{
				Text:         fmt.Sprintf("%s %s", common.StatusEmoji(status), common.StatusLabel(status)),
				CallbackData: fmt.Sprintf("%s:%s", CallbackPickStatus, status),
			}})
		}
	default:
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}

	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "⬅️ Volver", CallbackData: CallbackEditorShow},
	})

	common.AnswerCallback(ctx, b, callback.ID, "")
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        title,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: msg.ID,
	})
}

// applyPick - общий путь выбора из справочника: применить к черновику
// и перерисовать редактор
func (h *Handler) applyPick(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, apply func(*editor.Editor, int64)) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	ed := h.State.Editor(chatID)
	if ed == nil {
		h.expiredEditor(ctx, b, callback, chatID, msg.ID)
		return
	}

	id, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}

	apply(ed, id)
	common.AnswerCallback(ctx, b, callback.ID, "")
	h.ShowEditor(ctx, b, chatID, msg.ID)
}

// HandlePickPet - выбор питомца (pick_pet:7)
func (h *Handler) HandlePickPet(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.applyPick(ctx, b, callback, func(ed *editor.Editor, id int64) {
		ed.SelectPet(id)
	})
}

// HandlePickService - выбор услуги (pick_svc:3)
func (h *Handler) HandlePickService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.applyPick(ctx, b, callback, func(ed *editor.Editor, id int64) {
		ed.SelectService(id)
	})
}

// HandlePickProfessional - выбор профессионала (pick_prof:5)
func (h *Handler) HandlePickProfessional(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.applyPick(ctx, b, callback, func(ed *editor.Editor, id int64) {
		ed.SelectProfessional(id)
	})
}

// HandleClearProfessional снимает назначение профессионала
func (h *Handler) HandleClearProfessional(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	ed := h.State.Editor(chatID)
	if ed == nil {
		h.expiredEditor(ctx, b, callback, chatID, msg.ID)
		return
	}

	ed.SelectProfessional(0)
	common.AnswerCallback(ctx, b, callback.ID, "")
	h.ShowEditor(ctx, b, chatID, msg.ID)
}

// HandlePickStatus меняет статус записи сразу на бэкенде (pick_status:confirmada)
func (h *Handler) HandlePickStatus(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	ed := h.State.Editor(chatID)
	if ed == nil {
		h.expiredEditor(ctx, b, callback, chatID, msg.ID)
		return
	}

	parts := strings.Split(callback.Data, ":")
	if len(parts) != 2 {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}
	status := model.AppointmentStatus(parts[1])

	if ed.Draft.Mode == editor.ModeEdit {
		if err := h.Store.UpdateStatus(ctx, ed.Draft.AppointmentID, status); err != nil {
			h.Logger.Error("Failed to update appointment status",
				zap.Int64("appointment_id", ed.Draft.AppointmentID), zap.Error(err))
			common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ No se pudo cambiar el estado")
			return
		}
	}

	ed.SetStatus(status)
	common.AnswerCallback(ctx, b, callback.ID, fmt.Sprintf("%s %s", common.StatusEmoji(status), common.StatusLabel(status)))
	h.ShowEditor(ctx, b, chatID, msg.ID)
}

// HandleEditField запускает текстовый диалог для поля (ed_field:reason)
func (h *Handler) HandleEditField(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	if h.State.Editor(chatID) == nil {
		h.expiredEditor(ctx, b, callback, chatID, msg.ID)
		return
	}

	parts := strings.SplitN(callback.Data, ":", 2)
	if len(parts) != 2 {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}
	field := parts[1]

	nextState, ok := fieldStates[field]
	if !ok {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}

	h.State.SetState(chatID, nextState)
	common.AnswerCallback(ctx, b, callback.ID, "")
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fieldPrompts[field] + "\n\nO envía /cancelar para volver sin cambios.",
	})
}

// HandleSubmit - атомарное сохранение черновика (ed_submit)
func (h *Handler) HandleSubmit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	ed := h.State.Editor(chatID)
	if ed == nil {
		h.expiredEditor(ctx, b, callback, chatID, msg.ID)
		return
	}

	if ed.Draft.Submitting {
		common.AnswerCallback(ctx, b, callback.ID, "⏳ Guardando...")
		return
	}

	if ed.Submit(ctx) {
		h.State.ClearState(chatID)
		common.AnswerCallback(ctx, b, callback.ID, "✅ Cita guardada")

		view, err := h.Calendar.Refresh(ctx, chatID)
		if err != nil {
			h.Logger.Error("Failed to refresh week after submit", zap.Error(err))
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "✅ Cita guardada, pero no se pudo actualizar el calendario. Usa /agenda.",
			})
			return
		}
		h.ShowWeek(ctx, b, chatID, view, msg.ID)
		return
	}

	// Валидация или бэкенд вернули ошибки - черновик сохранён, показываем их
	if ed.Draft.GeneralError != "" {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ "+ed.Draft.GeneralError)
	} else {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ Revisa los campos marcados")
	}
	h.ShowEditor(ctx, b, chatID, msg.ID)
}

// HandleCancelAsk - подтверждение удаления записи (ed_cancel)
func (h *Handler) HandleCancelAsk(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	ed := h.State.Editor(chatID)
	if ed == nil {
		h.expiredEditor(ctx, b, callback, chatID, msg.ID)
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      fmt.Sprintf("🗑 ¿Eliminar la cita #%d?\n\nEsta acción no se puede deshacer.", ed.Draft.AppointmentID),
		ParseMode: models.ParseModeHTML,
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🗑 Sí, eliminar", CallbackData: CallbackCancelYes},
				{Text: "⬅️ No, volver", CallbackData: CallbackEditorShow},
			},
		}},
	})
	b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: msg.ID})
}

// HandleCancelYes удаляет запись на бэкенде (ed_cancel_yes)
func (h *Handler) HandleCancelYes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	ed := h.State.Editor(chatID)
	if ed == nil {
		h.expiredEditor(ctx, b, callback, chatID, msg.ID)
		return
	}

	if !ed.CancelAppointment(ctx) {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ "+ed.Draft.GeneralError)
		h.ShowEditor(ctx, b, chatID, msg.ID)
		return
	}

	h.State.ClearState(chatID)
	common.AnswerCallback(ctx, b, callback.ID, "🗑 Cita eliminada")

	view, err := h.Calendar.Refresh(ctx, chatID)
	if err != nil {
		h.Logger.Error("Failed to refresh week after delete", zap.Error(err))
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "🗑 Cita eliminada, pero no se pudo actualizar el calendario. Usa /agenda.",
		})
		return
	}
	h.ShowWeek(ctx, b, chatID, view, msg.ID)
}

// HandleClose закрывает редактор без сохранения; сетевых запросов нет,
// календарь рисуется из уже загруженного состояния
func (h *Handler) HandleClose(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(callback)
	chatID := msg.Chat.ID

	h.State.ClearState(chatID)
	common.AnswerCallback(ctx, b, callback.ID, "✖️ Cambios descartados")

	view := h.Calendar.View(chatID)
	if view == nil {
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: msg.ID})
		return
	}
	h.ShowWeek(ctx, b, chatID, view, msg.ID)
}

// expiredEditor - редактор потерян (рестарт бота или /cancelar), возвращаем к календарю
func (h *Handler) expiredEditor(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, chatID int64, messageID int) {
	common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ La sesión de edición expiró. Abre la cita de nuevo.")
	view := h.Calendar.View(chatID)
	if view != nil {
		h.ShowWeek(ctx, b, chatID, view, messageID)
	}
}

func petTitle(ed *editor.Editor) string {
	if pet := ed.PetByID(ed.Draft.PetID); pet != nil {
		return pet.Name
	}
	return "—"
}

func serviceTitle(ed *editor.Editor) string {
	if svc := ed.SelectedService(); svc != nil {
		return svc.Name
	}
	return "—"
}

func professionalTitle(ed *editor.Editor) string {
	if prof := ed.ProfessionalByID(ed.Draft.ProfessionalID); prof != nil {
		return prof.FullName
	}
	return "—"
}

func orDash(value string) string {
	if value == "" {
		return "—"
	}
	return value
}
