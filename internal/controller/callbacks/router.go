package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/controller/callbacks/common"
)

// Префиксы callback data
const (
	// Навигация по календарю
	CallbackWeekNav  = "cal_nav"  // cal_nav:-1 | cal_nav:1
	CallbackToday    = "cal_today"
	CallbackDayView  = "cal_day"  // cal_day:2024-06-12
	CallbackSlotNew  = "slot_new" // slot_new:2024-06-12:9 (дата и час)
	CallbackWeekBack = "cal_back"

	// Редактор записи
	CallbackApptEdit   = "appt_edit"     // appt_edit:42
	CallbackEditorShow = "ed_show"
	CallbackPickList   = "ed_pick"       // ed_pick:pet | service | prof | status
	CallbackPickPet    = "pick_pet"      // pick_pet:7
	CallbackPickSvc    = "pick_svc"
	CallbackPickProf   = "pick_prof"
	CallbackPickStatus = "pick_status"   // pick_status:confirmada
	CallbackEditField  = "ed_field"      // ed_field:reason - запускает текстовый диалог
	CallbackClearProf  = "ed_noprof"
	CallbackSubmit     = "ed_submit"
	CallbackCancelAsk  = "ed_cancel"
	CallbackCancelYes  = "ed_cancel_yes"
	CallbackClose      = "ed_close"
)

// Route направляет callback к соответствующему обработчику по префиксу
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	data := callback.Data
	prefix := data
	if idx := strings.Index(data, ":"); idx > 0 {
		prefix = data[:idx]
	}

	h.Logger.Debug("Routing callback", zap.String("prefix", prefix))

	switch prefix {
	case CallbackWeekNav:
		h.HandleWeekNav(ctx, b, callback)
	case CallbackToday:
		h.HandleToday(ctx, b, callback)
	case CallbackDayView:
		h.HandleDayView(ctx, b, callback)
	case CallbackWeekBack:
		h.HandleWeekBack(ctx, b, callback)
	case CallbackSlotNew:
		h.HandleSlotNew(ctx, b, callback)
	case CallbackApptEdit:
		h.HandleApptEdit(ctx, b, callback)
	case CallbackEditorShow:
		h.HandleEditorShow(ctx, b, callback)
	case CallbackPickList:
		h.HandlePickList(ctx, b, callback)
	case CallbackPickPet:
		h.HandlePickPet(ctx, b, callback)
	case CallbackPickSvc:
		h.HandlePickService(ctx, b, callback)
	case CallbackPickProf:
		h.HandlePickProfessional(ctx, b, callback)
	case CallbackPickStatus:
		h.HandlePickStatus(ctx, b, callback)
	case CallbackClearProf:
		h.HandleClearProfessional(ctx, b, callback)
	case CallbackEditField:
		h.HandleEditField(ctx, b, callback)
	case CallbackSubmit:
		h.HandleSubmit(ctx, b, callback)
	case CallbackCancelAsk:
		h.HandleCancelAsk(ctx, b, callback)
	case CallbackCancelYes:
		h.HandleCancelYes(ctx, b, callback)
	case CallbackClose:
		h.HandleClose(ctx, b, callback)
	default:
		h.Logger.Warn("Unknown callback prefix", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "")
	}
}
