package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/api"
	"github.com/huellitas/clinic_bot/internal/controller/callbacks/common"
	"github.com/huellitas/clinic_bot/internal/controller/state"
	"github.com/huellitas/clinic_bot/internal/service"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Calendar *service.CalendarService
	Store    *api.Client
	State    *state.Manager
	Logger   *zap.Logger
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	calendarService *service.CalendarService,
	store *api.Client,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Calendar: calendarService,
		Store:    store,
		State:    stateManager,
		Logger:   logger,
	}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Error")
		return
	}

	Route(ctx, b, callback, h)
}
