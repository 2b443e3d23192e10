package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/controller/state"
	"github.com/huellitas/clinic_bot/internal/service"
)

// Handler обрабатывает команды и текстовые сообщения
type Handler struct {
	Calendar *service.CalendarService
	State    *state.Manager
	Logger   *zap.Logger

	// Функции отрисовки, устанавливаются контроллером при сборке:
	// экраны недели и редактора живут в пакете callbacks
	ShowWeek   func(ctx context.Context, b *bot.Bot, chatID int64, view *service.WeekView, oldMessageID int)
	ShowEditor func(ctx context.Context, b *bot.Bot, chatID int64, oldMessageID int)
}

// NewHandler создаёт новый обработчик команд
func NewHandler(calendarService *service.CalendarService, stateManager *state.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		Calendar: calendarService,
		State:    stateManager,
		Logger:   logger,
	}
}
