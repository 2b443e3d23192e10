package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/api"
	"github.com/huellitas/clinic_bot/internal/controller/callbacks"
	"github.com/huellitas/clinic_bot/internal/controller/handlers"
	"github.com/huellitas/clinic_bot/internal/controller/state"
	"github.com/huellitas/clinic_bot/internal/service"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handler
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	calendarService *service.CalendarService,
	apiClient *api.Client,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandler(calendarService, stateManager, logger)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(calendarService, apiClient, stateManager, logger)

	// Экраны недели и редактора принадлежат callbacks, команды их переиспользуют
	cmdHandlers.ShowWeek = callbackHandler.ShowWeek
	cmdHandlers.ShowEditor = callbackHandler.ShowEditor

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Регистрируем команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ayuda", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/agenda", bot.MatchTypeExact, c.handlers.HandleAgenda)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancelar", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "agenda", Description: "📅 Calendario semanal de citas"},
		{Command: "cancelar", Description: "↩️ Cancelar la edición en curso"},
		{Command: "ayuda", Description: "❓ Ayuda"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
