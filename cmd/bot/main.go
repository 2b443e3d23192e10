package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/huellitas/clinic_bot/internal/api"
	"github.com/huellitas/clinic_bot/internal/app"
	"github.com/huellitas/clinic_bot/internal/clinictime"
	"github.com/huellitas/clinic_bot/internal/config"
	"github.com/huellitas/clinic_bot/internal/controller"
	"github.com/huellitas/clinic_bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting clinic bot",
		"environment", cfg.Environment,
		"api_base_url", cfg.APIBaseURL,
		"timezone", cfg.ClinicTimezone)

	if err := clinictime.Configure(cfg.ClinicTimezone); err != nil {
		logger.Warn("Unknown clinic timezone, using fixed UTC-5 offset",
			zap.String("timezone", cfg.ClinicTimezone), zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Авторизуемся на бэкенде клиники до запуска бота
	session := api.NewSession()
	apiClient := api.NewClient(cfg.APIBaseURL, session, logger)
	if err := apiClient.Login(ctx, cfg.APIUsername, cfg.APIPassword); err != nil {
		logger.Fatal("Failed to login to clinic backend", zap.Error(err))
	}
	logger.Info("✅ Logged in to clinic backend")

	calendarService := service.NewCalendarService(apiClient, logger)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, calendarService, apiClient, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	logger.Info("✅ Clinic bot is running")
	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
