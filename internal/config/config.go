package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string
	APIBaseURL     string
	APIUsername    string
	APIPassword    string
	ClinicTimezone string
	Environment    string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		APIBaseURL:     os.Getenv("API_BASE_URL"),
		APIUsername:    os.Getenv("API_USERNAME"),
		APIPassword:    os.Getenv("API_PASSWORD"),
		ClinicTimezone: os.Getenv("CLINIC_TIMEZONE"),
		Environment:    os.Getenv("ENV"),
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.ClinicTimezone == "" {
		cfg.ClinicTimezone = "America/Guayaquil"
	}

	// Обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required but not set")
	}
	if cfg.APIUsername == "" || cfg.APIPassword == "" {
		return nil, fmt.Errorf("API_USERNAME and API_PASSWORD are required but not set")
	}

	return cfg, nil
}
