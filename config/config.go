package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	CameraDevice  string
	MockSeed      int64
	LogLevel      string
}

func Load() (*Config, error) {
	// Load the .env file, ignore the error when it does not exist.
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		CameraDevice:  os.Getenv("CAMERA_DEVICE"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}

	if v := os.Getenv("MOCK_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse MOCK_SEED: %w", err)
		}
		cfg.MockSeed = seed
	}

	return cfg, nil
}
