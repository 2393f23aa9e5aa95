package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quality-bot/config"
	telegram "quality-bot/internal/api"
	"quality-bot/internal/container"
	"quality-bot/internal/domain/port"
	"quality-bot/internal/infrastructure/storage"
	"quality-bot/internal/infrastructure/vision"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.LogLevel != "" {
		if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	}

	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN is required")
	}

	// The camera detector needs a build with the gocv tag; by default the
	// stations run on the mock sensor.
	var detector port.DefectDetector
	if cfg.CameraDevice != "" {
		detector = vision.NewCameraDetector(cfg.CameraDevice)
		log.Info().Str("device", cfg.CameraDevice).Msg("using camera detector")
	} else {
		var src rand.Source
		if cfg.MockSeed != 0 {
			src = rand.NewSource(cfg.MockSeed)
		}
		detector = vision.NewMockDetector(src)
		log.Info().Msg("using mock visual detector")
	}

	userRepo := storage.NewMemoryUserRepository()
	inspectionLog := storage.NewMemoryInspectionLog()

	appContainer := container.New(userRepo, inspectionLog, detector, detector)

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	log.Info().Msg("quality control bot is running")
	if err := bot.Run(); err != nil {
		log.Fatal().Err(err).Msg("bot error")
	}
}
