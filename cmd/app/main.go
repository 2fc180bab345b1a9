package main

import (
	"context"

	"smashroom/config"
	"smashroom/di"
	"smashroom/helper"
	"smashroom/infras/metrics"
	"smashroom/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Smashroom API
// @version 1.0
// @description Rage room booking service.
// @BasePath /
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name access_token
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	if cfg.Metrics.Enable {
		metrics.Register()
	}

	service := di.InitializeService()

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.Kafka.Enable {
		go service.Listener.Listen(ctx)
	}

	service.HTTP.Serve()

	cancel()

	if err := service.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client")
	}

	if err := service.Otel.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}
