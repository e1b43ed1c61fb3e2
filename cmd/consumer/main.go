package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"skybook/config"
	"skybook/di"
	"skybook/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if !cfg.Kafka.Enable {
		log.Warn().Msg("Kafka is disabled, booking event consumer not started")

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := di.InitializeConsumer().Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("booking event consumer failed")
	}

	log.Info().Msg("booking event consumer stopped")
}
