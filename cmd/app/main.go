package main

import (
	"skybook/config"
	"skybook/di"
	"skybook/helper"
	"skybook/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Skybook API
// @version 1.0
// @description Flight search, seat allocation and booking lifecycle.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

//go:generate swag init -g cmd/app/main.go -o docs --parseInternal
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
