package main

import (
	"fmt"
	"os"

	"skybook/config"
	"skybook/helper"
	"skybook/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func action(fn func(*config.Config) error) cli.ActionFunc {
	return func(*cli.Context) error {
		return fn(config.Get())
	}
}

func main() {
	cfg := config.Get()
	logger.InitLogger(cfg)

	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the skybook postgres schema",
		Commands: []*cli.Command{
			{Name: "up", Usage: "apply every pending migration", Action: action(helper.Up)},
			{Name: "step-up", Usage: "apply the next migration", Action: action(helper.StepUp)},
			{Name: "down", Usage: "roll back the latest migration", Action: action(helper.Down)},
			{Name: "drop", Usage: "roll back every migration", Action: action(helper.Drop)},
			{
				Name:  "version",
				Usage: "print the applied migration version",
				Action: func(*cli.Context) error {
					version, dirty, err := helper.Version(cfg)
					if err != nil {
						return err
					}

					fmt.Printf("version=%d dirty=%t\n", version, dirty)

					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
