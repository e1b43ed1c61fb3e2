package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"skybook/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

// MigrationDSN points golang-migrate at the write node with the configured history table.
func MigrationDSN(cfg *config.Config) string {
	pg := cfg.DB.Postgres

	return pg.Write.DSN(pg.Prefix, url.Values{"x-migrations-table": {pg.MigrationTable}})
}

func open(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(migrationSource, MigrationDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func run(cfg *config.Config, action string, step func(*migrate.Migrate) error) error {
	mig, err := open(cfg)
	if err != nil {
		return err
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrate instance")
		}
	}()

	if err = step(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", action, err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Str("action", action).Msg("Database schema already current")

		return nil
	}

	log.Info().Str("action", action).Msg("Database migration finished")

	return nil
}

// Up applies every pending migration.
func Up(cfg *config.Config) error {
	return run(cfg, "up", (*migrate.Migrate).Up)
}

func StepUp(cfg *config.Config) error {
	return run(cfg, "step-up", func(m *migrate.Migrate) error { return m.Steps(1) })
}

// Down rolls back the latest migration only.
func Down(cfg *config.Config) error {
	return run(cfg, "down", func(m *migrate.Migrate) error { return m.Steps(-1) })
}

// Drop rolls back every migration.
func Drop(cfg *config.Config) error {
	return run(cfg, "drop", (*migrate.Migrate).Down)
}

// Version reports the applied migration version and whether the last run left it dirty.
func Version(cfg *config.Config) (version uint, dirty bool, err error) {
	mig, err := open(cfg)
	if err != nil {
		return 0, false, err
	}
	defer mig.Close()

	version, dirty, err = mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}

	return version, dirty, nil
}
