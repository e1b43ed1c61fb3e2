package postgres

//nolint:revive
import (
	"time"

	"skybook/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// Connection splits reads onto the replica. Both sides may point at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	return &Connection{
		Read:  connect("read", pg.Read, cfg),
		Write: connect("write", pg.Write, cfg),
	}
}

// connect retries MaxRetry times, RetryWaitTime seconds apart, and returns nil when every
// attempt failed.
func connect(role string, node config.PostgresNode, cfg *config.Config) *sqlx.DB {
	pg := cfg.DB.Postgres
	dsn := node.DSN(pg.Prefix, nil)

	logger := log.With().
		Str("role", role).
		Str("host", node.Host).
		Str("port", node.Port).
		Str("db", pg.Prefix+node.Name).
		Logger()

	for attempt := 1; attempt <= pg.MaxRetry; attempt++ {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConns)
			db.SetMaxIdleConns(pg.MaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifetimeMinutes) * time.Minute)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	logger.Error().Int("attempts", pg.MaxRetry).Msg("Giving up on database connection")

	return nil
}
