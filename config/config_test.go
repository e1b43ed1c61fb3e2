package config_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skybook/config"
)

func TestPostgresNode_DSN(t *testing.T) {
	node := config.PostgresNode{
		Host:     "db.internal",
		Port:     "5433",
		Username: "booker",
		Password: "p@ss word",
		Name:     "skybook",
		SSLMode:  "require",
		Timezone: "UTC",
	}

	dsn, err := url.Parse(node.DSN("test_", url.Values{"x-migrations-table": {"schema_migrations"}}))
	require.NoError(t, err)

	assert.Equal(t, "postgres", dsn.Scheme)
	assert.Equal(t, "db.internal:5433", dsn.Host)
	assert.Equal(t, "/test_skybook", dsn.Path)
	assert.Equal(t, "booker", dsn.User.Username())

	secret, ok := dsn.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss word", secret)

	query := dsn.Query()
	assert.Equal(t, "require", query.Get("sslmode"))
	assert.Equal(t, "UTC", query.Get("timezone"))
	assert.Equal(t, "schema_migrations", query.Get("x-migrations-table"))
}

func TestPostgresNode_DSNWithoutTimezone(t *testing.T) {
	node := config.PostgresNode{Host: "localhost", Port: "5432", Username: "u", Name: "skybook", SSLMode: "disable"}

	dsn, err := url.Parse(node.DSN("", nil))
	require.NoError(t, err)

	assert.Equal(t, "/skybook", dsn.Path)
	assert.False(t, dsn.Query().Has("timezone"))
}
