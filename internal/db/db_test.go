package db

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-stream/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&config.DBConfig{Host: "localhost", Port: 5432, Username: "u", Password: "p", Database: "reviews"})
	assert.Equal(t, "host=localhost port=5432 user=u password=p dbname=reviews sslmode=disable", dsn)
}

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	require.NoError(t, up.Close())

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	require.NoError(t, down.Close())
}
