package database_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design-campaign-backend/internal/database"
)

func TestNames(t *testing.T) {
	names, err := database.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_history_blobs.sql"}, names)
}

func TestMigrator_RunIsIdempotent(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	m, err := database.NewMigrator(dbURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Run(context.Background()))
	require.NoError(t, m.Run(context.Background()))
}

func TestNewMigrator_Unreachable(t *testing.T) {
	_, err := database.NewMigrator("postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", nil)
	assert.Error(t, err)
}
