// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"meditrack_backend/internal/database"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewDB returns a migrated in-memory SQLite database closed at test cleanup.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewSeededDB is NewDB plus the default payment methods.
func NewSeededDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db := NewDB(t)
	_, err := database.SeedPaymentMethods(context.Background(), db)
	require.NoError(t, err)
	return db
}
