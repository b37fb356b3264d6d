package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var tables int
	require.NoError(t, db.Get(&tables, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'"))
	assert.Equal(t, 12, tables)
}

func TestSeedPaymentMethods_OnlyOnce(t *testing.T) {
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db))

	ctx := context.Background()

	inserted, err := SeedPaymentMethods(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 4, inserted)

	inserted, err = SeedPaymentMethods(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	var names []string
	require.NoError(t, db.Select(&names, "SELECT method_name FROM payment_methods ORDER BY id"))
	assert.Equal(t, []string{"COD", "UPI", "Net Banking", "Studd"}, names)
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.Error(t, err)
}
