package services

import (
	"testing"

	"meditrack_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowStockBoundary(t *testing.T) {
	h := newHarness(t)
	h.addDrug("Hundred", 1, 100)
	h.addDrug("HundredOne", 1, 101)

	low, err := h.catalog.GetLowStockDrugs(h.ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Hundred", low[0].Name)
	assert.True(t, low[0].IsLowStock())
	assert.False(t, models.Drug{Stock: 101}.IsLowStock())
}

func TestGetDrugs_CachedUntilDrugAdded(t *testing.T) {
	h := newHarness(t)
	h.addDrug("Alpha", 1, 10)

	drugs, err := h.catalog.GetDrugs(h.ctx, models.DrugFilters{})
	require.NoError(t, err)
	require.Len(t, drugs, 1)

	_, err = h.db.Exec(`UPDATE drugs SET name = 'Renamed'`)
	require.NoError(t, err)
	drugs, err = h.catalog.GetDrugs(h.ctx, models.DrugFilters{})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", drugs[0].Name, "served from cache")

	h.addDrug("Beta", 1, 10)
	drugs, err = h.catalog.GetDrugs(h.ctx, models.DrugFilters{})
	require.NoError(t, err)
	require.Len(t, drugs, 2)
	assert.Equal(t, "Renamed", drugs[0].Name)
}

func TestGetDrugs_FilterValidation(t *testing.T) {
	h := newHarness(t)
	lo, hi := 10.0, 1.0
	_, err := h.catalog.GetDrugs(h.ctx, models.DrugFilters{MinPrice: &lo, MaxPrice: &hi})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddDrug_Validation(t *testing.T) {
	h := newHarness(t)
	_, err := h.catalog.AddDrug(h.ctx, CreateDrugRequest{Name: "Neg", Price: -1})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = h.catalog.GetStockMovements(h.ctx, 12345)
	assert.ErrorIs(t, err, ErrDrugNotFound)
}

func TestGetSuppliers_ByNameDescending(t *testing.T) {
	h := newHarness(t)
	_, err := h.auth.SignupSupplier(h.ctx, SupplierSignupRequest{Name: "Zeta Labs", Email: "z@labs.test", Password: "longenough"})
	require.NoError(t, err)

	suppliers, err := h.catalog.GetSuppliers(h.ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "Zeta Labs", suppliers[0].Name)
}
