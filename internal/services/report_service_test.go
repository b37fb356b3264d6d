package services

import (
	"testing"

	"meditrack_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReport(t *testing.T) {
	h := newHarness(t)
	h.addDrug("Paracetamol", 10, 150)
	h.addDrug("Aspirin", 5, 20)

	result, err := h.reports.GenerateReport(h.ctx, models.ReportRequest{Type: models.ReportDrugs, Filter: "name", Value: "para"})
	require.NoError(t, err)
	assert.Equal(t, "name: para", result.FilterLabel)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Paracetamol", result.Rows[0][1])

	result, err = h.reports.GenerateReport(h.ctx, models.ReportRequest{Type: models.ReportLowStock})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Aspirin", result.Rows[0][1])

	_, err = h.reports.GenerateReport(h.ctx, models.ReportRequest{Type: models.ReportDrugs, Filter: "colour"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDashboards(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Low", 1, 5)
	h.addDrug("Plenty", 1, 500)
	_, err := h.restocks.CreateRestock(h.ctx, h.pharmacy.ID, CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: drug.ID, Quantity: 2})
	require.NoError(t, err)

	pd, err := h.reports.GetPharmacistDashboard(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pd.TotalDrugs)
	assert.Equal(t, 1, pd.TotalSuppliers)
	assert.Equal(t, 1, pd.TotalTickets)
	assert.Equal(t, 1, pd.LowStockCount)
	assert.Len(t, pd.RecentTickets, 1)
	assert.Len(t, pd.LowStockDrugs, 1)

	sd, err := h.reports.GetSupplierDashboard(h.ctx, h.supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sd.TotalRestockOrders)
	assert.Equal(t, 1, sd.TotalTickets)
	assert.Len(t, sd.MyRecentTickets, 1)

	other, err := h.reports.GetSupplierDashboard(h.ctx, h.supplier.ID+1)
	require.NoError(t, err)
	assert.Zero(t, other.TotalTickets)
}

func TestNotificationsMarkRead(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Low", 1, 5)
	_, err := h.restocks.CreateRestock(h.ctx, h.pharmacy.ID, CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: drug.ID, Quantity: 2})
	require.NoError(t, err)

	n, err := h.payments.MarkNotificationsRead(h.ctx, h.supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := h.payments.GetNotifications(h.ctx, h.supplier.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
}
