package services

import (
	"testing"

	"meditrack_backend/internal/events"
	"meditrack_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrder_DecrementsStockAndBills(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Paracetamol", 10.0, 150)

	result, err := h.orders.PlaceOrder(h.ctx, h.pharmacy.ID, PlaceOrderRequest{
		OrderName: "Walk-in", ItemName: "Paracetamol", Quantity: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 145, h.stockOf(drug.ID))
	assert.Equal(t, 145, result.RemainingStock)
	assert.Equal(t, 50.0, result.Payment.Amount)
	assert.Equal(t, models.PaymentStatusPending, result.Payment.Status)
	assert.Equal(t, "Order-"+itoa(result.Order.ID), result.Payment.TransactionReference)
	require.NotNil(t, result.Payment.Notes)
	assert.Equal(t, "Order ID: "+itoa(result.Order.ID), *result.Payment.Notes)
	require.NotNil(t, result.Payment.SupplierID)
	assert.Equal(t, h.supplier.ID, *result.Payment.SupplierID)

	cod, err := h.paymentRepo.GetPaymentMethodByName(h.ctx, h.db, models.DefaultPaymentMethodName)
	require.NoError(t, err)
	assert.Equal(t, cod.ID, *result.Payment.PaymentMethodID)

	movements, err := h.catalog.GetStockMovements(h.ctx, drug.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, -5, movements[0].QuantityChanged)
	assert.Equal(t, models.MovementTypeSale, movements[0].MovementType)

	assert.Equal(t, []string{events.OrderPlaced}, h.publisher.types())
}

func TestPlaceOrder_InsufficientStockLeavesNoTrace(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Insulin", 30, 3)

	_, err := h.orders.PlaceOrder(h.ctx, h.pharmacy.ID, PlaceOrderRequest{OrderName: "o", ItemName: "Insulin", Quantity: 4})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "has 3 in stock")

	assert.Equal(t, 3, h.stockOf(drug.ID))
	assert.Zero(t, h.count("orders"))
	assert.Zero(t, h.count("payments"))
	assert.Zero(t, h.count("stock_movements"))
	assert.Empty(t, h.publisher.types())
}

func TestPlaceOrder_RollsBackOnLaterFailure(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Aspirin", 2, 50)

	_, err := h.orders.PlaceOrder(h.ctx, h.pharmacy.ID, PlaceOrderRequest{
		OrderName: "o", ItemName: "Aspirin", Quantity: 5, PaymentMethod: "Barter",
	})
	require.ErrorIs(t, err, ErrPaymentMethodNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 50, h.stockOf(drug.ID), "stock decrement must be rolled back")
	assert.Zero(t, h.count("orders"))
	assert.Zero(t, h.count("stock_movements"))
}

func TestPlaceOrder_Rejects(t *testing.T) {
	h := newHarness(t)
	h.addDrug("Zinc", 1, 10)

	tests := []struct {
		name    string
		req     PlaceOrderRequest
		wantErr error
	}{
		{"unknown drug", PlaceOrderRequest{OrderName: "o", ItemName: "Unobtainium", Quantity: 1}, ErrDrugNotFound},
		{"zero quantity", PlaceOrderRequest{OrderName: "o", ItemName: "Zinc", Quantity: 0}, ErrValidation},
		{"negative quantity", PlaceOrderRequest{OrderName: "o", ItemName: "Zinc", Quantity: -2}, ErrValidation},
		{"missing order name", PlaceOrderRequest{ItemName: "Zinc", Quantity: 1}, ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.orders.PlaceOrder(h.ctx, h.pharmacy.ID, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Zero(t, h.count("orders"))
}

func TestPlaceOrder_ExactStockEmptiesShelf(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Iron", 4, 7)

	_, err := h.orders.PlaceOrder(h.ctx, h.pharmacy.ID, PlaceOrderRequest{OrderName: "o", ItemName: "Iron", Quantity: 7, PaymentMethod: "UPI"})
	require.NoError(t, err)
	assert.Zero(t, h.stockOf(drug.ID))
}

func TestGetOrders_RefreshedAfterPlacement(t *testing.T) {
	h := newHarness(t)
	h.addDrug("Zinc", 1, 10)

	orders, err := h.orders.GetOrders(h.ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = h.orders.PlaceOrder(h.ctx, h.pharmacy.ID, PlaceOrderRequest{OrderName: "o", ItemName: "Zinc", Quantity: 1})
	require.NoError(t, err)

	orders, err = h.orders.GetOrders(h.ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
