package services

import (
	"strconv"
	"testing"

	"meditrack_backend/internal/events"
	"meditrack_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestCreateRestock_OpensTicketPaymentAndNotification(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Amoxicillin", 2.5, 40)

	result, err := h.restocks.CreateRestock(h.ctx, h.pharmacy.ID, CreateRestockRequest{
		SupplierID: h.supplier.ID, DrugID: drug.ID, Quantity: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RestockStatusPending, result.Restock.Status)
	assert.Equal(t, models.PaymentStatusPending, result.Restock.PaymentStatus)
	assert.Equal(t, models.TicketStatusOpen, result.Ticket.Status)
	assert.Equal(t, result.Restock.ID, result.Ticket.RestockID)
	assert.Equal(t, 50.0, result.Payment.Amount)
	assert.Equal(t, "Restock-"+itoa(result.Restock.ID), result.Payment.TransactionReference)
	assert.Equal(t, "Restock for Amoxicillin", *result.Payment.Notes)

	notifications, err := h.payments.GetNotifications(h.ctx, h.supplier.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "New Restock Payment", notifications[0].Title)
	assert.Equal(t, "Payment of $50.00 initiated for Restock ID "+itoa(result.Restock.ID), notifications[0].Message)
	assert.Equal(t, models.EntityTypePayment, *notifications[0].RelatedEntityType)
	assert.Equal(t, result.Payment.ID, *notifications[0].RelatedEntityID)

	assert.Equal(t, 40, h.stockOf(drug.ID), "creating a restock does not change stock")
	assert.Equal(t, []string{events.RestockCreated}, h.publisher.types())
}

func TestCreateRestock_OnlyForLowStockDrugs(t *testing.T) {
	h := newHarness(t)
	atThreshold := h.addDrug("AtThreshold", 1, models.LowStockThreshold)
	above := h.addDrug("Above", 1, models.LowStockThreshold+1)

	_, err := h.restocks.CreateRestock(h.ctx, h.pharmacy.ID, CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: atThreshold.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = h.restocks.CreateRestock(h.ctx, h.pharmacy.ID, CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: above.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrDrugNotLowStock)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, h.count("restock_orders"))
}

func TestCreateRestock_Rejects(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Low", 1, 5)
	missingMethod := int64(999)

	tests := []struct {
		name    string
		req     CreateRestockRequest
		wantErr error
	}{
		{"unknown drug", CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: 999, Quantity: 1}, ErrDrugNotFound},
		{"unknown supplier", CreateRestockRequest{SupplierID: 999, DrugID: drug.ID, Quantity: 1}, ErrSupplierNotFound},
		{"zero quantity", CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: drug.ID}, ErrValidation},
		{"unknown payment method", CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: drug.ID, Quantity: 1, PaymentMethodID: &missingMethod}, ErrPaymentMethodNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.restocks.CreateRestock(h.ctx, h.pharmacy.ID, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Zero(t, h.count("restock_orders"))
	assert.Zero(t, h.count("tickets"))
	assert.Zero(t, h.count("payments"))
}

func TestConfirmDelivery_ReplenishesAndClosesTickets(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Cetirizine", 3, 40)

	created, err := h.restocks.CreateRestock(h.ctx, h.pharmacy.ID, CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: drug.ID, Quantity: 10})
	require.NoError(t, err)

	low, err := h.catalog.GetLowStockDrugs(h.ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)

	result, err := h.restocks.ConfirmDelivery(h.ctx, h.supplier.ID, created.Restock.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultReplenishLevel, result.NewStock)
	assert.Equal(t, 40, result.PreviousStock)
	assert.Equal(t, int64(1), result.TicketsClosed)

	assert.Equal(t, DefaultReplenishLevel, h.stockOf(drug.ID))

	restock, err := h.restockRepo.GetRestockOrderByID(h.ctx, h.db, created.Restock.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RestockStatusDelivered, restock.Status)
	assert.Equal(t, models.PaymentStatusCompleted, restock.PaymentStatus)

	tickets, err := h.restocks.GetTickets(h.ctx, models.Session{Role: models.RoleSupplier, SubjectID: h.supplier.ID})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, models.TicketStatusClosed, tickets[0].Status)

	payments, err := h.paymentRepo.GetPaymentsByReference(h.ctx, h.db, "Restock-"+itoa(created.Restock.ID))
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusCompleted, payments[0].Status)

	low, err = h.catalog.GetLowStockDrugs(h.ctx)
	require.NoError(t, err)
	assert.Empty(t, low, "low stock listing must be invalidated by a delivery")

	movements, err := h.catalog.GetStockMovements(h.ctx, drug.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 160, movements[0].QuantityChanged)

	_, err = h.restocks.ConfirmDelivery(h.ctx, h.supplier.ID, created.Restock.ID)
	assert.ErrorIs(t, err, ErrAlreadyDelivered)

	assert.Equal(t, []string{events.RestockCreated, events.RestockDelivered}, h.publisher.types())
}

func TestConfirmDelivery_OwnershipAndMissing(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Low", 1, 5)
	created, err := h.restocks.CreateRestock(h.ctx, h.pharmacy.ID, CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: drug.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = h.restocks.ConfirmDelivery(h.ctx, h.supplier.ID+1, created.Restock.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 5, h.stockOf(drug.ID))

	_, err = h.restocks.ConfirmDelivery(h.ctx, h.supplier.ID, 999)
	assert.ErrorIs(t, err, ErrRestockNotFound)
}

func TestConfirmTicketDelivery(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Low", 1, 5)
	created, err := h.restocks.CreateRestock(h.ctx, h.pharmacy.ID, CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: drug.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = h.restocks.ConfirmTicketDelivery(h.ctx, h.supplier.ID, 999)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	result, err := h.restocks.ConfirmTicketDelivery(h.ctx, h.supplier.ID, created.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Restock.ID, result.RestockID)
	assert.Equal(t, DefaultReplenishLevel, h.stockOf(drug.ID))
}

func TestGetRestockNeeds(t *testing.T) {
	h := newHarness(t)
	drug := h.addDrug("Low", 1, 5)
	_, err := h.restocks.CreateRestock(h.ctx, h.pharmacy.ID, CreateRestockRequest{SupplierID: h.supplier.ID, DrugID: drug.ID, Quantity: 3})
	require.NoError(t, err)

	needs, err := h.restocks.GetRestockNeeds(h.ctx, h.supplier.ID)
	require.NoError(t, err)
	require.Len(t, needs, 1)
	assert.Equal(t, "Low", needs[0].DrugName)
	assert.Equal(t, 3, needs[0].Quantity)
}
