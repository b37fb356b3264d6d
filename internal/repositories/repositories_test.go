package repositories

import (
	"context"
	"testing"
	"time"

	"meditrack_backend/internal/models"
	"meditrack_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDrug(t *testing.T, repo DrugRepository, ex SQLExecutor, name string, price float64, stock int) *models.Drug {
	t.Helper()
	drug := &models.Drug{Name: name, Price: price, Stock: stock}
	_, err := repo.CreateDrug(context.Background(), ex, drug)
	require.NoError(t, err)
	return drug
}

func TestDrugRepository_DecrementStockGuard(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDrugRepository(db)
	ctx := context.Background()

	drug := createDrug(t, repo, db, "Paracetamol", 10, 5)

	ok, err := repo.DecrementStock(ctx, db, drug.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok, "decrement above available stock must be rejected")

	ok, err = repo.DecrementStock(ctx, db, drug.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetDrugByID(ctx, db, drug.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestDrugRepository_GetDrugByNameNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDrugRepository(db)

	_, err := repo.GetDrugByName(context.Background(), db, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDrugRepository_Filters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDrugRepository(db)
	ctx := context.Background()

	createDrug(t, repo, db, "Amoxicillin", 25, 300)
	createDrug(t, repo, db, "Aspirin", 5, 80)
	createDrug(t, repo, db, "Ibuprofen", 1500, 101)

	name := "asp"
	drugs, err := repo.GetDrugs(ctx, models.DrugFilters{Name: &name})
	require.NoError(t, err)
	require.Len(t, drugs, 1)
	assert.Equal(t, "Aspirin", drugs[0].Name)

	minPrice := 1.0
	drugs, err = repo.GetDrugs(ctx, models.DrugFilters{MinPrice: &minPrice})
	require.NoError(t, err)
	assert.Len(t, drugs, 2, "max price defaults to 1000")

	low, err := repo.GetLowStockDrugs(ctx, models.LowStockThreshold)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Aspirin", low[0].Name)
}

func TestAuthRepository_DuplicateEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAuthRepository(db)
	ctx := context.Background()

	_, err := repo.CreateSupplier(ctx, db, &models.Supplier{Name: "Acme", Email: "sales@acme.test", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = repo.CreateSupplier(ctx, db, &models.Supplier{Name: "Acme 2", Email: "sales@acme.test", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	suppliers, err := repo.GetSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, suppliers, 1)
}

func TestCustomerRepository_DuplicateEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	_, err := repo.CreateCustomer(ctx, db, &models.Customer{Name: "Ann", Email: "ann@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	_, err = repo.CreateCustomer(ctx, db, &models.Customer{Name: "Ann B", Email: "ann@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestAuthRepository_SuppliersByNameDescending(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAuthRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Beta", "Alpha", "Gamma"} {
		_, err := repo.CreateSupplier(ctx, db, &models.Supplier{Name: name, Email: name + "@s.test", PasswordHash: "x"})
		require.NoError(t, err)
	}

	suppliers, err := repo.GetSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 3)
	assert.Equal(t, "Gamma", suppliers[0].Name)
	assert.Equal(t, "Alpha", suppliers[2].Name)
}

func TestRestockRepository_DeliveryClosesTickets(t *testing.T) {
	db := testutil.NewDB(t)
	drugs := NewDrugRepository(db)
	repo := NewRestockRepository(db)
	ctx := context.Background()

	drug := createDrug(t, drugs, db, "Cetirizine", 3, 40)

	restock := &models.RestockOrder{SupplierID: 7, DrugID: drug.ID, Quantity: 50}
	_, err := repo.CreateRestockOrder(ctx, db, restock)
	require.NoError(t, err)
	assert.Equal(t, models.RestockStatusPending, restock.Status)

	for i := 0; i < 2; i++ {
		_, err = repo.CreateTicket(ctx, db, &models.Ticket{RestockID: restock.ID, SupplierID: 7})
		require.NoError(t, err)
	}

	needs, err := repo.GetRestockNeeds(ctx, 7, models.LowStockThreshold)
	require.NoError(t, err)
	require.Len(t, needs, 1)
	assert.Equal(t, "Cetirizine", needs[0].DrugName)

	require.NoError(t, repo.MarkDelivered(ctx, db, restock.ID, time.Now().UTC()))
	closed, err := repo.CloseTicketsForRestock(ctx, db, restock.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), closed)

	got, err := repo.GetRestockOrderByID(ctx, db, restock.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RestockStatusDelivered, got.Status)
	assert.Equal(t, models.PaymentStatusCompleted, got.PaymentStatus)
	assert.NotNil(t, got.DeliveredAt)

	supplierID := int64(7)
	tickets, err := repo.GetTickets(ctx, &supplierID)
	require.NoError(t, err)
	for _, ticket := range tickets {
		assert.Equal(t, models.TicketStatusClosed, ticket.Status)
	}

	other := int64(8)
	tickets, err = repo.GetTickets(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, tickets)

	assert.ErrorIs(t, repo.MarkDelivered(ctx, db, 999, time.Now()), ErrNotFound)
}

func TestPaymentRepository_StatusByReference(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	cod, err := repo.GetPaymentMethodByName(ctx, db, models.DefaultPaymentMethodName)
	require.NoError(t, err)

	payment := &models.Payment{Amount: 42.5, PaymentMethodID: &cod.ID, TransactionReference: "Restock-3"}
	_, err = repo.CreatePayment(ctx, db, payment)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)

	n, err := repo.UpdateStatusByReference(ctx, db, "Restock-3", models.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	payments, err := repo.GetPaymentsByReference(ctx, db, "Restock-3")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusCompleted, payments[0].Status)

	_, err = repo.GetPaymentMethodByName(ctx, db, "Barter")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentRepository_PharmacyPaymentsJoinMethodName(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	upi, err := repo.GetPaymentMethodByName(ctx, db, "UPI")
	require.NoError(t, err)

	_, err = repo.CreatePharmacyPayment(ctx, db, &models.PharmacyPayment{PharmacyID: 1, PaymentMethodID: upi.ID, AccountDetails: "shop@upi"})
	require.NoError(t, err)

	list, err := repo.GetPharmacyPayments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "UPI", list[0].MethodName)
}

func TestNotificationRepository_NewestFirstAndMarkRead(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second"} {
		_, err := repo.CreateNotification(ctx, db, &models.SupplierNotification{
			SupplierID: 2, Title: title, Message: "m", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	list, err := repo.GetNotifications(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)

	n, err := repo.MarkAllRead(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.MarkAllRead(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReportRepository_RunReportAndCount(t *testing.T) {
	db := testutil.NewDB(t)
	drugs := NewDrugRepository(db)
	repo := NewReportRepository(db)
	ctx := context.Background()

	createDrug(t, drugs, db, "Zinc", 2, 100)
	createDrug(t, drugs, db, "Iron", 4, 101)

	columns, rows, err := repo.RunReport(ctx, `SELECT id, name, stock FROM drugs WHERE stock <= ?`, models.LowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "stock"}, columns)
	require.Len(t, rows, 1)
	assert.Equal(t, "Zinc", rows[0][1])

	count, err := repo.CountRows(ctx, "drugs", "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountRows(ctx, "drugs", "stock <= ?", models.LowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
