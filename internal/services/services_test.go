package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"meditrack_backend/internal/cache"
	"meditrack_backend/internal/events"
	"meditrack_backend/internal/models"
	"meditrack_backend/internal/repositories"
	"meditrack_backend/internal/testutil"
	"meditrack_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type harness struct {
	t         *testing.T
	ctx       context.Context
	db        *sqlx.DB
	cache     *cache.Cache
	publisher *recordingPublisher

	drugRepo    repositories.DrugRepository
	authRepo    repositories.AuthRepository
	paymentRepo repositories.PaymentRepository
	restockRepo repositories.RestockRepository

	auth      AuthService
	customers CustomerService
	catalog   CatalogService
	orders    OrderService
	restocks  RestockService
	payments  PaymentService
	reports   ReportService

	supplier *models.Supplier
	pharmacy *models.RetailPharmacy
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewSeededDB(t)
	h := &harness{
		t:           t,
		ctx:         context.Background(),
		db:          db,
		cache:       cache.New(time.Minute),
		publisher:   &recordingPublisher{},
		drugRepo:    repositories.NewDrugRepository(db),
		authRepo:    repositories.NewAuthRepository(db),
		paymentRepo: repositories.NewPaymentRepository(db),
		restockRepo: repositories.NewRestockRepository(db),
	}
	movementRepo := repositories.NewStockMovementRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	h.supplier = &models.Supplier{Name: "Acme Pharma", Email: "orders@acme.test", PasswordHash: "x"}
	_, err := h.authRepo.CreateSupplier(h.ctx, db, h.supplier)
	require.NoError(t, err)

	tokens := utils.NewTokenManager("test-secret", time.Hour)
	h.auth = NewAuthService(h.authRepo, h.paymentRepo, db, tokens, h.supplier.ID, h.cache)
	h.customers = NewCustomerService(repositories.NewCustomerRepository(db), db, h.cache)
	h.catalog = NewCatalogService(h.drugRepo, movementRepo, h.authRepo, db, h.cache)
	h.orders = NewOrderService(repositories.NewOrderRepository(db), h.drugRepo, movementRepo, h.paymentRepo, h.authRepo, db, h.cache, h.publisher)
	h.restocks = NewRestockService(RestockDeps{
		RestockRepo:      h.restockRepo,
		DrugRepo:         h.drugRepo,
		MovementRepo:     movementRepo,
		PaymentRepo:      h.paymentRepo,
		NotificationRepo: notificationRepo,
		AuthRepo:         h.authRepo,
		DB:               db,
		Cache:            h.cache,
		Publisher:        h.publisher,
	})
	h.payments = NewPaymentService(h.paymentRepo, notificationRepo, db, h.cache)
	h.reports = NewReportService(repositories.NewReportRepository(db), h.drugRepo, h.restockRepo, h.cache)

	resp, err := h.auth.SignupPharmacist(h.ctx, PharmacistSignupRequest{
		Name: "Corner Pharmacy", Email: "owner@corner.test", Password: "supersecret", Address: "1 Main St",
	})
	require.NoError(t, err)
	h.pharmacy = resp.Account.(*models.RetailPharmacy)
	return h
}

func (h *harness) addDrug(name string, price float64, stock int) *models.Drug {
	h.t.Helper()
	drug, err := h.catalog.AddDrug(h.ctx, CreateDrugRequest{Name: name, Price: price, Stock: stock})
	require.NoError(h.t, err)
	return drug
}

func (h *harness) stockOf(drugID int64) int {
	h.t.Helper()
	drug, err := h.drugRepo.GetDrugByID(h.ctx, h.db, drugID)
	require.NoError(h.t, err)
	return drug.Stock
}

func (h *harness) count(table string) int {
	h.t.Helper()
	var n int
	require.NoError(h.t, h.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}
