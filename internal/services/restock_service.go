package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meditrack_backend/internal/cache"
	"meditrack_backend/internal/events"
	"meditrack_backend/internal/models"
	"meditrack_backend/internal/repositories"
	"meditrack_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// DefaultReplenishLevel is the stock a delivered restock brings a drug back to.
const DefaultReplenishLevel = 200

// CreateRestockRequest DTO
type CreateRestockRequest struct {
	SupplierID      int64  `json:"supplier_id" binding:"required"`
	DrugID          int64  `json:"drug_id" binding:"required"`
	Quantity        int    `json:"quantity"`
	PaymentMethodID *int64 `json:"payment_method_id"` // COD when omitted
	Notes           string `json:"notes"`
}

// RestockResult is everything a restock request created.
type RestockResult struct {
	Restock      *models.RestockOrder         `json:"restock_order"`
	Ticket       *models.Ticket               `json:"ticket"`
	Payment      *models.Payment              `json:"payment"`
	Notification *models.SupplierNotification `json:"notification"`
}

// DeliveryResult describes a confirmed restock delivery.
type DeliveryResult struct {
	RestockID     int64  `json:"restock_id"`
	DrugID        int64  `json:"drug_id"`
	DrugName      string `json:"drug_name"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	TicketsClosed int64  `json:"tickets_closed"`
}

// RestockService runs the restock and ticket workflow between pharmacies and suppliers.
type RestockService interface {
	CreateRestock(ctx context.Context, pharmacyID int64, req CreateRestockRequest) (*RestockResult, error)
	// ConfirmDelivery replenishes the drug of a restock order and closes its tickets.
	ConfirmDelivery(ctx context.Context, supplierID, restockID int64) (*DeliveryResult, error)
	ConfirmTicketDelivery(ctx context.Context, supplierID, ticketID int64) (*DeliveryResult, error)
	GetRestockOrders(ctx context.Context) ([]models.RestockOrder, error)
	GetTickets(ctx context.Context, session models.Session) ([]models.Ticket, error)
	GetRestockNeeds(ctx context.Context, supplierID int64) ([]models.RestockNeed, error)
}

type restockService struct {
	restockRepo      repositories.RestockRepository
	drugRepo         repositories.DrugRepository
	movementRepo     repositories.StockMovementRepository
	paymentRepo      repositories.PaymentRepository
	notificationRepo repositories.NotificationRepository
	authRepo         repositories.AuthRepository
	db               *sqlx.DB
	cache            *cache.Cache
	publisher        events.Publisher
	replenishLevel   int
}

// RestockDeps groups the collaborators of the restock service.
type RestockDeps struct {
	RestockRepo      repositories.RestockRepository
	DrugRepo         repositories.DrugRepository
	MovementRepo     repositories.StockMovementRepository
	PaymentRepo      repositories.PaymentRepository
	NotificationRepo repositories.NotificationRepository
	AuthRepo         repositories.AuthRepository
	DB               *sqlx.DB
	Cache            *cache.Cache
	Publisher        events.Publisher
	ReplenishLevel   int
}

// NewRestockService creates a new instance of RestockService.
func NewRestockService(deps RestockDeps) RestockService {
	level := deps.ReplenishLevel
	if level <= 0 {
		level = DefaultReplenishLevel
	}
	return &restockService{
		restockRepo:      deps.RestockRepo,
		drugRepo:         deps.DrugRepo,
		movementRepo:     deps.MovementRepo,
		paymentRepo:      deps.PaymentRepo,
		notificationRepo: deps.NotificationRepo,
		authRepo:         deps.AuthRepo,
		db:               deps.DB,
		cache:            deps.Cache,
		publisher:        deps.Publisher,
		replenishLevel:   level,
	}
}

// CreateRestock asks a supplier to replenish a low stock drug and opens the payment for it.
func (s *restockService) CreateRestock(ctx context.Context, pharmacyID int64, req CreateRestockRequest) (*RestockResult, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, persistenceError(err, "starting restock transaction")
	}
	defer tx.Rollback()

	drug, err := s.drugRepo.GetDrugByID(ctx, tx, req.DrugID)
	if err != nil {
		return nil, lookupError(err, ErrDrugNotFound, "looking up drug")
	}
	if _, err := s.authRepo.GetSupplierByID(ctx, tx, req.SupplierID); err != nil {
		return nil, lookupError(err, ErrSupplierNotFound, "looking up supplier")
	}
	if !drug.IsLowStock() {
		return nil, fmt.Errorf("%w: %s has %d in stock (threshold %d)", ErrDrugNotLowStock, drug.Name, drug.Stock, models.LowStockThreshold)
	}

	var methodID int64
	if req.PaymentMethodID != nil {
		method, err := s.paymentRepo.GetPaymentMethodByID(ctx, tx, *req.PaymentMethodID)
		if err != nil {
			return nil, lookupError(err, ErrPaymentMethodNotFound, "resolving payment method")
		}
		methodID = method.ID
	} else {
		method, err := s.paymentRepo.GetPaymentMethodByName(ctx, tx, models.DefaultPaymentMethodName)
		if err != nil {
			return nil, lookupError(err, ErrPaymentMethodNotFound, "resolving default payment method")
		}
		methodID = method.ID
	}

	restock := &models.RestockOrder{
		SupplierID: req.SupplierID,
		DrugID:     drug.ID,
		PharmacyID: &pharmacyID,
		Quantity:   req.Quantity,
	}
	if _, err := s.restockRepo.CreateRestockOrder(ctx, tx, restock); err != nil {
		return nil, persistenceError(err, "creating restock order")
	}

	ticket := &models.Ticket{RestockID: restock.ID, SupplierID: req.SupplierID}
	if _, err := s.restockRepo.CreateTicket(ctx, tx, ticket); err != nil {
		return nil, persistenceError(err, "creating ticket")
	}

	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		notes = "Restock for " + drug.Name
	}
	supplierID := req.SupplierID
	payment := &models.Payment{
		PharmacyID:           &pharmacyID,
		SupplierID:           &supplierID,
		Amount:               drug.Price * float64(req.Quantity),
		PaymentMethodID:      &methodID,
		Status:               models.PaymentStatusPending,
		Notes:                &notes,
		TransactionReference: restockReference(restock.ID),
	}
	if _, err := s.paymentRepo.CreatePayment(ctx, tx, payment); err != nil {
		return nil, persistenceError(err, "creating restock payment")
	}
	if err := s.restockRepo.UpdatePaymentStatus(ctx, tx, restock.ID, payment.Status); err != nil {
		return nil, persistenceError(err, "updating restock payment status")
	}
	restock.PaymentStatus = payment.Status

	entityType := models.EntityTypePayment
	notification := &models.SupplierNotification{
		SupplierID:        req.SupplierID,
		Title:             "New Restock Payment",
		Message:           fmt.Sprintf("Payment of $%s initiated for Restock ID %d", utils.FormatAmount(payment.Amount), restock.ID),
		RelatedEntityType: &entityType,
		RelatedEntityID:   &payment.ID,
	}
	if _, err := s.notificationRepo.CreateNotification(ctx, tx, notification); err != nil {
		return nil, persistenceError(err, "notifying supplier")
	}

	if err := tx.Commit(); err != nil {
		return nil, persistenceError(err, "committing restock")
	}

	s.cache.Invalidate(cache.Tickets, cache.RestockOrders, cache.LowStock, cache.Payments, cache.Notifications)
	result := &RestockResult{Restock: restock, Ticket: ticket, Payment: payment, Notification: notification}
	publish(ctx, s.publisher, events.NewEvent(events.RestockCreated, restock.ID, result))
	utils.LogInfo("Restock order created", map[string]interface{}{
		"restock_id":  restock.ID,
		"drug_id":     drug.ID,
		"supplier_id": req.SupplierID,
		"quantity":    req.Quantity,
	})
	return result, nil
}

func (s *restockService) ConfirmDelivery(ctx context.Context, supplierID, restockID int64) (*DeliveryResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, persistenceError(err, "starting delivery transaction")
	}
	defer tx.Rollback()

	result, err := s.confirmDelivery(ctx, tx, supplierID, restockID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, persistenceError(err, "committing delivery")
	}

	s.afterDelivery(ctx, result)
	return result, nil
}

// ConfirmTicketDelivery confirms the delivery of the restock order a ticket belongs to.
func (s *restockService) ConfirmTicketDelivery(ctx context.Context, supplierID, ticketID int64) (*DeliveryResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, persistenceError(err, "starting delivery transaction")
	}
	defer tx.Rollback()

	ticket, err := s.restockRepo.GetTicketByID(ctx, tx, ticketID)
	if err != nil {
		return nil, lookupError(err, ErrTicketNotFound, "looking up ticket")
	}
	if ticket.SupplierID != supplierID {
		return nil, fmt.Errorf("%w: ticket %d belongs to another supplier", ErrForbidden, ticketID)
	}

	result, err := s.confirmDelivery(ctx, tx, supplierID, ticket.RestockID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, persistenceError(err, "committing delivery")
	}

	s.afterDelivery(ctx, result)
	return result, nil
}

func (s *restockService) confirmDelivery(ctx context.Context, tx *sqlx.Tx, supplierID, restockID int64) (*DeliveryResult, error) {
	restock, err := s.restockRepo.GetRestockOrderByID(ctx, tx, restockID)
	if err != nil {
		return nil, lookupError(err, ErrRestockNotFound, "looking up restock order")
	}
	if restock.SupplierID != supplierID {
		return nil, fmt.Errorf("%w: restock order %d belongs to another supplier", ErrForbidden, restockID)
	}
	if restock.Status == models.RestockStatusDelivered {
		return nil, ErrAlreadyDelivered
	}

	drug, err := s.drugRepo.GetDrugByID(ctx, tx, restock.DrugID)
	if err != nil {
		return nil, lookupError(err, ErrDrugNotFound, "looking up restocked drug")
	}

	if err := s.drugRepo.SetStock(ctx, tx, drug.ID, s.replenishLevel); err != nil {
		return nil, persistenceError(err, "replenishing stock")
	}
	if delta := s.replenishLevel - drug.Stock; delta != 0 {
		movement := &models.StockMovement{
			DrugID:          drug.ID,
			MovementType:    models.MovementTypeRestockDelivery,
			QuantityChanged: delta,
			Reason:          utils.NewNullString(fmt.Sprintf("Restock ID %d delivered", restock.ID)),
		}
		if _, err := s.movementRepo.CreateMovement(ctx, tx, movement); err != nil {
			return nil, persistenceError(err, "recording stock movement")
		}
	}

	now := time.Now().UTC()
	if err := s.restockRepo.MarkDelivered(ctx, tx, restock.ID, now); err != nil {
		return nil, persistenceError(err, "marking restock delivered")
	}
	closed, err := s.restockRepo.CloseTicketsForRestock(ctx, tx, restock.ID, now)
	if err != nil {
		return nil, persistenceError(err, "closing tickets")
	}
	if _, err := s.paymentRepo.UpdateStatusByReference(ctx, tx, restockReference(restock.ID), models.PaymentStatusCompleted); err != nil {
		return nil, persistenceError(err, "completing restock payment")
	}

	return &DeliveryResult{
		RestockID:     restock.ID,
		DrugID:        drug.ID,
		DrugName:      drug.Name,
		PreviousStock: drug.Stock,
		NewStock:      s.replenishLevel,
		TicketsClosed: closed,
	}, nil
}

func (s *restockService) afterDelivery(ctx context.Context, result *DeliveryResult) {
	s.cache.Invalidate(cache.Drugs, cache.Tickets, cache.RestockOrders, cache.Payments)
	publish(ctx, s.publisher, events.NewEvent(events.RestockDelivered, result.RestockID, result))
	utils.LogInfo("Restock delivered", map[string]interface{}{
		"restock_id":     result.RestockID,
		"drug_id":        result.DrugID,
		"new_stock":      result.NewStock,
		"tickets_closed": result.TicketsClosed,
	})
}

func (s *restockService) GetRestockOrders(ctx context.Context) ([]models.RestockOrder, error) {
	return cache.Remember(s.cache, cache.Key(cache.RestockOrders), 0, func() ([]models.RestockOrder, error) {
		restocks, err := s.restockRepo.GetRestockOrders(ctx)
		if err != nil {
			return nil, persistenceError(err, "fetching restock orders")
		}
		return restocks, nil
	})
}

// GetTickets returns all tickets to pharmacists and only their own to suppliers.
func (s *restockService) GetTickets(ctx context.Context, session models.Session) ([]models.Ticket, error) {
	var supplierID *int64
	key := cache.Key(cache.Tickets)
	if id, ok := session.SupplierID(); ok {
		supplierID = &id
		key = cache.Key(cache.Tickets, "supplier", utils.Int64ToStr(id))
	}
	return cache.Remember(s.cache, key, 0, func() ([]models.Ticket, error) {
		tickets, err := s.restockRepo.GetTickets(ctx, supplierID)
		if err != nil {
			return nil, persistenceError(err, "fetching tickets")
		}
		return tickets, nil
	})
}

// GetRestockNeeds lists low stock drugs the supplier has restock orders for.
func (s *restockService) GetRestockNeeds(ctx context.Context, supplierID int64) ([]models.RestockNeed, error) {
	key := cache.Key(cache.RestockNeeds, utils.Int64ToStr(supplierID))
	return cache.Remember(s.cache, key, 0, func() ([]models.RestockNeed, error) {
		needs, err := s.restockRepo.GetRestockNeeds(ctx, supplierID, models.LowStockThreshold)
		if err != nil {
			return nil, persistenceError(err, "fetching restock needs")
		}
		return needs, nil
	})
}

func restockReference(restockID int64) string {
	return fmt.Sprintf("Restock-%d", restockID)
}
