package services

import (
	"context"
	"fmt"
	"strings"

	"meditrack_backend/internal/cache"
	"meditrack_backend/internal/events"
	"meditrack_backend/internal/models"
	"meditrack_backend/internal/repositories"
	"meditrack_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// --- Data Transfer Objects (DTOs) ---

// PlaceOrderRequest is used for placing a customer order for a single drug.
type PlaceOrderRequest struct {
	OrderName     string `json:"order_name" binding:"required"`
	ItemName      string `json:"item_name" binding:"required"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"payment_method"` // method name, COD when empty
}

// PlaceOrderResult is everything a placed order created.
type PlaceOrderResult struct {
	Order          *models.Order   `json:"order"`
	Payment        *models.Payment `json:"payment"`
	RemainingStock int             `json:"remaining_stock"`
}

// --- OrderService Interface ---
type OrderService interface {
	PlaceOrder(ctx context.Context, pharmacyID int64, req PlaceOrderRequest) (*PlaceOrderResult, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo    repositories.OrderRepository
	drugRepo     repositories.DrugRepository
	movementRepo repositories.StockMovementRepository
	paymentRepo  repositories.PaymentRepository
	authRepo     repositories.AuthRepository
	db           *sqlx.DB
	cache        *cache.Cache
	publisher    events.Publisher
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	drugRepo repositories.DrugRepository,
	movementRepo repositories.StockMovementRepository,
	paymentRepo repositories.PaymentRepository,
	authRepo repositories.AuthRepository,
	db *sqlx.DB,
	c *cache.Cache,
	publisher events.Publisher,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		drugRepo:     drugRepo,
		movementRepo: movementRepo,
		paymentRepo:  paymentRepo,
		authRepo:     authRepo,
		db:           db,
		cache:        c,
		publisher:    publisher,
	}
}

// PlaceOrder sells quantity units of the named drug and bills the pharmacy.
// Stock, order and payment are written in one transaction.
func (s *orderService) PlaceOrder(ctx context.Context, pharmacyID int64, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	itemName := strings.TrimSpace(req.ItemName)
	if utils.IsEmpty(req.OrderName) || itemName == "" {
		return nil, fmt.Errorf("%w: order name and item name are required", ErrValidation)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, persistenceError(err, "starting order transaction")
	}
	defer tx.Rollback()

	drug, err := s.drugRepo.GetDrugByName(ctx, tx, itemName)
	if err != nil {
		return nil, lookupError(err, fmt.Errorf("%w: %q", ErrDrugNotFound, itemName), "looking up drug")
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	pharmacy, err := s.authRepo.GetPharmacyByID(ctx, tx, pharmacyID)
	if err != nil {
		return nil, lookupError(err, ErrPharmacyNotFound, "looking up pharmacy")
	}

	ok, err := s.drugRepo.DecrementStock(ctx, tx, drug.ID, req.Quantity)
	if err != nil {
		return nil, persistenceError(err, "updating stock")
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s has %d in stock, %d requested", ErrInsufficientStock, drug.Name, drug.Stock, req.Quantity)
	}
	updated, err := s.drugRepo.GetDrugByID(ctx, tx, drug.ID)
	if err != nil {
		return nil, persistenceError(err, "reading updated stock")
	}

	movement := &models.StockMovement{
		DrugID:          drug.ID,
		MovementType:    models.MovementTypeSale,
		QuantityChanged: -req.Quantity,
		Reason:          utils.NewNullString("Order " + strings.TrimSpace(req.OrderName)),
	}
	if _, err := s.movementRepo.CreateMovement(ctx, tx, movement); err != nil {
		return nil, persistenceError(err, "recording stock movement")
	}

	order := &models.Order{
		PharmacyID: &pharmacyID,
		OrderName:  strings.TrimSpace(req.OrderName),
		ItemName:   drug.Name,
		Quantity:   req.Quantity,
	}
	if _, err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, persistenceError(err, "creating order")
	}

	methodName := strings.TrimSpace(req.PaymentMethod)
	if methodName == "" {
		methodName = models.DefaultPaymentMethodName
	}
	method, err := s.paymentRepo.GetPaymentMethodByName(ctx, tx, methodName)
	if err != nil {
		return nil, lookupError(err, fmt.Errorf("%w: %q", ErrPaymentMethodNotFound, methodName), "resolving payment method")
	}

	payment := &models.Payment{
		PharmacyID:           &pharmacyID,
		SupplierID:           pharmacy.SupplierID,
		Amount:               drug.Price * float64(req.Quantity),
		PaymentMethodID:      &method.ID,
		Status:               models.PaymentStatusPending,
		Notes:                utils.NewNullString(fmt.Sprintf("Order ID: %d", order.ID)),
		TransactionReference: fmt.Sprintf("Order-%d", order.ID),
	}
	if _, err := s.paymentRepo.CreatePayment(ctx, tx, payment); err != nil {
		return nil, persistenceError(err, "creating order payment")
	}

	if err := tx.Commit(); err != nil {
		return nil, persistenceError(err, "committing order")
	}

	s.cache.Invalidate(cache.Orders, cache.Drugs, cache.Payments)
	result := &PlaceOrderResult{Order: order, Payment: payment, RemainingStock: updated.Stock}
	publish(ctx, s.publisher, events.NewEvent(events.OrderPlaced, order.ID, result))
	utils.LogInfo("Order placed", map[string]interface{}{
		"order_id":    order.ID,
		"drug_id":     drug.ID,
		"quantity":    req.Quantity,
		"amount":      utils.FormatAmount(payment.Amount),
		"pharmacy_id": pharmacyID,
	})
	return result, nil
}

func (s *orderService) GetOrders(ctx context.Context) ([]models.Order, error) {
	return cache.Remember(s.cache, cache.Key(cache.Orders), 0, func() ([]models.Order, error) {
		orders, err := s.orderRepo.GetOrders(ctx)
		if err != nil {
			return nil, persistenceError(err, "fetching orders")
		}
		return orders, nil
	})
}
