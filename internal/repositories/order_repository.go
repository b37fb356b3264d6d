package repositories

import (
	"context"
	"fmt"
	"time"

	"meditrack_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

const orderColumns = `id, pharmacy_id, order_name, item_name, quantity, ordered_at`

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
}

type orderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders (pharmacy_id, order_name, item_name, quantity, ordered_at)
	          VALUES (?, ?, ?, ?, ?)
	          RETURNING id`

	if order.OrderedAt.IsZero() {
		order.OrderedAt = time.Now().UTC()
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		order.PharmacyID, order.OrderName, order.ItemName, order.Quantity, order.OrderedAt,
	).Scan(&order.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating order")
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, orderID int64) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	if err := r.db.GetContext(ctx, order, r.db.Rebind(query), orderID); err != nil {
		return nil, wrapReadError(err, fmt.Sprintf("getting order by ID %d", orderID))
	}
	return order, nil
}

func (r *orderRepository) GetOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY ordered_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	return orders, nil
}
