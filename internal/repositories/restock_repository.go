package repositories

import (
	"context"
	"fmt"
	"time"

	"meditrack_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

const (
	restockColumns = `id, supplier_id, drug_id, pharmacy_id, quantity, status, payment_status, created_at, delivered_at`
	ticketColumns  = `id, restock_id, supplier_id, status, created_at, closed_at`
)

// RestockRepository defines the interface for restock orders and their tickets.
type RestockRepository interface {
	CreateRestockOrder(ctx context.Context, executor SQLExecutor, restock *models.RestockOrder) (int64, error)
	GetRestockOrderByID(ctx context.Context, executor SQLExecutor, id int64) (*models.RestockOrder, error)
	GetRestockOrders(ctx context.Context) ([]models.RestockOrder, error)
	UpdatePaymentStatus(ctx context.Context, executor SQLExecutor, restockID int64, status string) error
	MarkDelivered(ctx context.Context, executor SQLExecutor, restockID int64, deliveredAt time.Time) error
	GetRestockNeeds(ctx context.Context, supplierID int64, threshold int) ([]models.RestockNeed, error)

	CreateTicket(ctx context.Context, executor SQLExecutor, ticket *models.Ticket) (int64, error)
	GetTicketByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Ticket, error)
	// GetTickets lists all tickets, or only one supplier's when supplierID is set.
	GetTickets(ctx context.Context, supplierID *int64) ([]models.Ticket, error)
	CloseTicketsForRestock(ctx context.Context, executor SQLExecutor, restockID int64, closedAt time.Time) (int64, error)
}

type restockRepository struct {
	db *sqlx.DB
}

// NewRestockRepository creates a new instance of RestockRepository.
func NewRestockRepository(db *sqlx.DB) RestockRepository {
	return &restockRepository{db: db}
}

// --- Restock Order Methods ---

func (r *restockRepository) CreateRestockOrder(ctx context.Context, executor SQLExecutor, restock *models.RestockOrder) (int64, error) {
	query := `INSERT INTO restock_orders (supplier_id, drug_id, pharmacy_id, quantity, status, payment_status, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)
	          RETURNING id`
	if restock.Status == "" {
		restock.Status = models.RestockStatusPending
	}
	if restock.PaymentStatus == "" {
		restock.PaymentStatus = models.PaymentStatusPending
	}
	if restock.CreatedAt.IsZero() {
		restock.CreatedAt = time.Now().UTC()
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		restock.SupplierID, restock.DrugID, restock.PharmacyID, restock.Quantity,
		restock.Status, restock.PaymentStatus, restock.CreatedAt,
	).Scan(&restock.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating restock order")
	}
	return restock.ID, nil
}

func (r *restockRepository) GetRestockOrderByID(ctx context.Context, executor SQLExecutor, id int64) (*models.RestockOrder, error) {
	restock := &models.RestockOrder{}
	query := `SELECT ` + restockColumns + ` FROM restock_orders WHERE id = ?`
	if err := sqlx.GetContext(ctx, executor, restock, executor.Rebind(query), id); err != nil {
		return nil, wrapReadError(err, fmt.Sprintf("getting restock order by ID %d", id))
	}
	return restock, nil
}

func (r *restockRepository) GetRestockOrders(ctx context.Context) ([]models.RestockOrder, error) {
	restocks := []models.RestockOrder{}
	query := `SELECT ` + restockColumns + ` FROM restock_orders ORDER BY id DESC`
	if err := r.db.SelectContext(ctx, &restocks, query); err != nil {
		return nil, fmt.Errorf("%w: querying restock orders: %v", ErrDatabaseError, err)
	}
	return restocks, nil
}

func (r *restockRepository) UpdatePaymentStatus(ctx context.Context, executor SQLExecutor, restockID int64, status string) error {
	query := `UPDATE restock_orders SET payment_status = ? WHERE id = ?`
	result, err := executor.ExecContext(ctx, executor.Rebind(query), status, restockID)
	if err != nil {
		return fmt.Errorf("%w: updating payment status for restock ID %d: %v", ErrDatabaseError, restockID, err)
	}
	return expectAffected(result, fmt.Sprintf("restock %d payment status", restockID))
}

// MarkDelivered flips a restock order to Delivered with a Completed payment.
func (r *restockRepository) MarkDelivered(ctx context.Context, executor SQLExecutor, restockID int64, deliveredAt time.Time) error {
	query := `UPDATE restock_orders SET status = ?, payment_status = ?, delivered_at = ? WHERE id = ?`
	result, err := executor.ExecContext(ctx, executor.Rebind(query),
		models.RestockStatusDelivered, models.PaymentStatusCompleted, deliveredAt, restockID)
	if err != nil {
		return fmt.Errorf("%w: marking restock ID %d delivered: %v", ErrDatabaseError, restockID, err)
	}
	return expectAffected(result, fmt.Sprintf("restock %d delivery", restockID))
}

func (r *restockRepository) GetRestockNeeds(ctx context.Context, supplierID int64, threshold int) ([]models.RestockNeed, error) {
	needs := []models.RestockNeed{}
	query := `SELECT d.name AS drug_name, d.stock AS stock, ro.id AS restock_id, ro.quantity AS quantity, ro.status AS status
	          FROM drugs d
	          JOIN restock_orders ro ON d.id = ro.drug_id
	          WHERE ro.supplier_id = ? AND d.stock <= ?
	          ORDER BY ro.id DESC`
	if err := r.db.SelectContext(ctx, &needs, r.db.Rebind(query), supplierID, threshold); err != nil {
		return nil, fmt.Errorf("%w: querying restock needs for supplier ID %d: %v", ErrDatabaseError, supplierID, err)
	}
	return needs, nil
}

// --- Ticket Methods ---

func (r *restockRepository) CreateTicket(ctx context.Context, executor SQLExecutor, ticket *models.Ticket) (int64, error) {
	query := `INSERT INTO tickets (restock_id, supplier_id, status, created_at)
	          VALUES (?, ?, ?, ?)
	          RETURNING id`
	if ticket.Status == "" {
		ticket.Status = models.TicketStatusOpen
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		ticket.RestockID, ticket.SupplierID, ticket.Status, ticket.CreatedAt,
	).Scan(&ticket.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating ticket")
	}
	return ticket.ID, nil
}

func (r *restockRepository) GetTicketByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	if err := sqlx.GetContext(ctx, executor, ticket, executor.Rebind(query), id); err != nil {
		return nil, wrapReadError(err, fmt.Sprintf("getting ticket by ID %d", id))
	}
	return ticket, nil
}

func (r *restockRepository) GetTickets(ctx context.Context, supplierID *int64) ([]models.Ticket, error) {
	tickets := []models.Ticket{}
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	var args []interface{}
	if supplierID != nil {
		query += ` WHERE supplier_id = ?`
		args = append(args, *supplierID)
	}
	query += ` ORDER BY id DESC`

	if err := r.db.SelectContext(ctx, &tickets, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%w: querying tickets: %v", ErrDatabaseError, err)
	}
	return tickets, nil
}

// CloseTicketsForRestock closes every open ticket of a restock order and returns how many changed.
func (r *restockRepository) CloseTicketsForRestock(ctx context.Context, executor SQLExecutor, restockID int64, closedAt time.Time) (int64, error) {
	query := `UPDATE tickets SET status = ?, closed_at = ? WHERE restock_id = ? AND status <> ?`
	result, err := executor.ExecContext(ctx, executor.Rebind(query),
		models.TicketStatusClosed, closedAt, restockID, models.TicketStatusClosed)
	if err != nil {
		return 0, fmt.Errorf("%w: closing tickets for restock ID %d: %v", ErrDatabaseError, restockID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for closing tickets of restock ID %d: %v", ErrDatabaseError, restockID, err)
	}
	return n, nil
}
