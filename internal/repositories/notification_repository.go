package repositories

import (
	"context"
	"fmt"
	"time"

	"meditrack_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// NotificationRepository defines the interface for the supplier inbox.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, executor SQLExecutor, n *models.SupplierNotification) (int64, error)
	GetNotifications(ctx context.Context, supplierID int64) ([]models.SupplierNotification, error)
	MarkAllRead(ctx context.Context, supplierID int64) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, executor SQLExecutor, n *models.SupplierNotification) (int64, error) {
	query := `INSERT INTO supplier_notifications
	            (supplier_id, title, message, related_entity_type, related_entity_id, is_read, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)
	          RETURNING id`
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		n.SupplierID, n.Title, n.Message, n.RelatedEntityType, n.RelatedEntityID, n.IsRead, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating supplier notification")
	}
	return n.ID, nil
}

// GetNotifications returns a supplier's notifications, newest first.
func (r *notificationRepository) GetNotifications(ctx context.Context, supplierID int64) ([]models.SupplierNotification, error) {
	notifications := []models.SupplierNotification{}
	query := `SELECT id, supplier_id, title, message, related_entity_type, related_entity_id, is_read, created_at
	          FROM supplier_notifications
	          WHERE supplier_id = ?
	          ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &notifications, r.db.Rebind(query), supplierID); err != nil {
		return nil, fmt.Errorf("%w: querying notifications for supplier ID %d: %v", ErrDatabaseError, supplierID, err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, supplierID int64) (int64, error) {
	query := `UPDATE supplier_notifications SET is_read = ? WHERE supplier_id = ? AND is_read = ?`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), true, supplierID, false)
	if err != nil {
		return 0, fmt.Errorf("%w: marking notifications read for supplier ID %d: %v", ErrDatabaseError, supplierID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for notifications of supplier ID %d: %v", ErrDatabaseError, supplierID, err)
	}
	return n, nil
}
