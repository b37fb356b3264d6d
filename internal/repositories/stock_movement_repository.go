package repositories

import (
	"context"
	"fmt"
	"time"

	"meditrack_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// StockMovementRepository defines the interface for the drug stock audit trail.
type StockMovementRepository interface {
	CreateMovement(ctx context.Context, executor SQLExecutor, movement *models.StockMovement) (int64, error)
	GetMovementsByDrugID(ctx context.Context, drugID int64) ([]models.StockMovement, error)
}

type stockMovementRepository struct {
	db *sqlx.DB
}

// NewStockMovementRepository creates a new instance of StockMovementRepository.
func NewStockMovementRepository(db *sqlx.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) CreateMovement(ctx context.Context, executor SQLExecutor, movement *models.StockMovement) (int64, error) {
	query := `INSERT INTO stock_movements (drug_id, movement_type, quantity_changed, reason, created_at)
	          VALUES (?, ?, ?, ?, ?)
	          RETURNING id`
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		movement.DrugID, movement.MovementType, movement.QuantityChanged, movement.Reason, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating stock movement")
	}
	return movement.ID, nil
}

func (r *stockMovementRepository) GetMovementsByDrugID(ctx context.Context, drugID int64) ([]models.StockMovement, error) {
	movements := []models.StockMovement{}
	query := `SELECT id, drug_id, movement_type, quantity_changed, reason, created_at
	          FROM stock_movements
	          WHERE drug_id = ?
	          ORDER BY created_at DESC, id DESC`
	if err := sqlx.SelectContext(ctx, r.db, &movements, r.db.Rebind(query), drugID); err != nil {
		return nil, fmt.Errorf("%w: getting stock movements for drug ID %d: %v", ErrDatabaseError, drugID, err)
	}
	return movements, nil
}
