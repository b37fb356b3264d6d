package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meditrack_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

const drugColumns = `id, name, price, is_discontinued, manufacturer, drug_type, pack_size,
	short_composition1, short_composition2, salt_composition, description,
	side_effects, drug_interactions, stock, created_at`

// DrugRepository defines the interface for drug catalog and stock operations.
type DrugRepository interface {
	CreateDrug(ctx context.Context, executor SQLExecutor, drug *models.Drug) (int64, error)
	GetDrugByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Drug, error)
	GetDrugByName(ctx context.Context, executor SQLExecutor, name string) (*models.Drug, error)
	GetDrugs(ctx context.Context, filters models.DrugFilters) ([]models.Drug, error)
	GetLowStockDrugs(ctx context.Context, threshold int) ([]models.Drug, error)
	// DecrementStock removes quantity only if that much stock is available.
	// It returns false when the guard rejected the update.
	DecrementStock(ctx context.Context, executor SQLExecutor, drugID int64, quantity int) (bool, error)
	SetStock(ctx context.Context, executor SQLExecutor, drugID int64, stock int) error
}

type drugRepository struct {
	db *sqlx.DB
}

// NewDrugRepository creates a new instance of DrugRepository.
func NewDrugRepository(db *sqlx.DB) DrugRepository {
	return &drugRepository{db: db}
}

func (r *drugRepository) CreateDrug(ctx context.Context, executor SQLExecutor, drug *models.Drug) (int64, error) {
	query := `INSERT INTO drugs
	            (name, price, is_discontinued, manufacturer, drug_type, pack_size,
	             short_composition1, short_composition2, salt_composition, description,
	             side_effects, drug_interactions, stock, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	          RETURNING id`

	if drug.CreatedAt.IsZero() {
		drug.CreatedAt = time.Now().UTC()
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		drug.Name, drug.Price, drug.IsDiscontinued, drug.Manufacturer, drug.DrugType, drug.PackSize,
		drug.ShortComposition1, drug.ShortComposition2, drug.SaltComposition, drug.Description,
		drug.SideEffects, drug.DrugInteractions, drug.Stock, drug.CreatedAt,
	).Scan(&drug.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating drug")
	}
	return drug.ID, nil
}

func (r *drugRepository) GetDrugByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Drug, error) {
	drug := &models.Drug{}
	query := `SELECT ` + drugColumns + ` FROM drugs WHERE id = ?`
	if err := sqlx.GetContext(ctx, executor, drug, executor.Rebind(query), id); err != nil {
		return nil, wrapReadError(err, fmt.Sprintf("getting drug by ID %d", id))
	}
	return drug, nil
}

// GetDrugByName matches the exact name. Names are not unique; the oldest entry wins.
func (r *drugRepository) GetDrugByName(ctx context.Context, executor SQLExecutor, name string) (*models.Drug, error) {
	drug := &models.Drug{}
	query := `SELECT ` + drugColumns + ` FROM drugs WHERE name = ? ORDER BY id LIMIT 1`
	if err := sqlx.GetContext(ctx, executor, drug, executor.Rebind(query), name); err != nil {
		return nil, wrapReadError(err, fmt.Sprintf("getting drug by name %q", name))
	}
	return drug, nil
}

func (r *drugRepository) GetDrugs(ctx context.Context, filters models.DrugFilters) ([]models.Drug, error) {
	drugs := []models.Drug{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + drugColumns + ` FROM drugs`)

	var conditions []string
	var args []interface{}

	if filters.ID != nil {
		conditions = append(conditions, "id = ?")
		args = append(args, *filters.ID)
	}
	if filters.Name != nil && *filters.Name != "" {
		conditions = append(conditions, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(*filters.Name)+"%")
	}
	if filters.MinPrice != nil || filters.MaxPrice != nil {
		minPrice, maxPrice := 0.0, 1000.0
		if filters.MinPrice != nil {
			minPrice = *filters.MinPrice
		}
		if filters.MaxPrice != nil {
			maxPrice = *filters.MaxPrice
		}
		conditions = append(conditions, "price BETWEEN ? AND ?")
		args = append(args, minPrice, maxPrice)
	}
	if filters.Discontinued != nil {
		conditions = append(conditions, "is_discontinued = ?")
		args = append(args, *filters.Discontinued)
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY id")

	if err := sqlx.SelectContext(ctx, r.db, &drugs, r.db.Rebind(queryBuilder.String()), args...); err != nil {
		return nil, fmt.Errorf("%w: querying drugs: %v", ErrDatabaseError, err)
	}
	return drugs, nil
}

func (r *drugRepository) GetLowStockDrugs(ctx context.Context, threshold int) ([]models.Drug, error) {
	drugs := []models.Drug{}
	query := `SELECT ` + drugColumns + ` FROM drugs WHERE stock <= ? ORDER BY stock, id`
	if err := sqlx.SelectContext(ctx, r.db, &drugs, r.db.Rebind(query), threshold); err != nil {
		return nil, fmt.Errorf("%w: querying low stock drugs: %v", ErrDatabaseError, err)
	}
	return drugs, nil
}

func (r *drugRepository) DecrementStock(ctx context.Context, executor SQLExecutor, drugID int64, quantity int) (bool, error) {
	query := `UPDATE drugs SET stock = stock - ? WHERE id = ? AND stock >= ?`
	result, err := executor.ExecContext(ctx, executor.Rebind(query), quantity, drugID, quantity)
	if err != nil {
		return false, fmt.Errorf("%w: decrementing stock for drug ID %d: %v", ErrDatabaseError, drugID, err)
	}
	if err := expectAffected(result, "stock decrement"); err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *drugRepository) SetStock(ctx context.Context, executor SQLExecutor, drugID int64, stock int) error {
	query := `UPDATE drugs SET stock = ? WHERE id = ?`
	result, err := executor.ExecContext(ctx, executor.Rebind(query), stock, drugID)
	if err != nil {
		return fmt.Errorf("%w: setting stock for drug ID %d: %v", ErrDatabaseError, drugID, err)
	}
	return expectAffected(result, fmt.Sprintf("setting stock for drug ID %d", drugID))
}
