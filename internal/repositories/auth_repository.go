package repositories

import (
	"context"
	"fmt"
	"time"

	"meditrack_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

const (
	pharmacyColumns = `id, name, email, password_hash, address, phone, billing_address, tax_id, supplier_id, created_at`
	supplierColumns = `id, name, email, contact_number, address, password_hash, created_at`
)

// AuthRepository defines the interface for pharmacy and supplier account storage.
type AuthRepository interface {
	CreatePharmacy(ctx context.Context, executor SQLExecutor, pharmacy *models.RetailPharmacy) (int64, error)
	FindPharmacyByEmail(ctx context.Context, email string) (*models.RetailPharmacy, error)
	GetPharmacyByID(ctx context.Context, executor SQLExecutor, id int64) (*models.RetailPharmacy, error)

	CreateSupplier(ctx context.Context, executor SQLExecutor, supplier *models.Supplier) (int64, error)
	FindSupplierByEmail(ctx context.Context, email string) (*models.Supplier, error)
	GetSupplierByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Supplier, error)
	// GetSuppliers lists suppliers by name, descending.
	GetSuppliers(ctx context.Context) ([]models.Supplier, error)
}

// authRepository implements the AuthRepository interface.
type authRepository struct {
	db *sqlx.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sqlx.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreatePharmacy inserts a retail pharmacy account. The password must already be hashed.
func (r *authRepository) CreatePharmacy(ctx context.Context, executor SQLExecutor, pharmacy *models.RetailPharmacy) (int64, error) {
	query := `INSERT INTO retail_pharmacies
	            (name, email, password_hash, address, phone, billing_address, tax_id, supplier_id, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	          RETURNING id`
	if pharmacy.CreatedAt.IsZero() {
		pharmacy.CreatedAt = time.Now().UTC()
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		pharmacy.Name, pharmacy.Email, pharmacy.PasswordHash, pharmacy.Address, pharmacy.Phone,
		pharmacy.BillingAddress, pharmacy.TaxID, pharmacy.SupplierID, pharmacy.CreatedAt,
	).Scan(&pharmacy.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating retail pharmacy")
	}
	return pharmacy.ID, nil
}

func (r *authRepository) FindPharmacyByEmail(ctx context.Context, email string) (*models.RetailPharmacy, error) {
	pharmacy := &models.RetailPharmacy{}
	query := `SELECT ` + pharmacyColumns + ` FROM retail_pharmacies WHERE email = ?`
	if err := r.db.GetContext(ctx, pharmacy, r.db.Rebind(query), email); err != nil {
		return nil, wrapReadError(err, "finding pharmacy by email")
	}
	return pharmacy, nil
}

func (r *authRepository) GetPharmacyByID(ctx context.Context, executor SQLExecutor, id int64) (*models.RetailPharmacy, error) {
	pharmacy := &models.RetailPharmacy{}
	query := `SELECT ` + pharmacyColumns + ` FROM retail_pharmacies WHERE id = ?`
	if err := sqlx.GetContext(ctx, executor, pharmacy, executor.Rebind(query), id); err != nil {
		return nil, wrapReadError(err, fmt.Sprintf("getting pharmacy by ID %d", id))
	}
	return pharmacy, nil
}

// CreateSupplier inserts a supplier account. The password must already be hashed.
func (r *authRepository) CreateSupplier(ctx context.Context, executor SQLExecutor, supplier *models.Supplier) (int64, error) {
	query := `INSERT INTO suppliers (name, email, contact_number, address, password_hash, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)
	          RETURNING id`
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		supplier.Name, supplier.Email, supplier.ContactNumber, supplier.Address, supplier.PasswordHash, supplier.CreatedAt,
	).Scan(&supplier.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating supplier")
	}
	return supplier.ID, nil
}

func (r *authRepository) FindSupplierByEmail(ctx context.Context, email string) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE email = ?`
	if err := r.db.GetContext(ctx, supplier, r.db.Rebind(query), email); err != nil {
		return nil, wrapReadError(err, "finding supplier by email")
	}
	return supplier, nil
}

func (r *authRepository) GetSupplierByID(ctx context.Context, executor SQLExecutor, id int64) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = ?`
	if err := sqlx.GetContext(ctx, executor, supplier, executor.Rebind(query), id); err != nil {
		return nil, wrapReadError(err, fmt.Sprintf("getting supplier by ID %d", id))
	}
	return supplier, nil
}

func (r *authRepository) GetSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name DESC, id`
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("%w: querying suppliers: %v", ErrDatabaseError, err)
	}
	return suppliers, nil
}
