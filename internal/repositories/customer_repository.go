package repositories

import (
	"context"
	"fmt"
	"time"

	"meditrack_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// CustomerRepository defines the interface for customer-related database operations.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, executor SQLExecutor, customer *models.Customer) (int64, error)
	GetCustomers(ctx context.Context) ([]models.Customer, error)
}

type customerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// CreateCustomer inserts a new customer. A taken email yields ErrDuplicateKey.
func (r *customerRepository) CreateCustomer(ctx context.Context, executor SQLExecutor, customer *models.Customer) (int64, error) {
	query := `INSERT INTO customers (name, password_hash, email, state, phone, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)
	          RETURNING id`
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		customer.Name, customer.PasswordHash, customer.Email, customer.State, customer.Phone, customer.CreatedAt,
	).Scan(&customer.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating customer")
	}
	return customer.ID, nil
}

func (r *customerRepository) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	query := `SELECT id, name, password_hash, email, state, phone, created_at FROM customers ORDER BY id`
	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, fmt.Errorf("%w: querying customers: %v", ErrDatabaseError, err)
	}
	return customers, nil
}
