package services

import (
	"context"
	"fmt"
	"strings"

	"meditrack_backend/internal/cache"
	"meditrack_backend/internal/models"
	"meditrack_backend/internal/repositories"
	"meditrack_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// CreateCustomerRequest DTO
type CreateCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required"`
	State    string `json:"state"`
	Phone    string `json:"phone"`
}

// CustomerService manages the pharmacy's customer register.
type CustomerService interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error)
	GetCustomers(ctx context.Context) ([]models.Customer, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sqlx.DB
	cache        *cache.Cache
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(customerRepo repositories.CustomerRepository, db *sqlx.DB, c *cache.Cache) CustomerService {
	return &customerService{customerRepo: customerRepo, db: db, cache: c}
}

func (s *customerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error) {
	req.Email = normalizeEmail(req.Email)
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: %q is not a valid email address", ErrValidation, req.Email)
	}
	if utils.IsEmpty(req.Password) {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hashed,
		Email:        req.Email,
		State:        utils.NewNullString(req.State),
		Phone:        utils.NewNullString(req.Phone),
	}
	if _, err := s.customerRepo.CreateCustomer(ctx, s.db, customer); err != nil {
		return nil, writeError(err, "creating customer")
	}
	s.cache.Invalidate(cache.Customers)
	return customer, nil
}

func (s *customerService) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	return cache.Remember(s.cache, cache.Key(cache.Customers), 0, func() ([]models.Customer, error) {
		customers, err := s.customerRepo.GetCustomers(ctx)
		if err != nil {
			return nil, persistenceError(err, "fetching customers")
		}
		return customers, nil
	})
}
