package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meditrack_backend/internal/cache"
	"meditrack_backend/internal/models"
	"meditrack_backend/internal/repositories"
	"meditrack_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted account password.
const MinPasswordLength = 8

// --- Data Transfer Objects (DTOs) ---

// PharmacistSignupRequest DTO
type PharmacistSignupRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	Address        string `json:"address" binding:"required"`
	Phone          string `json:"phone"`
	BillingAddress string `json:"billing_address"`
	TaxID          string `json:"tax_id"`
}

// SupplierSignupRequest DTO
type SupplierSignupRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Password      string `json:"password" binding:"required"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
}

// LoginRequest DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	Session     models.Session `json:"session"`
	Account     interface{}    `json:"account"`
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

// --- AuthService Interface ---
type AuthService interface {
	SignupPharmacist(ctx context.Context, req PharmacistSignupRequest) (*AuthResponse, error)
	SignupSupplier(ctx context.Context, req SupplierSignupRequest) (*AuthResponse, error)
	LoginPharmacist(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	LoginSupplier(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	// GetProfile returns the account behind a session.
	GetProfile(ctx context.Context, session models.Session) (interface{}, error)
}

// --- authService Implementation ---
type authService struct {
	authRepo          repositories.AuthRepository
	paymentRepo       repositories.PaymentRepository
	db                *sqlx.DB
	tokens            *utils.TokenManager
	defaultSupplierID int64
	cache             *cache.Cache
}

// NewAuthService creates a new instance of AuthService.
// New pharmacies are linked to defaultSupplierID.
func NewAuthService(
	authRepo repositories.AuthRepository,
	paymentRepo repositories.PaymentRepository,
	db *sqlx.DB,
	tokens *utils.TokenManager,
	defaultSupplierID int64,
	c *cache.Cache,
) AuthService {
	return &authService{
		authRepo:          authRepo,
		paymentRepo:       paymentRepo,
		db:                db,
		tokens:            tokens,
		defaultSupplierID: defaultSupplierID,
		cache:             c,
	}
}

func validateAccount(name, email, password string) error {
	if utils.IsEmpty(name) {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !utils.IsValidEmail(email) {
		return fmt.Errorf("%w: %q is not a valid email address", ErrValidation, email)
	}
	if !utils.IsValidPasswordLength(password, MinPasswordLength) {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) issue(role models.Role, subjectID int64, account interface{}) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(string(role), subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &AuthResponse{
		Session:     models.Session{Role: role, SubjectID: subjectID},
		Account:     account,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// SignupPharmacist creates the pharmacy together with its default cash on delivery payment setting.
func (s *authService) SignupPharmacist(ctx context.Context, req PharmacistSignupRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateAccount(req.Name, req.Email, req.Password); err != nil {
		return nil, err
	}
	if utils.IsEmpty(req.Address) {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, persistenceError(err, "starting signup transaction")
	}
	defer tx.Rollback()

	supplierID := s.defaultSupplierID
	pharmacy := &models.RetailPharmacy{
		Name:           strings.TrimSpace(req.Name),
		Email:          req.Email,
		PasswordHash:   hashed,
		Address:        req.Address,
		Phone:          utils.NewNullString(req.Phone),
		BillingAddress: utils.NewNullString(req.BillingAddress),
		TaxID:          utils.NewNullString(req.TaxID),
		SupplierID:     &supplierID,
	}
	if _, err := s.authRepo.CreatePharmacy(ctx, tx, pharmacy); err != nil {
		return nil, writeError(err, "creating pharmacy")
	}

	cod, err := s.paymentRepo.GetPaymentMethodByName(ctx, tx, models.DefaultPaymentMethodName)
	if err != nil {
		return nil, lookupError(err, ErrPaymentMethodNotFound, "resolving default payment method")
	}
	defaultPayment := &models.PharmacyPayment{
		PharmacyID:      pharmacy.ID,
		PaymentMethodID: cod.ID,
		AccountDetails:  "Cash on delivery",
		IsDefault:       true,
	}
	if _, err := s.paymentRepo.CreatePharmacyPayment(ctx, tx, defaultPayment); err != nil {
		return nil, persistenceError(err, "creating default pharmacy payment")
	}

	if err := tx.Commit(); err != nil {
		return nil, persistenceError(err, "committing signup")
	}
	utils.LogInfo("Pharmacy registered", map[string]interface{}{"pharmacy_id": pharmacy.ID})
	return s.issue(models.RolePharmacist, pharmacy.ID, pharmacy)
}

func (s *authService) SignupSupplier(ctx context.Context, req SupplierSignupRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateAccount(req.Name, req.Email, req.Password); err != nil {
		return nil, err
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	supplier := &models.Supplier{
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		ContactNumber: utils.NewNullString(req.ContactNumber),
		Address:       utils.NewNullString(req.Address),
		PasswordHash:  hashed,
	}
	if _, err := s.authRepo.CreateSupplier(ctx, s.db, supplier); err != nil {
		return nil, writeError(err, "creating supplier")
	}
	s.cache.Invalidate(cache.Suppliers)
	utils.LogInfo("Supplier registered", map[string]interface{}{"supplier_id": supplier.ID})
	return s.issue(models.RoleSupplier, supplier.ID, supplier)
}

func (s *authService) LoginPharmacist(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	pharmacy, err := s.authRepo.FindPharmacyByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, persistenceError(err, "login attempt failed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pharmacy.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(models.RolePharmacist, pharmacy.ID, pharmacy)
}

func (s *authService) LoginSupplier(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	supplier, err := s.authRepo.FindSupplierByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, persistenceError(err, "login attempt failed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(supplier.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(models.RoleSupplier, supplier.ID, supplier)
}

func (s *authService) GetProfile(ctx context.Context, session models.Session) (interface{}, error) {
	switch session.Role {
	case models.RolePharmacist:
		pharmacy, err := s.authRepo.GetPharmacyByID(ctx, s.db, session.SubjectID)
		if err != nil {
			return nil, lookupError(err, ErrPharmacyNotFound, "retrieving pharmacy profile")
		}
		return pharmacy, nil
	case models.RoleSupplier:
		supplier, err := s.authRepo.GetSupplierByID(ctx, s.db, session.SubjectID)
		if err != nil {
			return nil, lookupError(err, ErrSupplierNotFound, "retrieving supplier profile")
		}
		return supplier, nil
	}
	return nil, fmt.Errorf("%w: unknown role %q", ErrForbidden, session.Role)
}
