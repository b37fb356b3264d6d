package repositories

import (
	"context"
	"fmt"
	"time"

	"meditrack_backend/internal/models"

	"github.com/jmoiron/sqlx"
)

const paymentColumns = `id, pharmacy_id, supplier_id, amount, payment_method_id, status, notes, transaction_reference, payment_date`

// PaymentRepository defines the interface for payments, payment methods and pharmacy payment settings.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, executor SQLExecutor, payment *models.Payment) (int64, error)
	GetPayments(ctx context.Context) ([]models.Payment, error)
	GetPaymentsByReference(ctx context.Context, executor SQLExecutor, reference string) ([]models.Payment, error)
	UpdateStatusByReference(ctx context.Context, executor SQLExecutor, reference, status string) (int64, error)

	GetPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	GetPaymentMethodByID(ctx context.Context, executor SQLExecutor, id int64) (*models.PaymentMethod, error)
	GetPaymentMethodByName(ctx context.Context, executor SQLExecutor, name string) (*models.PaymentMethod, error)

	CreatePharmacyPayment(ctx context.Context, executor SQLExecutor, pp *models.PharmacyPayment) (int64, error)
	GetPharmacyPayments(ctx context.Context, pharmacyID int64) ([]models.PharmacyPayment, error)
	ClearDefaultPharmacyPayment(ctx context.Context, executor SQLExecutor, pharmacyID int64) error
}

type paymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// --- Payments ---

func (r *paymentRepository) CreatePayment(ctx context.Context, executor SQLExecutor, payment *models.Payment) (int64, error) {
	query := `INSERT INTO payments
	            (pharmacy_id, supplier_id, amount, payment_method_id, status, notes, transaction_reference, payment_date)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	          RETURNING id`
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now().UTC()
	}

	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		payment.PharmacyID, payment.SupplierID, payment.Amount, payment.PaymentMethodID,
		payment.Status, payment.Notes, payment.TransactionReference, payment.PaymentDate,
	).Scan(&payment.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating payment")
	}
	return payment.ID, nil
}

func (r *paymentRepository) GetPayments(ctx context.Context) ([]models.Payment, error) {
	payments := []models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY payment_date DESC, id DESC`
	if err := r.db.SelectContext(ctx, &payments, query); err != nil {
		return nil, fmt.Errorf("%w: querying payments: %v", ErrDatabaseError, err)
	}
	return payments, nil
}

func (r *paymentRepository) GetPaymentsByReference(ctx context.Context, executor SQLExecutor, reference string) ([]models.Payment, error) {
	payments := []models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_reference = ? ORDER BY id`
	if err := sqlx.SelectContext(ctx, executor, &payments, executor.Rebind(query), reference); err != nil {
		return nil, fmt.Errorf("%w: querying payments by reference %s: %v", ErrDatabaseError, reference, err)
	}
	return payments, nil
}

func (r *paymentRepository) UpdateStatusByReference(ctx context.Context, executor SQLExecutor, reference, status string) (int64, error) {
	query := `UPDATE payments SET status = ? WHERE transaction_reference = ?`
	result, err := executor.ExecContext(ctx, executor.Rebind(query), status, reference)
	if err != nil {
		return 0, fmt.Errorf("%w: updating payment status for reference %s: %v", ErrDatabaseError, reference, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for payment reference %s: %v", ErrDatabaseError, reference, err)
	}
	return n, nil
}

// --- Payment Method Methods ---

func (r *paymentRepository) GetPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	methods := []models.PaymentMethod{}
	query := `SELECT id, method_name, description FROM payment_methods ORDER BY id`
	if err := r.db.SelectContext(ctx, &methods, query); err != nil {
		return nil, fmt.Errorf("%w: querying payment methods: %v", ErrDatabaseError, err)
	}
	return methods, nil
}

func (r *paymentRepository) GetPaymentMethodByID(ctx context.Context, executor SQLExecutor, id int64) (*models.PaymentMethod, error) {
	method := &models.PaymentMethod{}
	query := `SELECT id, method_name, description FROM payment_methods WHERE id = ?`
	if err := sqlx.GetContext(ctx, executor, method, executor.Rebind(query), id); err != nil {
		return nil, wrapReadError(err, fmt.Sprintf("getting payment method by ID %d", id))
	}
	return method, nil
}

func (r *paymentRepository) GetPaymentMethodByName(ctx context.Context, executor SQLExecutor, name string) (*models.PaymentMethod, error) {
	method := &models.PaymentMethod{}
	query := `SELECT id, method_name, description FROM payment_methods WHERE method_name = ?`
	if err := sqlx.GetContext(ctx, executor, method, executor.Rebind(query), name); err != nil {
		return nil, wrapReadError(err, fmt.Sprintf("getting payment method %q", name))
	}
	return method, nil
}

// --- Pharmacy Payment Methods ---

func (r *paymentRepository) CreatePharmacyPayment(ctx context.Context, executor SQLExecutor, pp *models.PharmacyPayment) (int64, error) {
	query := `INSERT INTO pharmacy_payments (pharmacy_id, payment_method_id, account_details, is_default)
	          VALUES (?, ?, ?, ?)
	          RETURNING id`
	err := executor.QueryRowxContext(ctx, executor.Rebind(query),
		pp.PharmacyID, pp.PaymentMethodID, pp.AccountDetails, pp.IsDefault,
	).Scan(&pp.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating pharmacy payment method")
	}
	return pp.ID, nil
}

// ClearDefaultPharmacyPayment unsets the default flag on all of a pharmacy's payment settings.
func (r *paymentRepository) ClearDefaultPharmacyPayment(ctx context.Context, executor SQLExecutor, pharmacyID int64) error {
	query := `UPDATE pharmacy_payments SET is_default = ? WHERE pharmacy_id = ? AND is_default = ?`
	if _, err := executor.ExecContext(ctx, executor.Rebind(query), false, pharmacyID, true); err != nil {
		return wrapWriteError(err, "clearing default pharmacy payment method")
	}
	return nil
}

// GetPharmacyPayments lists a pharmacy's payment settings joined with the method names.
func (r *paymentRepository) GetPharmacyPayments(ctx context.Context, pharmacyID int64) ([]models.PharmacyPayment, error) {
	payments := []models.PharmacyPayment{}
	query := `SELECT pp.id, pp.pharmacy_id, pp.payment_method_id, pp.account_details, pp.is_default,
	                 pm.method_name AS method_name
	          FROM pharmacy_payments pp
	          JOIN payment_methods pm ON pp.payment_method_id = pm.id
	          WHERE pp.pharmacy_id = ?
	          ORDER BY pp.id`
	if err := r.db.SelectContext(ctx, &payments, r.db.Rebind(query), pharmacyID); err != nil {
		return nil, fmt.Errorf("%w: querying pharmacy payments for pharmacy ID %d: %v", ErrDatabaseError, pharmacyID, err)
	}
	return payments, nil
}
