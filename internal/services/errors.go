package services

import (
	"context"
	"errors"
	"fmt"

	"meditrack_backend/internal/events"
	"meditrack_backend/internal/repositories"
	"meditrack_backend/pkg/utils"
)

// --- Service Errors ---
var (
	// ErrNotFound is wrapped by every "<entity> not found" error.
	ErrNotFound = errors.New("not found")

	ErrDrugNotFound          = fmt.Errorf("drug %w", ErrNotFound)
	ErrSupplierNotFound      = fmt.Errorf("supplier %w", ErrNotFound)
	ErrPharmacyNotFound      = fmt.Errorf("pharmacy %w", ErrNotFound)
	ErrRestockNotFound       = fmt.Errorf("restock order %w", ErrNotFound)
	ErrTicketNotFound        = fmt.Errorf("ticket %w", ErrNotFound)
	ErrPaymentMethodNotFound = fmt.Errorf("payment method %w", ErrNotFound)

	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrPersistence        = errors.New("persistence error")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("operation not permitted for this account")

	// ErrConflict is wrapped by state errors that make an operation inapplicable.
	ErrConflict         = errors.New("conflict")
	ErrAlreadyDelivered = fmt.Errorf("restock order already delivered: %w", ErrConflict)
	ErrDrugNotLowStock  = fmt.Errorf("drug is not low on stock: %w", ErrConflict)
)

// persistenceError wraps a store failure so callers can match ErrPersistence
// while the repository error stays in the chain.
func persistenceError(err error, action string) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, action, err)
}

// lookupError maps a repository miss to notFound and anything else to ErrPersistence.
func lookupError(err error, notFound error, action string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return persistenceError(err, action)
}

// writeError maps unique violations on an email column to ErrDuplicateEmail.
func writeError(err error, action string) error {
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return ErrDuplicateEmail
	}
	return persistenceError(err, action)
}

// publish sends a committed event. Failures are logged only; the workflow already succeeded.
func publish(ctx context.Context, publisher events.Publisher, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		utils.LogWarn(err, "Failed to publish domain event", map[string]interface{}{
			"event_type": event.Type,
			"entity_id":  event.EntityID,
		})
	}
}
