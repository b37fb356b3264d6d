package database

import (
	"context"
	"fmt"

	"meditrack_backend/internal/models"
	"meditrack_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// SeedPaymentMethods inserts the default payment methods when the table is empty.
// It returns the number of rows inserted.
func SeedPaymentMethods(ctx context.Context, db *sqlx.DB) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start seed transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM payment_methods"); err != nil {
		return 0, fmt.Errorf("failed to count payment methods: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	query := tx.Rebind("INSERT INTO payment_methods (method_name, description) VALUES (?, ?)")
	for _, m := range models.DefaultPaymentMethods {
		if _, err := tx.ExecContext(ctx, query, m.MethodName, m.Description); err != nil {
			return 0, fmt.Errorf("failed to seed payment method %s: %w", m.MethodName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit payment method seed: %w", err)
	}
	utils.LogInfo("Seeded payment methods", map[string]interface{}{"count": len(models.DefaultPaymentMethods)})
	return len(models.DefaultPaymentMethods), nil
}
