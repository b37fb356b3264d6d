package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ReportRepository runs the ad-hoc read queries behind reports and dashboards.
type ReportRepository interface {
	// RunReport executes a prepared SELECT and returns its column names and raw rows.
	RunReport(ctx context.Context, query string, args ...interface{}) ([]string, [][]interface{}, error)
	// CountRows counts the rows of table, optionally restricted by a where clause.
	CountRows(ctx context.Context, table string, where string, args ...interface{}) (int, error)
}

type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) RunReport(ctx context.Context, query string, args ...interface{}) ([]string, [][]interface{}, error) {
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: running report query: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading report columns: %v", ErrDatabaseError, err)
	}

	result := [][]interface{}{}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: scanning report row: %v", ErrDatabaseError, err)
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: iterating report rows: %v", ErrDatabaseError, err)
	}
	return columns, result, nil
}

func (r *reportRepository) CountRows(ctx context.Context, table string, where string, args ...interface{}) (int, error) {
	query := `SELECT COUNT(*) FROM ` + table
	if where != "" {
		query += ` WHERE ` + where
	}
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("%w: counting rows in %s: %v", ErrDatabaseError, table, err)
	}
	return count, nil
}

// normalizeValue turns driver byte slices into strings so rows encode as readable JSON.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return val
	}
}
