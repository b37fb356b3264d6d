// Package reports turns a report request into a single-filter SQL query and
// renders the resulting rows as PDF or spreadsheet documents.
package reports

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"meditrack_backend/internal/models"
)

// ErrInvalidRequest is returned for an unknown report, an unknown filter or a malformed filter value.
var ErrInvalidRequest = errors.New("invalid report request")

const dateLayout = "2006-01-02"

// Default bounds of a price range filter when one side is omitted.
const (
	DefaultMinPrice = 0.0
	DefaultMaxPrice = 1000.0
)

type filterKind int

const (
	filterID filterKind = iota
	filterEquals
	filterLike
	filterBool
	filterPriceRange
	filterDateRange
)

type filterSpec struct {
	column string
	kind   filterKind
}

type reportSpec struct {
	selectSQL string
	where     string
	whereArgs []interface{}
	orderBy   string
	filters   map[string]filterSpec
}

var reportSpecs = map[models.ReportType]reportSpec{
	models.ReportDrugs: {
		selectSQL: `SELECT id, name, price, is_discontinued, manufacturer, drug_type, pack_size, stock FROM drugs`,
		orderBy:   "id",
		filters: map[string]filterSpec{
			"id":           {"id", filterID},
			"name":         {"name", filterLike},
			"price_range":  {"price", filterPriceRange},
			"discontinued": {"is_discontinued", filterBool},
		},
	},
	models.ReportCustomers: {
		selectSQL: `SELECT id, name, email, state, phone, created_at FROM customers`,
		orderBy:   "id",
		filters: map[string]filterSpec{
			"name":  {"name", filterLike},
			"email": {"email", filterLike},
			"state": {"state", filterEquals},
		},
	},
	models.ReportOrders: {
		selectSQL: `SELECT id, pharmacy_id, order_name, item_name, quantity, ordered_at FROM orders`,
		orderBy:   "id",
		filters: map[string]filterSpec{
			"name":       {"order_name", filterLike},
			"item":       {"item_name", filterLike},
			"date_range": {"ordered_at", filterDateRange},
		},
	},
	models.ReportLowStock: {
		selectSQL: `SELECT id, name, price, stock FROM drugs`,
		where:     "stock <= ?",
		whereArgs: []interface{}{models.LowStockThreshold},
		orderBy:   "stock, id",
		filters:   map[string]filterSpec{},
	},
	models.ReportSuppliers: {
		selectSQL: `SELECT id, name, email, contact_number, address FROM suppliers`,
		orderBy:   "id",
		filters: map[string]filterSpec{
			"id":    {"id", filterID},
			"name":  {"name", filterLike},
			"email": {"email", filterLike},
		},
	},
	models.ReportTickets: {
		selectSQL: `SELECT id, restock_id, supplier_id, status, created_at, closed_at FROM tickets`,
		orderBy:   "id",
		filters: map[string]filterSpec{
			"id":         {"id", filterID},
			"status":     {"status", filterEquals},
			"date_range": {"created_at", filterDateRange},
		},
	},
	models.ReportRestockOrders: {
		selectSQL: `SELECT id, supplier_id, drug_id, pharmacy_id, quantity, status, payment_status, created_at, delivered_at FROM restock_orders`,
		orderBy:   "id",
		filters: map[string]filterSpec{
			"id":          {"id", filterID},
			"supplier_id": {"supplier_id", filterID},
			"drug_id":     {"drug_id", filterID},
			"status":      {"status", filterEquals},
		},
	},
	models.ReportPayments: {
		selectSQL: `SELECT id, pharmacy_id, supplier_id, amount, payment_method_id, status, notes, transaction_reference, payment_date FROM payments`,
		orderBy:   "id",
		filters: map[string]filterSpec{
			"pharmacy_id": {"pharmacy_id", filterID},
			"supplier_id": {"supplier_id", filterID},
			"status":      {"status", filterEquals},
			"date_range":  {"payment_date", filterDateRange},
		},
	},
}

// Query is a ready to run report query. SQL uses ? placeholders.
type Query struct {
	SQL   string
	Args  []interface{}
	Label string
}

// Filters lists the filters a report type accepts.
func Filters(reportType models.ReportType) ([]string, bool) {
	spec, ok := reportSpecs[reportType]
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(spec.filters))
	for name := range spec.filters {
		names = append(names, name)
	}
	return names, true
}

// BuildQuery composes the query for req with at most one filter predicate.
// A known filter with an empty value matches every row.
func BuildQuery(req models.ReportRequest) (Query, error) {
	spec, ok := reportSpecs[req.Type]
	if !ok {
		return Query{}, fmt.Errorf("%w: unknown report type %q", ErrInvalidRequest, req.Type)
	}

	conditions := []string{}
	args := []interface{}{}
	if spec.where != "" {
		conditions = append(conditions, spec.where)
		args = append(args, spec.whereArgs...)
	}

	label := "None"
	filterName := strings.ToLower(strings.TrimSpace(req.Filter))
	if filterName != "" && filterName != "none" {
		filter, ok := spec.filters[filterName]
		if !ok {
			return Query{}, fmt.Errorf("%w: report %q has no filter %q", ErrInvalidRequest, req.Type, req.Filter)
		}
		predicate, predicateArgs, display, err := buildPredicate(filter, req)
		if err != nil {
			return Query{}, fmt.Errorf("%w: filter %q: %v", ErrInvalidRequest, filterName, err)
		}
		if predicate != "" {
			conditions = append(conditions, predicate)
			args = append(args, predicateArgs...)
		}
		label = filterName + ": " + display
	}

	var sb strings.Builder
	sb.WriteString(spec.selectSQL)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY " + spec.orderBy)

	return Query{SQL: sb.String(), Args: args, Label: label}, nil
}

func buildPredicate(filter filterSpec, req models.ReportRequest) (string, []interface{}, string, error) {
	value := strings.TrimSpace(req.Value)

	switch filter.kind {
	case filterID:
		if value == "" {
			return "", nil, "All", nil
		}
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", nil, "", fmt.Errorf("%q is not a valid id", value)
		}
		return filter.column + " = ?", []interface{}{id}, value, nil

	case filterEquals:
		if value == "" {
			return "", nil, "All", nil
		}
		return filter.column + " = ?", []interface{}{value}, value, nil

	case filterLike:
		if value == "" {
			return "", nil, "All", nil
		}
		return "LOWER(" + filter.column + ") LIKE ?", []interface{}{"%" + strings.ToLower(value) + "%"}, value, nil

	case filterBool:
		if value == "" {
			value = "false"
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", nil, "", fmt.Errorf("%q is not a boolean", value)
		}
		return filter.column + " = ?", []interface{}{b}, strconv.FormatBool(b), nil

	case filterPriceRange:
		minPrice, maxPrice := DefaultMinPrice, DefaultMaxPrice
		if req.Min != nil {
			minPrice = *req.Min
		}
		if req.Max != nil {
			maxPrice = *req.Max
		}
		if minPrice > maxPrice {
			return "", nil, "", fmt.Errorf("min %.2f exceeds max %.2f", minPrice, maxPrice)
		}
		display := strconv.FormatFloat(minPrice, 'f', 2, 64) + " - " + strconv.FormatFloat(maxPrice, 'f', 2, 64)
		return filter.column + " BETWEEN ? AND ?", []interface{}{minPrice, maxPrice}, display, nil

	case filterDateRange:
		if req.Start == nil {
			return "", nil, "", errors.New("start date is required")
		}
		start := truncateDay(*req.Start)
		end := start
		if req.End != nil {
			end = truncateDay(*req.End)
		}
		if end.Before(start) {
			return "", nil, "", errors.New("end date is before start date")
		}
		display := start.Format(dateLayout) + " to " + end.Format(dateLayout)
		// The end day is inclusive.
		return filter.column + " >= ? AND " + filter.column + " < ?",
			[]interface{}{start, end.AddDate(0, 0, 1)}, display, nil
	}
	return "", nil, "", fmt.Errorf("unsupported filter kind %d", filter.kind)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
