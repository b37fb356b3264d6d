package reports

import (
	"bytes"
	"testing"
	"time"

	"meditrack_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func floatPtr(f float64) *float64 { return &f }

func TestBuildQuery(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		req       models.ReportRequest
		wantSQL   string
		wantArgs  []interface{}
		wantLabel string
	}{
		{
			name:      "no filter",
			req:       models.ReportRequest{Type: models.ReportSuppliers},
			wantSQL:   "SELECT id, name, email, contact_number, address FROM suppliers ORDER BY id",
			wantArgs:  []interface{}{},
			wantLabel: "None",
		},
		{
			name:      "drug name substring",
			req:       models.ReportRequest{Type: models.ReportDrugs, Filter: "name", Value: "Para"},
			wantSQL:   "SELECT id, name, price, is_discontinued, manufacturer, drug_type, pack_size, stock FROM drugs WHERE LOWER(name) LIKE ? ORDER BY id",
			wantArgs:  []interface{}{"%para%"},
			wantLabel: "name: Para",
		},
		{
			name:      "price range defaults max",
			req:       models.ReportRequest{Type: models.ReportDrugs, Filter: "price_range", Min: floatPtr(5)},
			wantSQL:   "SELECT id, name, price, is_discontinued, manufacturer, drug_type, pack_size, stock FROM drugs WHERE price BETWEEN ? AND ? ORDER BY id",
			wantArgs:  []interface{}{5.0, 1000.0},
			wantLabel: "price_range: 5.00 - 1000.00",
		},
		{
			name:      "payments by status",
			req:       models.ReportRequest{Type: models.ReportPayments, Filter: "status", Value: "Pending"},
			wantSQL:   "SELECT id, pharmacy_id, supplier_id, amount, payment_method_id, status, notes, transaction_reference, payment_date FROM payments WHERE status = ? ORDER BY id",
			wantArgs:  []interface{}{"Pending"},
			wantLabel: "status: Pending",
		},
		{
			name:      "orders date range inclusive of end day",
			req:       models.ReportRequest{Type: models.ReportOrders, Filter: "date_range", Start: &jan1, End: &jan31},
			wantSQL:   "SELECT id, pharmacy_id, order_name, item_name, quantity, ordered_at FROM orders WHERE ordered_at >= ? AND ordered_at < ? ORDER BY id",
			wantArgs:  []interface{}{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			wantLabel: "date_range: 2024-01-01 to 2024-01-31",
		},
		{
			name:      "low stock keeps threshold",
			req:       models.ReportRequest{Type: models.ReportLowStock},
			wantSQL:   "SELECT id, name, price, stock FROM drugs WHERE stock <= ? ORDER BY stock, id",
			wantArgs:  []interface{}{models.LowStockThreshold},
			wantLabel: "None",
		},
		{
			name:      "restock by supplier id",
			req:       models.ReportRequest{Type: models.ReportRestockOrders, Filter: "supplier_id", Value: "4"},
			wantSQL:   "SELECT id, supplier_id, drug_id, pharmacy_id, quantity, status, payment_status, created_at, delivered_at FROM restock_orders WHERE supplier_id = ? ORDER BY id",
			wantArgs:  []interface{}{int64(4)},
			wantLabel: "supplier_id: 4",
		},
		{
			name:      "empty value matches all",
			req:       models.ReportRequest{Type: models.ReportCustomers, Filter: "state"},
			wantSQL:   "SELECT id, name, email, state, phone, created_at FROM customers ORDER BY id",
			wantArgs:  []interface{}{},
			wantLabel: "state: All",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := BuildQuery(tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, q.SQL)
			assert.Equal(t, tc.wantArgs, q.Args)
			assert.Equal(t, tc.wantLabel, q.Label)
		})
	}
}

func TestBuildQuery_Rejects(t *testing.T) {
	tests := []struct {
		name string
		req  models.ReportRequest
	}{
		{"unknown report", models.ReportRequest{Type: "invoices"}},
		{"unknown filter", models.ReportRequest{Type: models.ReportDrugs, Filter: "colour"}},
		{"filter on low stock", models.ReportRequest{Type: models.ReportLowStock, Filter: "name", Value: "x"}},
		{"bad id", models.ReportRequest{Type: models.ReportTickets, Filter: "id", Value: "abc"}},
		{"inverted price range", models.ReportRequest{Type: models.ReportDrugs, Filter: "price_range", Min: floatPtr(10), Max: floatPtr(1)}},
		{"date range without start", models.ReportRequest{Type: models.ReportPayments, Filter: "date_range"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildQuery(tc.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func sampleResult() models.ReportResult {
	return models.ReportResult{
		Type:        models.ReportDrugs,
		FilterLabel: "name: para",
		Columns:     []string{"id", "name", "stock"},
		Rows: [][]interface{}{
			{int64(1), "Paracetamol", int64(145)},
			{int64(2), "Paracetamol XR", nil},
		},
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(sampleResult())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, "Report for drugs: name: para", Title(sampleResult()))
}

func TestRenderXLSX(t *testing.T) {
	data, err := RenderXLSX(sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "name", "stock"}, rows[0])
	assert.Equal(t, "Paracetamol", rows[1][1])
}

func TestFormatRow(t *testing.T) {
	assert.Equal(t, "1 | Zinc | -", FormatRow([]interface{}{1, "Zinc", nil}))
}
