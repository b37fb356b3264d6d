package models

import "time"

// ReportType names one of the tables a report can be generated from.
type ReportType string

const (
	ReportDrugs         ReportType = "drugs"
	ReportCustomers     ReportType = "customers"
	ReportOrders        ReportType = "orders"
	ReportLowStock      ReportType = "low_stock"
	ReportSuppliers     ReportType = "suppliers"
	ReportTickets       ReportType = "tickets"
	ReportRestockOrders ReportType = "restock_orders"
	ReportPayments      ReportType = "payments"
)

// ReportRequest selects a report and at most one filter on it.
// Value is used by equality and substring filters, Min/Max by ranges, Start/End by date ranges.
type ReportRequest struct {
	Type   ReportType `form:"-"`
	Filter string     `form:"filter"`
	Value  string     `form:"value"`
	Min    *float64   `form:"min"`
	Max    *float64   `form:"max"`
	Start  *time.Time `form:"start" time_format:"2006-01-02"`
	End    *time.Time `form:"end" time_format:"2006-01-02"`
	Format string     `form:"format"`
}

// ReportResult is a generic result set.
type ReportResult struct {
	Type        ReportType      `json:"type"`
	FilterLabel string          `json:"filter"`
	Columns     []string        `json:"columns"`
	Rows        [][]interface{} `json:"rows"`
}

// PharmacistDashboard summarises the data a retail pharmacist sees on login.
type PharmacistDashboard struct {
	TotalDrugs     int      `json:"total_drugs"`
	TotalCustomers int      `json:"total_customers"`
	TotalSuppliers int      `json:"total_suppliers"`
	TotalOrders    int      `json:"total_orders"`
	TotalTickets   int      `json:"total_tickets"`
	LowStockCount  int      `json:"low_stock_count"`
	RecentTickets  []Ticket `json:"recent_tickets"`
	LowStockDrugs  []Drug   `json:"low_stock_drugs"`
}

// SupplierDashboard summarises the data a supplier sees on login.
type SupplierDashboard struct {
	TotalDrugs         int      `json:"total_drugs"`
	TotalTickets       int      `json:"total_tickets"`
	TotalRestockOrders int      `json:"total_restock_orders"`
	LowStockCount      int      `json:"low_stock_count"`
	MyRecentTickets    []Ticket `json:"my_recent_tickets"`
}
