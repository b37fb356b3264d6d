package models

import "time"

// Restock order statuses
const (
	RestockStatusPending   = "Pending"
	RestockStatusDelivered = "Delivered"
)

// Ticket statuses
const (
	TicketStatusOpen   = "Open"
	TicketStatusClosed = "Closed"
)

// RestockOrder is a request from a pharmacy to a supplier to replenish a drug.
type RestockOrder struct {
	ID            int64      `json:"id" db:"id"`
	SupplierID    int64      `json:"supplier_id" db:"supplier_id"`
	DrugID        int64      `json:"drug_id" db:"drug_id"`
	PharmacyID    *int64     `json:"pharmacy_id,omitempty" db:"pharmacy_id"`
	Quantity      int        `json:"quantity" db:"quantity"`
	Status        string     `json:"status" db:"status"`
	PaymentStatus string     `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`
}

// Ticket tracks the work on a restock order.
type Ticket struct {
	ID         int64      `json:"id" db:"id"`
	RestockID  int64      `json:"restock_id" db:"restock_id"`
	SupplierID int64      `json:"supplier_id" db:"supplier_id"`
	Status     string     `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty" db:"closed_at"`
}

// RestockNeed is a low-stock drug with one of the supplier's restock orders for it.
type RestockNeed struct {
	DrugName  string `json:"drug_name" db:"drug_name"`
	Stock     int    `json:"stock" db:"stock"`
	RestockID int64  `json:"restock_id" db:"restock_id"`
	Quantity  int    `json:"quantity" db:"quantity"`
	Status    string `json:"status" db:"status"`
}
