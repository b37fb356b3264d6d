package models

import "time"

// Order is a customer order for a single drug, referenced by name.
type Order struct {
	ID         int64     `json:"id" db:"id"`
	PharmacyID *int64    `json:"pharmacy_id,omitempty" db:"pharmacy_id"`
	OrderName  string    `json:"order_name" db:"order_name"`
	ItemName   string    `json:"item_name" db:"item_name"`
	Quantity   int       `json:"quantity" db:"quantity"`
	OrderedAt  time.Time `json:"ordered_at" db:"ordered_at"`
}
