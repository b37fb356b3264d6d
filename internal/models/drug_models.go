package models

import "time"

// LowStockThreshold is the stock level at or below which a drug raises a restock alert.
const LowStockThreshold = 100

// Stock movement types
const (
	MovementTypeSale            = "sale"
	MovementTypeRestockDelivery = "restock_delivery"
)

// Drug represents a catalog entry together with its current stock.
type Drug struct {
	ID                int64     `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Price             float64   `json:"price" db:"price"`
	IsDiscontinued    bool      `json:"is_discontinued" db:"is_discontinued"`
	Manufacturer      *string   `json:"manufacturer,omitempty" db:"manufacturer"`
	DrugType          *string   `json:"drug_type,omitempty" db:"drug_type"`
	PackSize          *string   `json:"pack_size,omitempty" db:"pack_size"`
	ShortComposition1 *string   `json:"short_composition1,omitempty" db:"short_composition1"`
	ShortComposition2 *string   `json:"short_composition2,omitempty" db:"short_composition2"`
	SaltComposition   *string   `json:"salt_composition,omitempty" db:"salt_composition"`
	Description       *string   `json:"description,omitempty" db:"description"`
	SideEffects       *string   `json:"side_effects,omitempty" db:"side_effects"`
	DrugInteractions  *string   `json:"drug_interactions,omitempty" db:"drug_interactions"`
	Stock             int       `json:"stock" db:"stock"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// IsLowStock reports whether the drug is at or below the alert threshold.
func (d Drug) IsLowStock() bool {
	return d.Stock <= LowStockThreshold
}

// DrugFilters narrows a drug listing. At most one filter is applied.
type DrugFilters struct {
	ID           *int64   `form:"id"`
	Name         *string  `form:"name"`
	MinPrice     *float64 `form:"min_price"`
	MaxPrice     *float64 `form:"max_price"`
	Discontinued *bool    `form:"discontinued"`
}

// StockMovement records a change to a drug's stock.
type StockMovement struct {
	ID              int64     `json:"id" db:"id"`
	DrugID          int64     `json:"drug_id" db:"drug_id"`
	MovementType    string    `json:"movement_type" db:"movement_type"`
	QuantityChanged int       `json:"quantity_changed" db:"quantity_changed"`
	Reason          *string   `json:"reason,omitempty" db:"reason"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
