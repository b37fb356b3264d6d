package models

import "time"

// Payment statuses
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"
)

// DefaultPaymentMethodName is used when an order does not name a payment method.
const DefaultPaymentMethodName = "COD"

// Notification entity types
const (
	EntityTypePayment = "Payment"
)

// Payment settles an order or a restock order.
type Payment struct {
	ID                   int64     `json:"id" db:"id"`
	PharmacyID           *int64    `json:"pharmacy_id,omitempty" db:"pharmacy_id"`
	SupplierID           *int64    `json:"supplier_id,omitempty" db:"supplier_id"`
	Amount               float64   `json:"amount" db:"amount"`
	PaymentMethodID      *int64    `json:"payment_method_id,omitempty" db:"payment_method_id"`
	Status               string    `json:"status" db:"status"`
	Notes                *string   `json:"notes,omitempty" db:"notes"`
	TransactionReference string    `json:"transaction_reference" db:"transaction_reference"`
	PaymentDate          time.Time `json:"payment_date" db:"payment_date"`
}

// PaymentMethod is a named channel through which a payment is settled.
type PaymentMethod struct {
	ID          int64   `json:"id" db:"id"`
	MethodName  string  `json:"method_name" db:"method_name"`
	Description *string `json:"description,omitempty" db:"description"`
}

// PharmacyPayment links a pharmacy to one of its configured payment methods.
type PharmacyPayment struct {
	ID              int64  `json:"id" db:"id"`
	PharmacyID      int64  `json:"pharmacy_id" db:"pharmacy_id"`
	PaymentMethodID int64  `json:"payment_method_id" db:"payment_method_id"`
	AccountDetails  string `json:"account_details" db:"account_details"`
	IsDefault       bool   `json:"is_default" db:"is_default"`
	MethodName      string `json:"method_name,omitempty" db:"method_name"`
}

// SupplierNotification is an inbox entry for a supplier.
type SupplierNotification struct {
	ID                int64     `json:"id" db:"id"`
	SupplierID        int64     `json:"supplier_id" db:"supplier_id"`
	Title             string    `json:"title" db:"title"`
	Message           string    `json:"message" db:"message"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty" db:"related_entity_type"`
	RelatedEntityID   *int64    `json:"related_entity_id,omitempty" db:"related_entity_id"`
	IsRead            bool      `json:"is_read" db:"is_read"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// DefaultPaymentMethods are seeded into an empty payment_methods table.
var DefaultPaymentMethods = []PaymentMethod{
	{MethodName: "COD", Description: NewNullString("Cash on Delivery")},
	{MethodName: "UPI", Description: NewNullString("Unified Payments Interface")},
	{MethodName: "Net Banking", Description: NewNullString("Internet Banking")},
	{MethodName: "Studd", Description: NewNullString("Student Discount Payment (Placeholder)")},
}

// NewNullString returns nil for an empty string.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
