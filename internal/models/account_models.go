package models

import "time"

// Role identifies which kind of account a session belongs to.
type Role string

const (
	RolePharmacist Role = "pharmacist"
	RoleSupplier   Role = "supplier"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePharmacist || r == RoleSupplier
}

// Session is the authenticated identity of a request: a retail pharmacy or a supplier, never both.
type Session struct {
	Role      Role  `json:"role"`
	SubjectID int64 `json:"subject_id"`
}

// PharmacyID returns the pharmacy id when the session belongs to a pharmacist.
func (s Session) PharmacyID() (int64, bool) {
	if s.Role != RolePharmacist {
		return 0, false
	}
	return s.SubjectID, true
}

// SupplierID returns the supplier id when the session belongs to a supplier.
func (s Session) SupplierID() (int64, bool) {
	if s.Role != RoleSupplier {
		return 0, false
	}
	return s.SubjectID, true
}

// Customer represents a retail customer registered by a pharmacist.
type Customer struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        string    `json:"email" db:"email"`
	State        *string   `json:"state,omitempty" db:"state"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RetailPharmacy is the account of a retail pharmacist.
type RetailPharmacy struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Address        string    `json:"address" db:"address"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	BillingAddress *string   `json:"billing_address,omitempty" db:"billing_address"`
	TaxID          *string   `json:"tax_id,omitempty" db:"tax_id"`
	SupplierID     *int64    `json:"supplier_id,omitempty" db:"supplier_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Supplier is the account of a drug supplier.
type Supplier struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	ContactNumber *string   `json:"contact_number,omitempty" db:"contact_number"`
	Address       *string   `json:"address,omitempty" db:"address"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
