package services

import (
	"testing"

	"meditrack_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupPharmacist_LinksSupplierAndDefaultPayment(t *testing.T) {
	h := newHarness(t)

	require.NotNil(t, h.pharmacy.SupplierID)
	assert.Equal(t, h.supplier.ID, *h.pharmacy.SupplierID)
	assert.NotEqual(t, "supersecret", h.pharmacy.PasswordHash)

	list, err := h.payments.GetPharmacyPayments(h.ctx, h.pharmacy.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.DefaultPaymentMethodName, list[0].MethodName)
	assert.Equal(t, "Cash on delivery", list[0].AccountDetails)
	assert.True(t, list[0].IsDefault)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	resp, err := h.auth.LoginPharmacist(h.ctx, LoginRequest{Email: "OWNER@corner.test", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, models.Session{Role: models.RolePharmacist, SubjectID: h.pharmacy.ID}, resp.Session)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = h.auth.LoginPharmacist(h.ctx, LoginRequest{Email: "owner@corner.test", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = h.auth.LoginSupplier(h.ctx, LoginRequest{Email: "owner@corner.test", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "a pharmacist cannot log in as supplier")

	sup, err := h.auth.SignupSupplier(h.ctx, SupplierSignupRequest{Name: "MedSupply", Email: "ms@supply.test", Password: "longenough"})
	require.NoError(t, err)
	resp, err = h.auth.LoginSupplier(h.ctx, LoginRequest{Email: "ms@supply.test", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, sup.Session, resp.Session)

	profile, err := h.auth.GetProfile(h.ctx, resp.Session)
	require.NoError(t, err)
	assert.Equal(t, "MedSupply", profile.(*models.Supplier).Name)
}

func TestDuplicateEmail(t *testing.T) {
	h := newHarness(t)

	_, err := h.auth.SignupPharmacist(h.ctx, PharmacistSignupRequest{
		Name: "Other", Email: "owner@corner.test", Password: "supersecret", Address: "2 Main St",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, 1, h.count("retail_pharmacies"))
	assert.Equal(t, 1, h.count("pharmacy_payments"), "signup rollback must drop the default payment too")

	_, err = h.auth.SignupSupplier(h.ctx, SupplierSignupRequest{Name: "Dup", Email: "orders@acme.test", Password: "longenough"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, 1, h.count("suppliers"))

	_, err = h.customers.CreateCustomer(h.ctx, CreateCustomerRequest{Name: "Ann", Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	_, err = h.customers.CreateCustomer(h.ctx, CreateCustomerRequest{Name: "Ann 2", Email: "ann@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, 1, h.count("customers"))
}

func TestSignupValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		req  SupplierSignupRequest
	}{
		{"bad email", SupplierSignupRequest{Name: "X", Email: "not-an-email", Password: "longenough"}},
		{"short password", SupplierSignupRequest{Name: "X", Email: "x@y.test", Password: "short"}},
		{"blank name", SupplierSignupRequest{Name: "  ", Email: "x@y.test", Password: "longenough"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.auth.SignupSupplier(h.ctx, tc.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
