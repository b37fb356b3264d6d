package handlers

import (
	"net/http"

	"meditrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// SignupPharmacist registers a retail pharmacy and logs it in.
func (h *AuthHandler) SignupPharmacist(c *gin.Context) {
	var req services.PharmacistSignupRequest
	if !bindJSON(c, &req, "SignupPharmacist") {
		return
	}
	resp, err := h.authService.SignupPharmacist(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "SignupPharmacist: Error from authService.SignupPharmacist", "Failed to create pharmacy account.")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SignupSupplier registers a supplier and logs it in.
func (h *AuthHandler) SignupSupplier(c *gin.Context) {
	var req services.SupplierSignupRequest
	if !bindJSON(c, &req, "SignupSupplier") {
		return
	}
	resp, err := h.authService.SignupSupplier(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "SignupSupplier: Error from authService.SignupSupplier", "Failed to create supplier account.")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginPharmacist handles retail pharmacist login.
func (h *AuthHandler) LoginPharmacist(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req, "LoginPharmacist") {
		return
	}
	resp, err := h.authService.LoginPharmacist(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "LoginPharmacist: Error from authService.LoginPharmacist", "Failed to login.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LoginSupplier handles supplier login.
func (h *AuthHandler) LoginSupplier(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req, "LoginSupplier") {
		return
	}
	resp, err := h.authService.LoginSupplier(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "LoginSupplier: Error from authService.LoginSupplier", "Failed to login.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCurrentUser returns the session and the account behind it.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	account, err := h.authService.GetProfile(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err, "GetCurrentUser: Error from authService.GetProfile", "Failed to retrieve profile.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "account": account})
}

// Logout acknowledges a logout. Tokens are stateless; the client discards its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully. Please discard your token."})
}
