package handlers

import (
	"net/http"

	"meditrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// PaymentHandler holds the payment service.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

func (h *PaymentHandler) GetPayments(c *gin.Context) {
	payments, err := h.paymentService.GetPayments(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetPayments: Error from paymentService.GetPayments", "Failed to fetch payments.")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) GetPaymentMethods(c *gin.Context) {
	methods, err := h.paymentService.GetPaymentMethods(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetPaymentMethods: Error from paymentService.GetPaymentMethods", "Failed to fetch payment methods.")
		return
	}
	c.JSON(http.StatusOK, methods)
}

// AddPharmacyPayment links a payment method to the session pharmacy.
func (h *PaymentHandler) AddPharmacyPayment(c *gin.Context) {
	pharmacyID, ok := pharmacyIDOrAbort(c)
	if !ok {
		return
	}
	var req services.AddPharmacyPaymentRequest
	if !bindJSON(c, &req, "AddPharmacyPayment") {
		return
	}
	payment, err := h.paymentService.AddPharmacyPayment(c.Request.Context(), pharmacyID, req)
	if err != nil {
		respondServiceError(c, err, "AddPharmacyPayment: Error from paymentService.AddPharmacyPayment", "Failed to add payment method.")
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) GetPharmacyPayments(c *gin.Context) {
	pharmacyID, ok := pharmacyIDOrAbort(c)
	if !ok {
		return
	}
	payments, err := h.paymentService.GetPharmacyPayments(c.Request.Context(), pharmacyID)
	if err != nil {
		respondServiceError(c, err, "GetPharmacyPayments: Error from paymentService.GetPharmacyPayments", "Failed to fetch pharmacy payment methods.")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetNotifications lists the session supplier's notifications, newest first.
func (h *PaymentHandler) GetNotifications(c *gin.Context) {
	supplierID, ok := supplierIDOrAbort(c)
	if !ok {
		return
	}
	notifications, err := h.paymentService.GetNotifications(c.Request.Context(), supplierID)
	if err != nil {
		respondServiceError(c, err, "GetNotifications: Error from paymentService.GetNotifications", "Failed to fetch notifications.")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *PaymentHandler) MarkNotificationsRead(c *gin.Context) {
	supplierID, ok := supplierIDOrAbort(c)
	if !ok {
		return
	}
	updated, err := h.paymentService.MarkNotificationsRead(c.Request.Context(), supplierID)
	if err != nil {
		respondServiceError(c, err, "MarkNotificationsRead: Error from paymentService.MarkNotificationsRead", "Failed to update notifications.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
