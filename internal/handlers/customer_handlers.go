package handlers

import (
	"net/http"

	"meditrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// CustomerHandler holds the customer service.
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

// CreateCustomer registers a customer.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if !bindJSON(c, &req, "CreateCustomer") {
		return
	}
	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateCustomer: Error from customerService.CreateCustomer", "Failed to create customer.")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomers lists all customers.
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	customers, err := h.customerService.GetCustomers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetCustomers: Error from customerService.GetCustomers", "Failed to fetch customers.")
		return
	}
	c.JSON(http.StatusOK, customers)
}
