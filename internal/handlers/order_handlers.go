package handlers

import (
	"net/http"

	"meditrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// PlaceOrder handles placing an order for a single drug by the session pharmacy.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	pharmacyID, ok := pharmacyIDOrAbort(c)
	if !ok {
		return
	}
	var req services.PlaceOrderRequest
	if !bindJSON(c, &req, "PlaceOrder") {
		return
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), pharmacyID, req)
	if err != nil {
		respondServiceError(c, err, "PlaceOrder: Error from orderService.PlaceOrder", "Failed to place order.")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetOrders handles fetching all orders.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.orderService.GetOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetOrders: Error from orderService.GetOrders", "Failed to fetch orders.")
		return
	}
	c.JSON(http.StatusOK, orders)
}
