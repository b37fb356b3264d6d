package handlers

import (
	"net/http"

	"meditrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// RestockHandler holds the restock service.
type RestockHandler struct {
	restockService services.RestockService
}

// NewRestockHandler creates a new RestockHandler.
func NewRestockHandler(rs services.RestockService) *RestockHandler {
	return &RestockHandler{restockService: rs}
}

// CreateRestock asks a supplier to replenish a low-stock drug.
func (h *RestockHandler) CreateRestock(c *gin.Context) {
	pharmacyID, ok := pharmacyIDOrAbort(c)
	if !ok {
		return
	}
	var req services.CreateRestockRequest
	if !bindJSON(c, &req, "CreateRestock") {
		return
	}

	result, err := h.restockService.CreateRestock(c.Request.Context(), pharmacyID, req)
	if err != nil {
		respondServiceError(c, err, "CreateRestock: Error from restockService.CreateRestock", "Failed to create restock order.")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetRestockOrders lists all restock orders.
func (h *RestockHandler) GetRestockOrders(c *gin.Context) {
	orders, err := h.restockService.GetRestockOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetRestockOrders: Error from restockService.GetRestockOrders", "Failed to fetch restock orders.")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ConfirmDelivery marks a restock order delivered by the session supplier.
func (h *RestockHandler) ConfirmDelivery(c *gin.Context) {
	supplierID, ok := supplierIDOrAbort(c)
	if !ok {
		return
	}
	restockID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.restockService.ConfirmDelivery(c.Request.Context(), supplierID, restockID)
	if err != nil {
		respondServiceError(c, err, "ConfirmDelivery: Error from restockService.ConfirmDelivery", "Failed to confirm delivery.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmTicketDelivery confirms the delivery of the restock order behind a ticket.
func (h *RestockHandler) ConfirmTicketDelivery(c *gin.Context) {
	supplierID, ok := supplierIDOrAbort(c)
	if !ok {
		return
	}
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.restockService.ConfirmTicketDelivery(c.Request.Context(), supplierID, ticketID)
	if err != nil {
		respondServiceError(c, err, "ConfirmTicketDelivery: Error from restockService.ConfirmTicketDelivery", "Failed to confirm delivery.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTickets lists tickets. Suppliers only see their own.
func (h *RestockHandler) GetTickets(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	tickets, err := h.restockService.GetTickets(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err, "GetTickets: Error from restockService.GetTickets", "Failed to fetch tickets.")
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// GetRestockNeeds lists low-stock drugs with the session supplier's restock orders.
func (h *RestockHandler) GetRestockNeeds(c *gin.Context) {
	supplierID, ok := supplierIDOrAbort(c)
	if !ok {
		return
	}
	needs, err := h.restockService.GetRestockNeeds(c.Request.Context(), supplierID)
	if err != nil {
		respondServiceError(c, err, "GetRestockNeeds: Error from restockService.GetRestockNeeds", "Failed to fetch restock needs.")
		return
	}
	c.JSON(http.StatusOK, needs)
}
