package handlers

import (
	"net/http"

	"meditrack_backend/internal/models"
	"meditrack_backend/internal/services"
	"meditrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler holds the catalog service.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

// GetDrugs lists the whole catalog.
func (h *CatalogHandler) GetDrugs(c *gin.Context) {
	drugs, err := h.catalogService.GetDrugs(c.Request.Context(), models.DrugFilters{})
	if err != nil {
		respondServiceError(c, err, "GetDrugs: Error from catalogService.GetDrugs", "Failed to fetch drugs.")
		return
	}
	c.JSON(http.StatusOK, drugs)
}

// SearchDrugs lists drugs matching the query filters (id, name, min_price, max_price, discontinued).
func (h *CatalogHandler) SearchDrugs(c *gin.Context) {
	var filters models.DrugFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid drug filters.", err.Error()))
		return
	}
	drugs, err := h.catalogService.GetDrugs(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "SearchDrugs: Error from catalogService.GetDrugs", "Failed to search drugs.")
		return
	}
	c.JSON(http.StatusOK, drugs)
}

// GetLowStockDrugs lists drugs needing a restock.
func (h *CatalogHandler) GetLowStockDrugs(c *gin.Context) {
	drugs, err := h.catalogService.GetLowStockDrugs(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetLowStockDrugs: Error from catalogService.GetLowStockDrugs", "Failed to fetch low stock drugs.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"threshold": models.LowStockThreshold, "drugs": drugs})
}

// GetStockMovements lists the stock changes of a drug.
func (h *CatalogHandler) GetStockMovements(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	movements, err := h.catalogService.GetStockMovements(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "GetStockMovements: Error from catalogService.GetStockMovements", "Failed to fetch stock movements.")
		return
	}
	c.JSON(http.StatusOK, movements)
}

// CreateDrug adds a drug to the catalog.
func (h *CatalogHandler) CreateDrug(c *gin.Context) {
	var req services.CreateDrugRequest
	if !bindJSON(c, &req, "CreateDrug") {
		return
	}
	drug, err := h.catalogService.AddDrug(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "CreateDrug: Error from catalogService.AddDrug", "Failed to add drug.")
		return
	}
	c.JSON(http.StatusCreated, drug)
}

// GetSuppliers lists suppliers by priority.
func (h *CatalogHandler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.catalogService.GetSuppliers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetSuppliers: Error from catalogService.GetSuppliers", "Failed to fetch suppliers.")
		return
	}
	c.JSON(http.StatusOK, suppliers)
}
