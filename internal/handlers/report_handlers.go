package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"meditrack_backend/internal/models"
	"meditrack_backend/internal/reports"
	"meditrack_backend/internal/services"
	"meditrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetReport runs a filtered report over one table.
// Query: filter, value, min, max, start, end (YYYY-MM-DD), format (json|pdf|xlsx).
func (h *ReportHandler) GetReport(c *gin.Context) {
	var req models.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.LogError(err, "GetReport: Failed to bind query")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid report parameters.", err.Error()))
		return
	}
	req.Type = models.ReportType(c.Param("type"))
	format := strings.ToLower(req.Format)
	if format == "" {
		format = reports.FormatJSON
	}

	switch format {
	case reports.FormatJSON, reports.FormatPDF, reports.FormatXLSX:
	default:
		utils.RespondValidationFailed(c, "unsupported report format "+format)
		return
	}

	result, err := h.reportService.GenerateReport(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "GetReport: Error from reportService.GenerateReport", "Failed to generate report.")
		return
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case reports.FormatPDF:
		body, err = reports.RenderPDF(*result)
		contentType = reports.ContentTypePDF
	case reports.FormatXLSX:
		body, err = reports.RenderXLSX(*result)
		contentType = reports.ContentTypeXLSX
	default:
		c.JSON(http.StatusOK, result)
		return
	}
	if err != nil {
		utils.LogError(err, "GetReport: Failed to render report")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to render report.", "Internal error"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, reports.FileName(*result, format)))
	c.Data(http.StatusOK, contentType, body)
}

// GetDashboard returns the dashboard of the session's role.
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if supplierID, isSupplier := session.SupplierID(); isSupplier {
		dashboard, err := h.reportService.GetSupplierDashboard(c.Request.Context(), supplierID)
		if err != nil {
			respondServiceError(c, err, "GetDashboard: Error from reportService.GetSupplierDashboard", "Failed to load dashboard.")
			return
		}
		c.JSON(http.StatusOK, dashboard)
		return
	}

	dashboard, err := h.reportService.GetPharmacistDashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetDashboard: Error from reportService.GetPharmacistDashboard", "Failed to load dashboard.")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
