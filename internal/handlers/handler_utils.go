package handlers

import (
	"errors"
	"net/http"

	"meditrack_backend/internal/middleware"
	"meditrack_backend/internal/models"
	"meditrack_backend/internal/services"
	"meditrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError logs err and writes the matching API error envelope.
// fallback is the message used for unexpected failures.
func respondServiceError(c *gin.Context, err error, logMessage, fallback string) {
	utils.LogError(err, logMessage)

	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, capitalize(notFoundMessage(err)), err.Error()))
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeInsufficientStock, "Insufficient stock for this order.", err.Error()))
	case errors.Is(err, services.ErrDuplicateEmail):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeDuplicateEmail, "An account with this email already exists.", err.Error()))
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "The request conflicts with the current state of the resource.", err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password.", ""))
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You are not allowed to perform this operation.", err.Error()))
	case errors.Is(err, services.ErrPersistence):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodePersistence, fallback, "Internal error"))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

var notFoundErrors = []error{
	services.ErrDrugNotFound,
	services.ErrSupplierNotFound,
	services.ErrPharmacyNotFound,
	services.ErrRestockNotFound,
	services.ErrTicketNotFound,
	services.ErrPaymentMethodNotFound,
}

func notFoundMessage(err error) string {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return target.Error() + "."
		}
	}
	return "Resource not found."
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// parseIDParam reads a positive integer path parameter, answering 400 when it is not one.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" parameter.", c.Param(name)))
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into req, answering 400 on failure.
func bindJSON(c *gin.Context, req interface{}, handlerName string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.LogError(err, handlerName+": Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return false
	}
	return true
}

func sessionOrAbort(c *gin.Context) (models.Session, bool) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", "Missing session in context"))
	}
	return session, ok
}

func pharmacyIDOrAbort(c *gin.Context) (int64, bool) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return 0, false
	}
	id, ok := session.PharmacyID()
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Only retail pharmacists can perform this operation.", ""))
	}
	return id, ok
}

func supplierIDOrAbort(c *gin.Context) (int64, bool) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return 0, false
	}
	id, ok := session.SupplierID()
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Only suppliers can perform this operation.", ""))
	}
	return id, ok
}
