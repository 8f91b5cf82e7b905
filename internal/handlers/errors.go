package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/middleware"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": msg}. Internal errors are logged and not described.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromContext(c)
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
	} else {
		logger.Warn("Rejected request to "+action, slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": apperrors.Message(err)})
}

// badRequest answers a malformed request.
func badRequest(c *gin.Context, msg string, err error) {
	middleware.GetLoggerFromContext(c).Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": msg + ": " + err.Error()})
}

// sellerFromContext returns the authenticated seller or answers 401.
func sellerFromContext(c *gin.Context) (string, bool) {
	sellerID, ok := middleware.GetSellerIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Error("Seller ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return sellerID, true
}
