package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lojaops/prestacoes_backend/internal/apperrors"
	portssvc "github.com/lojaops/prestacoes_backend/internal/core/ports/services"
	"github.com/lojaops/prestacoes_backend/internal/dto"
	"github.com/lojaops/prestacoes_backend/internal/middleware"
)

// receiptHandler handles HTTP requests related to receipt files.
type receiptHandler struct {
	receiptService portssvc.ReceiptSvcFacade
}

// newReceiptHandler creates a new receiptHandler.
func newReceiptHandler(rs portssvc.ReceiptSvcFacade) *receiptHandler {
	return &receiptHandler{
		receiptService: rs,
	}
}

// registerReceiptRoutes registers all receipt-related routes.
func registerReceiptRoutes(rg *gin.RouterGroup, receiptService portssvc.ReceiptSvcFacade) {
	h := newReceiptHandler(receiptService)

	rg.POST("/receipts/upload-url", h.createUploadURL)
	rg.GET("/reports/:reportID/receipts", h.resolveReceiptURLs) // Admin only
}

// createUploadURL godoc
// @Summary Presign a receipt upload
// @Description Returns a presigned URL the client can PUT the receipt file to, plus the storage path to reference on the expense line
// @Tags receipts
// @Accept  json
// @Produce  json
// @Param   upload body dto.ReceiptUploadURLRequest true "File name and content type"
// @Success 200 {object} dto.ReceiptUploadURLResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /receipts/upload-url [post]
func (h *receiptHandler) createUploadURL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ReceiptUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.receiptService.CreateUploadURL(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create upload URL", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// resolveReceiptURLs godoc
// @Summary Resolve receipt URLs for a report
// @Description Returns a viewable URL for each expense line of a report; lines without receipts yield null. Admin only.
// @Tags receipts
// @Produce  json
// @Param   reportID path string true "Report ID"
// @Success 200 {array} dto.ReceiptURLResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Report not found"
// @Security BearerAuth
// @Router /reports/{reportID}/receipts [get]
func (h *receiptHandler) resolveReceiptURLs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	urls, err := h.receiptService.ResolveReceiptURLs(c.Request.Context(), reportID, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins may view receipts"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		default:
			logger.Error("Failed to resolve receipt URLs", slog.String("error", err.Error()), slog.String("report_id", reportID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve receipt URLs"})
		}
		return
	}

	c.JSON(http.StatusOK, urls)
}
