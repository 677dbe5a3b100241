package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lojaops/prestacoes_backend/internal/apperrors"
	portssvc "github.com/lojaops/prestacoes_backend/internal/core/ports/services"
	"github.com/lojaops/prestacoes_backend/internal/dto"
	"github.com/lojaops/prestacoes_backend/internal/middleware"
)

// reportHandler handles HTTP requests related to expense reports.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
	exportService portssvc.ExportSvcFacade
}

// newReportHandler creates a new reportHandler.
func newReportHandler(rs portssvc.ReportSvcFacade, es portssvc.ExportSvcFacade) *reportHandler {
	return &reportHandler{
		reportService: rs,
		exportService: es,
	}
}

// RegisterReportRoutes registers all report-related routes.
func RegisterReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade, exportService portssvc.ExportSvcFacade) {
	h := newReportHandler(reportService, exportService)

	reports := rg.Group("/reports")
	{
		reports.POST("", h.submitReport)
		reports.GET("", h.listReports)          // Admin only
		reports.GET("/export", h.exportReports) // Admin only
		reports.GET("/mine", h.listOwnReports)
		reports.GET("/:reportID", h.getReport)
		reports.PUT("/:reportID/status", h.transitionReport) // Admin only
	}
}

// submitReport godoc
// @Summary Submit an expense report
// @Description Persists a new report with its expense lines; the computed total is derived from the lines
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   report body dto.CreateReportRequest true "Report with expense lines"
// @Success 201 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports [post]
func (h *reportHandler) submitReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for submit report", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	submitterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.reportService.SubmitReport(c.Request.Context(), req, submitterID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error submitting report", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to submit report in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
		return
	}

	logger.Info("Report submitted", slog.String("report_id", report.ReportID))
	c.JSON(http.StatusCreated, dto.ToReportResponse(report))
}

// getReport godoc
// @Summary Get a report
// @Description Retrieves a report with its expense lines; submitters see their own, admins any
// @Tags reports
// @Produce  json
// @Param   reportID path string true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Report not found"
// @Security BearerAuth
// @Router /reports/{reportID} [get]
func (h *reportHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.reportService.GetReportByID(c.Request.Context(), reportID, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			logger.Error("Failed to get report from service", slog.String("error", err.Error()), slog.String("report_id", reportID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// listReports godoc
// @Summary List expense reports
// @Description Lists reports matching the filter criteria, newest first. Admin only.
// @Tags reports
// @Produce  json
// @Param   store query string false "Exact store match"
// @Param   status query string false "Status match (pending/approved/rejected)"
// @Param   responsible query string false "Case-insensitive substring match"
// @Param   from query string false "Inclusive date lower bound (YYYY-MM-DD)"
// @Param   to query string false "Inclusive date upper bound (YYYY-MM-DD)"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListReportsResponse
// @Failure 400 {object} map[string]string "Invalid criteria"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /reports [get]
func (h *reportHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListReportsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.reportService.ListReports(c.Request.Context(), params, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to list reports from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listOwnReports godoc
// @Summary List own expense reports
// @Description Lists the caller's own reports, newest first
// @Tags reports
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListReportsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/mine [get]
func (h *reportHandler) listOwnReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListOwnReportsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.reportService.ListOwnReports(c.Request.Context(), params, requestingUserID)
	if err != nil {
		logger.Error("Failed to list own reports from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// transitionReport godoc
// @Summary Set the review decision on a report
// @Description Approves or rejects a report, recording the deciding admin and timestamp. Admin only.
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   reportID path string true "Report ID"
// @Param   decision body dto.TransitionReportRequest true "Review decision"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} map[string]string "Invalid decision"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Report not found"
// @Security BearerAuth
// @Router /reports/{reportID}/status [put]
func (h *reportHandler) transitionReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	approverUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.TransitionReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.reportService.TransitionReport(c.Request.Context(), reportID, req.Status, approverUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admins may review reports"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		default:
			logger.Error("Failed to transition report in service", slog.String("error", err.Error()), slog.String("report_id", reportID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update report status"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// exportReports godoc
// @Summary Export filtered reports as CSV
// @Description Runs the filter query and streams the result as a CSV attachment. Admin only. An empty result yields 204.
// @Tags reports
// @Produce  text/csv
// @Param   store query string false "Exact store match"
// @Param   status query string false "Status match (pending/approved/rejected)"
// @Param   responsible query string false "Case-insensitive substring match"
// @Param   from query string false "Inclusive date lower bound (YYYY-MM-DD)"
// @Param   to query string false "Inclusive date upper bound (YYYY-MM-DD)"
// @Success 200 {string} string "CSV content"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /reports/export [get]
func (h *reportHandler) exportReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListReportsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	reports, err := h.reportService.ListReportsForExport(c.Request.Context(), params, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to list reports for export", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export reports"})
		}
		return
	}

	csv := h.exportService.ExportCSV(reports)
	if csv == "" {
		c.Status(http.StatusNoContent)
		return
	}

	filename := fmt.Sprintf("report_%s.csv", time.Now().UTC().Format(time.RFC3339))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
