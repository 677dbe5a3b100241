package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lojaops/prestacoes_backend/internal/apperrors"
	"github.com/lojaops/prestacoes_backend/internal/core/domain"
	portsrepo "github.com/lojaops/prestacoes_backend/internal/core/ports/repositories"
	portssvc "github.com/lojaops/prestacoes_backend/internal/core/ports/services"
	"github.com/lojaops/prestacoes_backend/internal/dto"
	"github.com/lojaops/prestacoes_backend/internal/middleware"
)

var (
	ErrReportMinLines   = errors.New("report must have at least one expense line")
	ErrNegativeValue    = errors.New("expense value must not be negative")
	ErrStoreMissing     = errors.New("report store is required")
	ErrInvalidStatus    = errors.New("status is not a review decision")
	ErrInvalidDateRange = errors.New("from date must not be after to date")
)

// dateLayout is the wire format for filter date bounds.
const dateLayout = "2006-01-02"

// reportService implements submission, querying and review of expense reports.
type reportService struct {
	BaseService
	reportRepo portsrepo.ReportRepositoryFacade
}

// NewReportService creates a new report service.
func NewReportService(reportRepo portsrepo.ReportRepositoryFacade, adminAuthorizer portssvc.AdminAuthorizerSvc) portssvc.ReportSvcFacade {
	return &reportService{
		BaseService: BaseService{AdminAuthorizer: adminAuthorizer},
		reportRepo:  reportRepo,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// SubmitReport validates the draft, derives the computed total from the
// expense lines and persists everything in one database transaction. A
// declared/computed mismatch is flagged, never rejected.
func (s *reportService) SubmitReport(ctx context.Context, req dto.CreateReportRequest, submitterID string) (*domain.Report, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Store == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrStoreMissing)
	}
	if req.Responsible == "" {
		return nil, fmt.Errorf("%w: report responsible is required", apperrors.ErrValidation)
	}
	if len(req.Expenses) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrReportMinLines)
	}
	if req.DeclaredTotal.IsNegative() {
		return nil, fmt.Errorf("%w: declared total must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	reportID := uuid.NewString()

	lines := make([]domain.ExpenseLine, len(req.Expenses))
	for i, lineReq := range req.Expenses {
		if lineReq.Value.IsNegative() {
			return nil, fmt.Errorf("%w: %s (line %d)", apperrors.ErrValidation, ErrNegativeValue, i+1)
		}
		lines[i] = domain.ExpenseLine{
			ExpenseID:   uuid.NewString(),
			ReportID:    reportID,
			Date:        lineReq.Date,
			Description: lineReq.Description,
			Value:       lineReq.Value,
			ReceiptPath: lineReq.ReceiptPath,
		}
	}

	computedTotal := domain.ComputeTotal(lines)

	report := domain.Report{
		ReportID:      reportID,
		SubmitterID:   submitterID,
		Date:          req.Date,
		Store:         req.Store,
		Responsible:   req.Responsible,
		DeclaredTotal: req.DeclaredTotal,
		ComputedTotal: computedTotal,
		Status:        domain.StatusPending,
		Expenses:      lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     submitterID,
			LastUpdatedAt: now,
			LastUpdatedBy: submitterID,
		},
	}

	if report.Discrepancy() {
		logger.Info("declared total differs from computed total",
			slog.String("report_id", reportID),
			slog.String("declared", req.DeclaredTotal.String()),
			slog.String("computed", computedTotal.String()))
	}

	if err := s.reportRepo.SaveReport(ctx, report, lines); err != nil {
		s.LogError(ctx, err, "failed to save report", slog.String("report_id", reportID))
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	return &report, nil
}

// GetReportByID retrieves one report with its lines. Non-admins may only
// read their own submissions.
func (s *reportService) GetReportByID(ctx context.Context, reportID string, requestingUserID string) (*domain.Report, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "failed to find report", slog.String("report_id", reportID))
		return nil, fmt.Errorf("failed to find report %s: %w", reportID, err)
	}

	if report.SubmitterID != requestingUserID {
		if err := s.RequireAdmin(ctx, requestingUserID); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// ListReports runs the cross-submitter filter query. Admin only. All present
// criteria combine with AND; results come back newest first with lines
// attached.
func (s *reportService) ListReports(ctx context.Context, params dto.ListReportsParams, requestingUserID string) (*dto.ListReportsResponse, error) {
	if err := s.RequireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}

	filter, err := buildReportFilter(params)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	reports, nextToken, err := s.reportRepo.ListReports(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list reports")
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	resp := dto.ToListReportsResponse(reports, nextToken)
	return &resp, nil
}

// exportPageSize is the page size used when walking the full filtered set
// for an export.
const exportPageSize = 500

// ListReportsForExport walks every page of the filter query and returns the
// full working set as domain reports. Admin only.
func (s *reportService) ListReportsForExport(ctx context.Context, params dto.ListReportsParams, requestingUserID string) ([]domain.Report, error) {
	if err := s.RequireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}

	filter, err := buildReportFilter(params)
	if err != nil {
		return nil, err
	}

	var all []domain.Report
	var nextToken *string
	for {
		page, token, err := s.reportRepo.ListReports(ctx, filter, exportPageSize, nextToken)
		if err != nil {
			s.LogError(ctx, err, "failed to list reports for export")
			return nil, fmt.Errorf("failed to list reports for export: %w", err)
		}
		all = append(all, page...)
		if token == nil {
			return all, nil
		}
		nextToken = token
	}
}

// ListOwnReports lists the caller's own submissions, newest first.
func (s *reportService) ListOwnReports(ctx context.Context, params dto.ListOwnReportsParams, requestingUserID string) (*dto.ListReportsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	reports, nextToken, err := s.reportRepo.ListReportsBySubmitter(ctx, requestingUserID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list own reports", slog.String("user_id", requestingUserID))
		return nil, fmt.Errorf("failed to list reports for user %s: %w", requestingUserID, err)
	}

	resp := dto.ToListReportsResponse(reports, nextToken)
	return &resp, nil
}

// TransitionReport sets the review decision on a report as a single row
// update. Re-applying the current decision is allowed and refreshes the
// approver and timestamp.
func (s *reportService) TransitionReport(ctx context.Context, reportID string, newStatus domain.ReportStatus, approverUserID string) (*domain.Report, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.RequireAdmin(ctx, approverUserID); err != nil {
		logger.Warn("authorization failed for report transition",
			slog.String("user_id", approverUserID), slog.String("report_id", reportID))
		return nil, err
	}

	if !newStatus.IsDecision() {
		return nil, fmt.Errorf("%w: %s (%q)", apperrors.ErrValidation, ErrInvalidStatus, newStatus)
	}

	// Confirm the report exists before touching it so callers get a clean
	// not-found instead of a silent zero-row update.
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "failed to load report for transition", slog.String("report_id", reportID))
		return nil, fmt.Errorf("failed to load report %s: %w", reportID, err)
	}

	approvedAt := time.Now().UTC()
	if err := s.reportRepo.UpdateReportStatus(ctx, reportID, newStatus, approverUserID, approvedAt); err != nil {
		s.LogError(ctx, err, "failed to update report status", slog.String("report_id", reportID))
		return nil, fmt.Errorf("failed to update status of report %s: %w", reportID, err)
	}

	logger.Info("report status updated",
		slog.String("report_id", reportID),
		slog.String("from", string(report.Status)),
		slog.String("to", string(newStatus)),
		slog.String("approver_id", approverUserID))

	report.Status = newStatus
	report.ApproverID = &approverUserID
	report.ApprovedAt = &approvedAt
	report.LastUpdatedAt = approvedAt
	report.LastUpdatedBy = approverUserID
	return report, nil
}

// buildReportFilter translates the query params into repository criteria,
// validating status and date bounds on the way.
func buildReportFilter(params dto.ListReportsParams) (portsrepo.ReportFilter, error) {
	filter := portsrepo.ReportFilter{
		Store:       params.Store,
		Responsible: params.Responsible,
	}

	if params.Status != "" {
		status := domain.ReportStatus(params.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
		filter.Status = status
	}

	if params.From != nil && *params.From != "" {
		from, err := time.Parse(dateLayout, *params.From)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid from date %q", apperrors.ErrValidation, *params.From)
		}
		filter.From = &from
	}
	if params.To != nil && *params.To != "" {
		to, err := time.Parse(dateLayout, *params.To)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid to date %q", apperrors.ErrValidation, *params.To)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrInvalidDateRange)
	}

	return filter, nil
}
