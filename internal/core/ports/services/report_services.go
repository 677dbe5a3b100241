package services

import (
	"context"

	"github.com/lojaops/prestacoes_backend/internal/core/domain"
	"github.com/lojaops/prestacoes_backend/internal/dto"
)

// ReportSubmitterSvc defines the submission side of the report engine.
type ReportSubmitterSvc interface {
	// SubmitReport validates the draft, derives the computed total and
	// persists the report with its expense lines atomically. The report
	// enters the pending state; a declared/computed mismatch never blocks.
	SubmitReport(ctx context.Context, req dto.CreateReportRequest, submitterID string) (*domain.Report, error)
}

// ReportReaderSvc defines the query side of the report engine.
type ReportReaderSvc interface {
	// GetReportByID retrieves one report with its lines. Submitters may only
	// read their own reports; admins may read any.
	GetReportByID(ctx context.Context, reportID string, requestingUserID string) (*domain.Report, error)

	// ListReports runs the admin filter query: all present criteria ANDed,
	// newest first, expense lines eagerly attached.
	ListReports(ctx context.Context, params dto.ListReportsParams, requestingUserID string) (*dto.ListReportsResponse, error)

	// ListOwnReports lists the requesting user's own reports, newest first.
	ListOwnReports(ctx context.Context, params dto.ListOwnReportsParams, requestingUserID string) (*dto.ListReportsResponse, error)

	// ListReportsForExport runs the same filter query unpaginated, walking
	// every page, for serialization by the exporter. Admin only.
	ListReportsForExport(ctx context.Context, params dto.ListReportsParams, requestingUserID string) ([]domain.Report, error)
}

// ReportReviewerSvc defines the approval state machine.
type ReportReviewerSvc interface {
	// TransitionReport sets the review decision on a report. Admin only.
	// Re-applying the current status is permitted and overwrites
	// approver/timestamp ("set decision", not "record first decision").
	TransitionReport(ctx context.Context, reportID string, newStatus domain.ReportStatus, approverUserID string) (*domain.Report, error)
}

// ReportSvcFacade combines all report-related service interfaces.
type ReportSvcFacade interface {
	ReportSubmitterSvc
	ReportReaderSvc
	ReportReviewerSvc
}
