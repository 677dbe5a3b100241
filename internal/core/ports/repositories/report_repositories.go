package repositories

import (
	"context"
	"time"

	"github.com/lojaops/prestacoes_backend/internal/core/domain"
)

// ReportFilter holds the optional criteria of the admin listing. Zero values
// mean "no constraint"; present criteria are combined with logical AND.
type ReportFilter struct {
	Store       string              // exact match
	Status      domain.ReportStatus // exact match
	Responsible string              // case-insensitive substring match
	From        *time.Time          // date >= From (inclusive)
	To          *time.Time          // date <= To (inclusive)
}

// ReportReader defines read operations for report data. Reports are always
// returned with their full expense-line sequence attached.
type ReportReader interface {
	// FindReportByID retrieves a specific report with its expense lines.
	FindReportByID(ctx context.Context, reportID string) (*domain.Report, error)

	// ListReports retrieves reports matching the filter, newest first,
	// with keyset pagination.
	ListReports(ctx context.Context, filter ReportFilter, limit int, nextToken *string) ([]domain.Report, *string, error)

	// ListReportsBySubmitter retrieves a submitter's own reports, newest first.
	ListReportsBySubmitter(ctx context.Context, submitterID string, limit int, nextToken *string) ([]domain.Report, *string, error)
}

// ReportWriter defines write operations for report data.
type ReportWriter interface {
	// SaveReport persists a report together with its expense lines in a
	// single database transaction.
	SaveReport(ctx context.Context, report domain.Report, lines []domain.ExpenseLine) error

	// UpdateReportStatus applies a review decision as one row update.
	UpdateReportStatus(ctx context.Context, reportID string, status domain.ReportStatus, approverID string, approvedAt time.Time) error
}

// ReportRepositoryFacade combines all report-related repository interfaces.
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
}
