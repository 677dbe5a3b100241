package services

import (
	"github.com/lojaops/prestacoes_backend/internal/core/domain"
)

// ExportSvcFacade flattens reports into tabular rows and serializes them.
type ExportSvcFacade interface {
	// BuildRows produces one row per (report, expense line) pair; a report
	// without lines yields a single row with empty expense fields.
	BuildRows(reports []domain.Report) [][]string

	// ExportCSV serializes the reports to delimited text. An empty input
	// produces an empty string (export is a no-op, not an empty file).
	ExportCSV(reports []domain.Report) string
}
