package services

import (
	"strings"

	"github.com/lojaops/prestacoes_backend/internal/core/domain"
	portssvc "github.com/lojaops/prestacoes_backend/internal/core/ports/services"
)

// exportHeaders is the fixed column order of the report export.
var exportHeaders = []string{
	"id", "date", "store", "responsible", "status",
	"declared_total", "computed_total",
	"expense_date", "expense_desc", "expense_value",
}

// exportService flattens reports into rows and serializes them as CSV.
// Every data field is wrapped in double quotes, with embedded quotes doubled.
type exportService struct {
	BaseService
}

// NewExportService creates a new export service.
func NewExportService() portssvc.ExportSvcFacade {
	return &exportService{}
}

var _ portssvc.ExportSvcFacade = (*exportService)(nil)

// BuildRows produces one row per (report, expense line) pair. A report
// without lines yields a single row with empty expense fields so it still
// shows up in the export.
func (s *exportService) BuildRows(reports []domain.Report) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		base := []string{
			r.ReportID,
			r.Date.Format(dateLayout),
			r.Store,
			r.Responsible,
			string(r.Status),
			r.DeclaredTotal.String(),
			r.ComputedTotal.String(),
		}
		if len(r.Expenses) == 0 {
			row := make([]string, 0, len(exportHeaders))
			row = append(row, base...)
			row = append(row, "", "", "")
			rows = append(rows, row)
			continue
		}
		for _, line := range r.Expenses {
			row := make([]string, 0, len(exportHeaders))
			row = append(row, base...)
			row = append(row, line.Date.Format(dateLayout), line.Description, line.Value.String())
			rows = append(rows, row)
		}
	}
	return rows
}

// ExportCSV serializes the reports to CSV text. An empty input produces an
// empty string: the export is a no-op, not an empty file.
func (s *exportService) ExportCSV(reports []domain.Report) string {
	rows := s.BuildRows(reports)
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportHeaders, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}
