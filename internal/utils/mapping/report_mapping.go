package mapping

import (
	"database/sql"

	"github.com/lojaops/prestacoes_backend/internal/core/domain"
	"github.com/lojaops/prestacoes_backend/internal/models"
)

// ToModelReport converts a domain Report to a model Report
func ToModelReport(d domain.Report) models.Report {
	m := models.Report{
		ReportID:      d.ReportID,
		SubmitterID:   d.SubmitterID,
		Date:          d.Date,
		Store:         d.Store,
		Responsible:   d.Responsible,
		DeclaredTotal: d.DeclaredTotal,
		ComputedTotal: d.ComputedTotal,
		Status:        models.ReportStatus(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.ApproverID != nil {
		m.ApproverID = sql.NullString{String: *d.ApproverID, Valid: true}
	}
	if d.ApprovedAt != nil {
		m.ApprovedAt = sql.NullTime{Time: *d.ApprovedAt, Valid: true}
	}
	return m
}

// ToDomainReport converts a model Report to a domain Report
func ToDomainReport(m models.Report) domain.Report {
	d := domain.Report{
		ReportID:      m.ReportID,
		SubmitterID:   m.SubmitterID,
		Date:          m.Date,
		Store:         m.Store,
		Responsible:   m.Responsible,
		DeclaredTotal: m.DeclaredTotal,
		ComputedTotal: m.ComputedTotal,
		Status:        domain.ReportStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.ApproverID.Valid {
		approverID := m.ApproverID.String
		d.ApproverID = &approverID
	}
	if m.ApprovedAt.Valid {
		approvedAt := m.ApprovedAt.Time
		d.ApprovedAt = &approvedAt
	}
	return d
}

// ToModelExpenseLine converts a domain ExpenseLine to a model ExpenseLine
func ToModelExpenseLine(d domain.ExpenseLine) models.ExpenseLine {
	m := models.ExpenseLine{
		ExpenseID:   d.ExpenseID,
		ReportID:    d.ReportID,
		Date:        d.Date,
		Description: d.Description,
		Value:       d.Value,
	}
	if d.ReceiptPath != nil {
		m.ReceiptPath = sql.NullString{String: *d.ReceiptPath, Valid: true}
	}
	return m
}

// ToDomainExpenseLine converts a model ExpenseLine to a domain ExpenseLine
func ToDomainExpenseLine(m models.ExpenseLine) domain.ExpenseLine {
	d := domain.ExpenseLine{
		ExpenseID:   m.ExpenseID,
		ReportID:    m.ReportID,
		Date:        m.Date,
		Description: m.Description,
		Value:       m.Value,
	}
	if m.ReceiptPath.Valid {
		path := m.ReceiptPath.String
		d.ReceiptPath = &path
	}
	return d
}

// ToDomainExpenseLineSlice converts a slice of model ExpenseLines to domain ExpenseLines
func ToDomainExpenseLineSlice(ms []models.ExpenseLine) []domain.ExpenseLine {
	ds := make([]domain.ExpenseLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpenseLine(m)
	}
	return ds
}
