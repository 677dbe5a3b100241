package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ReportStatus mirrors domain.ReportStatus at the persistence layer.
type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusApproved ReportStatus = "approved"
	StatusRejected ReportStatus = "rejected"
)

// Report represents a row of the prestacoes table.
type Report struct {
	ReportID      string          `db:"report_id"`
	SubmitterID   string          `db:"submitter_id"`
	Date          time.Time       `db:"date"`
	Store         string          `db:"store"`
	Responsible   string          `db:"responsible"`
	DeclaredTotal decimal.Decimal `db:"declared_total"`
	ComputedTotal decimal.Decimal `db:"computed_total"`
	Status        ReportStatus    `db:"status"`
	ApproverID    sql.NullString  `db:"approver_id"`
	ApprovedAt    sql.NullTime    `db:"approved_at"`
	AuditFields
}

// ExpenseLine represents a row of the despesas table.
type ExpenseLine struct {
	ExpenseID   string          `db:"expense_id"`
	ReportID    string          `db:"report_id"`
	Date        time.Time       `db:"date"`
	Description string          `db:"description"`
	Value       decimal.Decimal `db:"value"`
	ReceiptPath sql.NullString  `db:"receipt_path"`
}
