package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportStatus indicates the review state of an expense report.
// Values are stored lowercase, matching the original prestacoes data.
type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusApproved ReportStatus = "approved"
	StatusRejected ReportStatus = "rejected"
)

// IsDecision reports whether s is a status an administrator may set on review.
func (s ReportStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsValid reports whether s is one of the known report statuses.
func (s ReportStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ExpenseLine represents one itemized expense ("despesa") inside a report.
// Lines have no lifecycle of their own; they are created with the parent
// report and are immutable once persisted.
type ExpenseLine struct {
	ExpenseID   string          `json:"expenseID"` // Primary Key (UUID)
	ReportID    string          `json:"reportID"`  // FK -> Report.reportID
	Date        time.Time       `json:"date"`      // Calendar date of the expense
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`                 // Non-negative monetary amount
	ReceiptPath *string         `json:"receiptPath,omitempty"` // Blob storage path, nil when no receipt attached
}

// Report represents one submitted expense account ("prestacao") for a
// store/period/responsible party.
type Report struct {
	ReportID      string          `json:"reportID"` // Primary Key (UUID)
	SubmitterID   string          `json:"submitterID"`
	Date          time.Time       `json:"date"`
	Store         string          `json:"store"`
	Responsible   string          `json:"responsible"`
	DeclaredTotal decimal.Decimal `json:"declaredTotal"`
	ComputedTotal decimal.Decimal `json:"computedTotal"` // Always the sum of Expenses at persistence time
	Status        ReportStatus    `json:"status"`
	ApproverID    *string         `json:"approverID,omitempty"` // Set together with ApprovedAt on transition
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	Expenses      []ExpenseLine   `json:"expenses"` // Insertion order, meaningful for display only
	AuditFields
}

// ComputeTotal sums the values of the given expense lines using exact
// decimal arithmetic. An empty sequence yields zero.
func ComputeTotal(lines []ExpenseLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Value)
	}
	return total
}

// Discrepancy reports whether the declared total disagrees with the computed
// total. A discrepancy never blocks persistence; it is surfaced for the
// administrator's review.
func (r *Report) Discrepancy() bool {
	return !r.DeclaredTotal.Equal(r.ComputedTotal)
}
