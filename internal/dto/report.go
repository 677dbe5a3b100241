package dto

import (
	"time"

	"github.com/lojaops/prestacoes_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseLineRequest defines a single expense line within a report submission.
// Description may be empty.
type CreateExpenseLineRequest struct {
	Date        time.Time       `json:"date" binding:"required"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	ReceiptPath *string         `json:"receiptPath"` // Optional, set after a receipt upload
}

// CreateReportRequest defines the data needed to submit a new expense report.
type CreateReportRequest struct {
	Date          time.Time                  `json:"date" binding:"required"`
	Store         string                     `json:"store" binding:"required"`
	Responsible   string                     `json:"responsible" binding:"required"`
	DeclaredTotal decimal.Decimal            `json:"declaredTotal" binding:"required"`
	Expenses      []CreateExpenseLineRequest `json:"expenses" binding:"required,min=1,dive"`
}

// ExpenseLineResponse defines the data returned for an expense line.
type ExpenseLineResponse struct {
	ExpenseID   string          `json:"expenseID"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	ReceiptPath *string         `json:"receiptPath,omitempty"`
}

// ReportResponse defines the data returned for an expense report.
type ReportResponse struct {
	ReportID      string                `json:"reportID"`
	SubmitterID   string                `json:"submitterID"`
	Date          time.Time             `json:"date"`
	Store         string                `json:"store"`
	Responsible   string                `json:"responsible"`
	DeclaredTotal decimal.Decimal       `json:"declaredTotal"`
	ComputedTotal decimal.Decimal       `json:"computedTotal"`
	Discrepancy   bool                  `json:"discrepancy"`
	Status        domain.ReportStatus   `json:"status"`
	ApproverID    *string               `json:"approverID,omitempty"`
	ApprovedAt    *time.Time            `json:"approvedAt,omitempty"`
	Expenses      []ExpenseLineResponse `json:"expenses"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
}

// ListReportsParams defines query parameters for the filtered report listing.
// All criteria are optional and combine with AND semantics.
type ListReportsParams struct {
	Store       string  `form:"store"`
	Status      string  `form:"status"`
	Responsible string  `form:"responsible"`
	From        *string `form:"from"` // Inclusive report date lower bound, YYYY-MM-DD
	To          *string `form:"to"`   // Inclusive report date upper bound, YYYY-MM-DD
	Limit       int     `form:"limit,default=20"`
	NextToken   *string `form:"nextToken"`
}

// ListOwnReportsParams defines query parameters for listing the caller's own reports.
type ListOwnReportsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListReportsResponse wraps a page of reports with the pagination token.
type ListReportsResponse struct {
	Reports   []ReportResponse `json:"reports"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// TransitionReportRequest defines the decision applied to a pending report.
type TransitionReportRequest struct {
	Status domain.ReportStatus `json:"status" binding:"required,oneof=approved rejected"`
}

// ToExpenseLineResponse converts a domain.ExpenseLine to ExpenseLineResponse DTO.
func ToExpenseLineResponse(line *domain.ExpenseLine) ExpenseLineResponse {
	return ExpenseLineResponse{
		ExpenseID:   line.ExpenseID,
		Date:        line.Date,
		Description: line.Description,
		Value:       line.Value,
		ReceiptPath: line.ReceiptPath,
	}
}

// ToReportResponse converts a domain.Report to ReportResponse DTO.
func ToReportResponse(r *domain.Report) ReportResponse {
	lines := make([]ExpenseLineResponse, len(r.Expenses))
	for i, line := range r.Expenses {
		lines[i] = ToExpenseLineResponse(&line)
	}
	return ReportResponse{
		ReportID:      r.ReportID,
		SubmitterID:   r.SubmitterID,
		Date:          r.Date,
		Store:         r.Store,
		Responsible:   r.Responsible,
		DeclaredTotal: r.DeclaredTotal,
		ComputedTotal: r.ComputedTotal,
		Discrepancy:   r.Discrepancy(),
		Status:        r.Status,
		ApproverID:    r.ApproverID,
		ApprovedAt:    r.ApprovedAt,
		Expenses:      lines,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
	}
}

// ToListReportsResponse converts a page of domain reports to the list DTO.
func ToListReportsResponse(reports []domain.Report, nextToken *string) ListReportsResponse {
	responses := make([]ReportResponse, len(reports))
	for i, r := range reports {
		responses[i] = ToReportResponse(&r)
	}
	return ListReportsResponse{
		Reports:   responses,
		NextToken: nextToken,
	}
}
