package domain_test

import (
	"testing"

	"github.com/lojaops/prestacoes_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotal_Empty(t *testing.T) {
	assert.True(t, domain.ComputeTotal(nil).IsZero())
	assert.True(t, domain.ComputeTotal([]domain.ExpenseLine{}).IsZero())
}

func TestComputeTotal_SumsExactly(t *testing.T) {
	lines := []domain.ExpenseLine{
		{Value: decimal.RequireFromString("40.00")},
		{Value: decimal.RequireFromString("40.00")},
	}
	total := domain.ComputeTotal(lines)
	assert.True(t, total.Equal(decimal.RequireFromString("80.00")), "expected 80.00, got %s", total)
}

func TestComputeTotal_FractionalCents(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, not a float approximation.
	lines := []domain.ExpenseLine{
		{Value: decimal.RequireFromString("0.1")},
		{Value: decimal.RequireFromString("0.2")},
	}
	assert.True(t, domain.ComputeTotal(lines).Equal(decimal.RequireFromString("0.3")))
}

func TestDiscrepancy(t *testing.T) {
	r := domain.Report{
		DeclaredTotal: decimal.RequireFromString("100.00"),
		ComputedTotal: decimal.RequireFromString("80.00"),
	}
	assert.True(t, r.Discrepancy())

	// Equal values with different exponents are still equal.
	r.ComputedTotal = decimal.RequireFromString("100")
	assert.False(t, r.Discrepancy())
}

func TestReportStatus_IsDecision(t *testing.T) {
	assert.True(t, domain.StatusApproved.IsDecision())
	assert.True(t, domain.StatusRejected.IsDecision())
	assert.False(t, domain.StatusPending.IsDecision())
	assert.False(t, domain.ReportStatus("archived").IsDecision())
}

func TestReportStatus_IsValid(t *testing.T) {
	assert.True(t, domain.StatusPending.IsValid())
	assert.True(t, domain.StatusApproved.IsValid())
	assert.True(t, domain.StatusRejected.IsValid())
	assert.False(t, domain.ReportStatus("APPROVED").IsValid())
	assert.False(t, domain.ReportStatus("").IsValid())
}
