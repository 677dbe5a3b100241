package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/lojaops/prestacoes_backend/internal/apperrors"
	"github.com/lojaops/prestacoes_backend/internal/core/domain"
	portsrepo "github.com/lojaops/prestacoes_backend/internal/core/ports/repositories"
	portssvc "github.com/lojaops/prestacoes_backend/internal/core/ports/services"
	"github.com/lojaops/prestacoes_backend/internal/core/services"
	"github.com/lojaops/prestacoes_backend/internal/dto"
)

// --- Mock ReportRepository ---
type MockReportRepository struct {
	mock.Mock
}

// Ensure MockReportRepository implements portsrepo.ReportRepositoryFacade
var _ portsrepo.ReportRepositoryFacade = (*MockReportRepository)(nil)

func (m *MockReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListReports(ctx context.Context, filter portsrepo.ReportFilter, limit int, nextToken *string) ([]domain.Report, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Report), returnedNextToken, args.Error(2)
}

func (m *MockReportRepository) ListReportsBySubmitter(ctx context.Context, submitterID string, limit int, nextToken *string) ([]domain.Report, *string, error) {
	args := m.Called(ctx, submitterID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Report), returnedNextToken, args.Error(2)
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report domain.Report, lines []domain.ExpenseLine) error {
	args := m.Called(ctx, report, lines)
	return args.Error(0)
}

func (m *MockReportRepository) UpdateReportStatus(ctx context.Context, reportID string, status domain.ReportStatus, approverID string, approvedAt time.Time) error {
	args := m.Called(ctx, reportID, status, approverID, approvedAt)
	return args.Error(0)
}

// --- Mock AdminAuthorizer ---
type MockAdminAuthorizer struct {
	mock.Mock
}

var _ portssvc.AdminAuthorizerSvc = (*MockAdminAuthorizer)(nil)

func (m *MockAdminAuthorizer) AuthorizeAdmin(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ReportServiceTestSuite struct {
	suite.Suite
	mockReportRepo *MockReportRepository
	mockAuthorizer *MockAdminAuthorizer
	service        portssvc.ReportSvcFacade
	submitterID    string
	adminID        string
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockAuthorizer = new(MockAdminAuthorizer)
	suite.service = services.NewReportService(suite.mockReportRepo, suite.mockAuthorizer)
	suite.submitterID = uuid.NewString()
	suite.adminID = uuid.NewString()
}

func (suite *ReportServiceTestSuite) validCreateRequest() dto.CreateReportRequest {
	return dto.CreateReportRequest{
		Date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Store:         "Loja Centro",
		Responsible:   "Maria Silva",
		DeclaredTotal: decimal.RequireFromString("80.00"),
		Expenses: []dto.CreateExpenseLineRequest{
			{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Description: "Material de limpeza", Value: decimal.RequireFromString("40.00")},
			{Date: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), Description: "Frete", Value: decimal.RequireFromString("40.00")},
		},
	}
}

// --- SubmitReport ---

func (suite *ReportServiceTestSuite) TestSubmitReport_Success() {
	ctx := context.Background()
	req := suite.validCreateRequest()

	suite.mockReportRepo.On("SaveReport", ctx, mock.AnythingOfType("domain.Report"), mock.AnythingOfType("[]domain.ExpenseLine")).Return(nil).Once()

	report, err := suite.service.SubmitReport(ctx, req, suite.submitterID)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.NotEmpty(report.ReportID)
	suite.Equal(suite.submitterID, report.SubmitterID)
	suite.Equal(domain.StatusPending, report.Status)
	suite.True(report.ComputedTotal.Equal(decimal.RequireFromString("80.00")))
	suite.False(report.Discrepancy())
	suite.Nil(report.ApproverID)
	suite.Nil(report.ApprovedAt)
	suite.Len(report.Expenses, 2)
	suite.Equal(report.ReportID, report.Expenses[0].ReportID)
	suite.Equal(suite.submitterID, report.CreatedBy)

	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSubmitReport_DiscrepancyDoesNotBlock() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.DeclaredTotal = decimal.RequireFromString("100.00") // lines sum to 80.00

	suite.mockReportRepo.On("SaveReport", ctx, mock.AnythingOfType("domain.Report"), mock.AnythingOfType("[]domain.ExpenseLine")).Return(nil).Once()

	report, err := suite.service.SubmitReport(ctx, req, suite.submitterID)

	suite.Require().NoError(err)
	suite.True(report.ComputedTotal.Equal(decimal.RequireFromString("80.00")))
	suite.True(report.DeclaredTotal.Equal(decimal.RequireFromString("100.00")))
	suite.True(report.Discrepancy())
	suite.Equal(domain.StatusPending, report.Status)

	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSubmitReport_NoLines() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.Expenses = nil

	_, err := suite.service.SubmitReport(ctx, req, suite.submitterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestSubmitReport_NegativeLineValue() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.Expenses[1].Value = decimal.RequireFromString("-5.00")

	_, err := suite.service.SubmitReport(ctx, req, suite.submitterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestSubmitReport_MissingStore() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.Store = ""

	_, err := suite.service.SubmitReport(ctx, req, suite.submitterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportServiceTestSuite) TestSubmitReport_EmptyDescriptionAllowed() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.Expenses[0].Description = ""

	suite.mockReportRepo.On("SaveReport", ctx, mock.AnythingOfType("domain.Report"), mock.AnythingOfType("[]domain.ExpenseLine")).Return(nil).Once()

	report, err := suite.service.SubmitReport(ctx, req, suite.submitterID)

	suite.Require().NoError(err)
	suite.Equal("", report.Expenses[0].Description)
	suite.True(report.ComputedTotal.Equal(decimal.RequireFromString("80.00")))
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestSubmitReport_MissingResponsible() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.Responsible = ""

	_, err := suite.service.SubmitReport(ctx, req, suite.submitterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportServiceTestSuite) TestSubmitReport_ZeroValueLineAllowed() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.Expenses[0].Value = decimal.Zero
	req.DeclaredTotal = decimal.RequireFromString("40.00")

	suite.mockReportRepo.On("SaveReport", ctx, mock.AnythingOfType("domain.Report"), mock.AnythingOfType("[]domain.ExpenseLine")).Return(nil).Once()

	report, err := suite.service.SubmitReport(ctx, req, suite.submitterID)

	suite.Require().NoError(err)
	suite.True(report.ComputedTotal.Equal(decimal.RequireFromString("40.00")))
	suite.mockReportRepo.AssertExpectations(suite.T())
}

// --- GetReportByID ---

func (suite *ReportServiceTestSuite) TestGetReportByID_Owner() {
	ctx := context.Background()
	report := &domain.Report{ReportID: uuid.NewString(), SubmitterID: suite.submitterID, Status: domain.StatusPending}

	suite.mockReportRepo.On("FindReportByID", ctx, report.ReportID).Return(report, nil).Once()

	got, err := suite.service.GetReportByID(ctx, report.ReportID, suite.submitterID)

	suite.Require().NoError(err)
	suite.Equal(report.ReportID, got.ReportID)
	suite.mockReportRepo.AssertExpectations(suite.T())
	suite.mockAuthorizer.AssertNotCalled(suite.T(), "AuthorizeAdmin", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestGetReportByID_AdminReadsOthers() {
	ctx := context.Background()
	report := &domain.Report{ReportID: uuid.NewString(), SubmitterID: suite.submitterID}

	suite.mockReportRepo.On("FindReportByID", ctx, report.ReportID).Return(report, nil).Once()
	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()

	got, err := suite.service.GetReportByID(ctx, report.ReportID, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(report.ReportID, got.ReportID)
	suite.mockReportRepo.AssertExpectations(suite.T())
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetReportByID_ForbiddenForStranger() {
	ctx := context.Background()
	strangerID := uuid.NewString()
	report := &domain.Report{ReportID: uuid.NewString(), SubmitterID: suite.submitterID}

	suite.mockReportRepo.On("FindReportByID", ctx, report.ReportID).Return(report, nil).Once()
	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, strangerID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.GetReportByID(ctx, report.ReportID, strangerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ReportServiceTestSuite) TestGetReportByID_NotFound() {
	ctx := context.Background()
	reportID := uuid.NewString()

	suite.mockReportRepo.On("FindReportByID", ctx, reportID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetReportByID(ctx, reportID, suite.submitterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ListReports ---

func (suite *ReportServiceTestSuite) TestListReports_Success() {
	ctx := context.Background()
	params := dto.ListReportsParams{Store: "Loja Centro", Status: "pending", Responsible: "mar"}

	reports := []domain.Report{
		{ReportID: uuid.NewString(), Store: "Loja Centro", Responsible: "Maria", Status: domain.StatusPending},
	}

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockReportRepo.On("ListReports", ctx, mock.MatchedBy(func(f portsrepo.ReportFilter) bool {
		return f.Store == "Loja Centro" && f.Status == domain.StatusPending && f.Responsible == "mar" && f.From == nil && f.To == nil
	}), 20, (*string)(nil)).Return(reports, nil, nil).Once()

	resp, err := suite.service.ListReports(ctx, params, suite.adminID)

	suite.Require().NoError(err)
	suite.Len(resp.Reports, 1)
	suite.Nil(resp.NextToken)
	suite.mockReportRepo.AssertExpectations(suite.T())
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestListReports_DateBounds() {
	ctx := context.Background()
	from := "2024-03-01"
	to := "2024-03-31"
	params := dto.ListReportsParams{From: &from, To: &to, Limit: 50}

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockReportRepo.On("ListReports", ctx, mock.MatchedBy(func(f portsrepo.ReportFilter) bool {
		return f.From != nil && f.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			f.To != nil && f.To.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	}), 50, (*string)(nil)).Return([]domain.Report{}, nil, nil).Once()

	_, err := suite.service.ListReports(ctx, params, suite.adminID)

	suite.Require().NoError(err)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestListReports_Forbidden() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.submitterID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ListReports(ctx, dto.ListReportsParams{}, suite.submitterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "ListReports", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestListReports_UnknownStatus() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()

	_, err := suite.service.ListReports(ctx, dto.ListReportsParams{Status: "archived"}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "ListReports", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestListReports_BadDate() {
	ctx := context.Background()
	bad := "15/03/2024"

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()

	_, err := suite.service.ListReports(ctx, dto.ListReportsParams{From: &bad}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportServiceTestSuite) TestListReports_InvertedDateRange() {
	ctx := context.Background()
	from := "2024-04-01"
	to := "2024-03-01"

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()

	_, err := suite.service.ListReports(ctx, dto.ListReportsParams{From: &from, To: &to}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ListReportsForExport ---

func (suite *ReportServiceTestSuite) TestListReportsForExport_WalksAllPages() {
	ctx := context.Background()
	pageOne := []domain.Report{{ReportID: uuid.NewString()}, {ReportID: uuid.NewString()}}
	pageTwo := []domain.Report{{ReportID: uuid.NewString()}}
	token := "next-page"

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockReportRepo.On("ListReports", ctx, mock.AnythingOfType("repositories.ReportFilter"), 500, (*string)(nil)).Return(pageOne, token, nil).Once()
	suite.mockReportRepo.On("ListReports", ctx, mock.AnythingOfType("repositories.ReportFilter"), 500, &token).Return(pageTwo, nil, nil).Once()

	all, err := suite.service.ListReportsForExport(ctx, dto.ListReportsParams{}, suite.adminID)

	suite.Require().NoError(err)
	suite.Len(all, 3)
	suite.Equal(pageOne[0].ReportID, all[0].ReportID)
	suite.Equal(pageTwo[0].ReportID, all[2].ReportID)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestListReportsForExport_Forbidden() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.submitterID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.ListReportsForExport(ctx, dto.ListReportsParams{}, suite.submitterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "ListReports", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- ListOwnReports ---

func (suite *ReportServiceTestSuite) TestListOwnReports_NoAdminCheck() {
	ctx := context.Background()
	reports := []domain.Report{{ReportID: uuid.NewString(), SubmitterID: suite.submitterID}}

	suite.mockReportRepo.On("ListReportsBySubmitter", ctx, suite.submitterID, 20, (*string)(nil)).Return(reports, nil, nil).Once()

	resp, err := suite.service.ListOwnReports(ctx, dto.ListOwnReportsParams{}, suite.submitterID)

	suite.Require().NoError(err)
	suite.Len(resp.Reports, 1)
	suite.mockAuthorizer.AssertNotCalled(suite.T(), "AuthorizeAdmin", mock.Anything, mock.Anything)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

// --- TransitionReport ---

func (suite *ReportServiceTestSuite) TestTransitionReport_Approve() {
	ctx := context.Background()
	report := &domain.Report{ReportID: uuid.NewString(), SubmitterID: suite.submitterID, Status: domain.StatusPending}

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockReportRepo.On("FindReportByID", ctx, report.ReportID).Return(report, nil).Once()
	suite.mockReportRepo.On("UpdateReportStatus", ctx, report.ReportID, domain.StatusApproved, suite.adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.TransitionReport(ctx, report.ReportID, domain.StatusApproved, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, updated.Status)
	suite.Require().NotNil(updated.ApproverID)
	suite.Equal(suite.adminID, *updated.ApproverID)
	suite.Require().NotNil(updated.ApprovedAt)
	suite.WithinDuration(time.Now().UTC(), *updated.ApprovedAt, 5*time.Second)

	suite.mockReportRepo.AssertExpectations(suite.T())
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestTransitionReport_Reject() {
	ctx := context.Background()
	report := &domain.Report{ReportID: uuid.NewString(), Status: domain.StatusPending}

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockReportRepo.On("FindReportByID", ctx, report.ReportID).Return(report, nil).Once()
	suite.mockReportRepo.On("UpdateReportStatus", ctx, report.ReportID, domain.StatusRejected, suite.adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.TransitionReport(ctx, report.ReportID, domain.StatusRejected, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, updated.Status)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestTransitionReport_Forbidden() {
	ctx := context.Background()
	reportID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.submitterID).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.TransitionReport(ctx, reportID, domain.StatusApproved, suite.submitterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "FindReportByID", mock.Anything, mock.Anything)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "UpdateReportStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestTransitionReport_PendingIsNotADecision() {
	ctx := context.Background()
	reportID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()

	_, err := suite.service.TransitionReport(ctx, reportID, domain.StatusPending, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "UpdateReportStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestTransitionReport_ReapplySameDecision() {
	ctx := context.Background()
	previousAdmin := uuid.NewString()
	approvedAt := time.Now().UTC().Add(-24 * time.Hour)
	report := &domain.Report{
		ReportID:   uuid.NewString(),
		Status:     domain.StatusApproved,
		ApproverID: &previousAdmin,
		ApprovedAt: &approvedAt,
	}

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockReportRepo.On("FindReportByID", ctx, report.ReportID).Return(report, nil).Once()
	suite.mockReportRepo.On("UpdateReportStatus", ctx, report.ReportID, domain.StatusApproved, suite.adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.TransitionReport(ctx, report.ReportID, domain.StatusApproved, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, updated.Status)
	suite.Equal(suite.adminID, *updated.ApproverID, "re-applying a decision records the latest approver")
	suite.True(updated.ApprovedAt.After(approvedAt), "re-applying a decision refreshes the timestamp")
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestTransitionReport_NotFound() {
	ctx := context.Background()
	reportID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockReportRepo.On("FindReportByID", ctx, reportID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.TransitionReport(ctx, reportID, domain.StatusRejected, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "UpdateReportStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Submit a report declaring 100.00 with lines summing to 80.00, then approve
// it: the mismatch is flagged but never blocks submission nor approval.
func (suite *ReportServiceTestSuite) TestSubmitThenApprove_WithDiscrepancy() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.DeclaredTotal = decimal.RequireFromString("100.00")

	suite.mockReportRepo.On("SaveReport", ctx, mock.AnythingOfType("domain.Report"), mock.AnythingOfType("[]domain.ExpenseLine")).Return(nil).Once()

	submitted, err := suite.service.SubmitReport(ctx, req, suite.submitterID)
	suite.Require().NoError(err)
	suite.True(submitted.Discrepancy())

	suite.mockAuthorizer.On("AuthorizeAdmin", ctx, suite.adminID).Return(nil).Once()
	suite.mockReportRepo.On("FindReportByID", ctx, submitted.ReportID).Return(submitted, nil).Once()
	suite.mockReportRepo.On("UpdateReportStatus", ctx, submitted.ReportID, domain.StatusApproved, suite.adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	approved, err := suite.service.TransitionReport(ctx, submitted.ReportID, domain.StatusApproved, suite.adminID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, approved.Status)
	suite.True(approved.Discrepancy(), "approval does not reconcile the totals")

	suite.mockReportRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestReportService(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
