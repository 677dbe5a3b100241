package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/lojaops/prestacoes_backend/internal/apperrors"
	"github.com/lojaops/prestacoes_backend/internal/core/domain"
	portssvc "github.com/lojaops/prestacoes_backend/internal/core/ports/services"
	"github.com/lojaops/prestacoes_backend/internal/dto"
	"github.com/lojaops/prestacoes_backend/internal/handlers"
	"github.com/lojaops/prestacoes_backend/internal/middleware"
)

// --- Mock ReportService ---
type MockReportService struct {
	mock.Mock
}

var _ portssvc.ReportSvcFacade = (*MockReportService)(nil)

func (m *MockReportService) SubmitReport(ctx context.Context, req dto.CreateReportRequest, submitterID string) (*domain.Report, error) {
	args := m.Called(ctx, req, submitterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) GetReportByID(ctx context.Context, reportID string, requestingUserID string) (*domain.Report, error) {
	args := m.Called(ctx, reportID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) ListReports(ctx context.Context, params dto.ListReportsParams, requestingUserID string) (*dto.ListReportsResponse, error) {
	args := m.Called(ctx, params, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListReportsResponse), args.Error(1)
}

func (m *MockReportService) ListOwnReports(ctx context.Context, params dto.ListOwnReportsParams, requestingUserID string) (*dto.ListReportsResponse, error) {
	args := m.Called(ctx, params, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListReportsResponse), args.Error(1)
}

func (m *MockReportService) ListReportsForExport(ctx context.Context, params dto.ListReportsParams, requestingUserID string) ([]domain.Report, error) {
	args := m.Called(ctx, params, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportService) TransitionReport(ctx context.Context, reportID string, newStatus domain.ReportStatus, approverUserID string) (*domain.Report, error) {
	args := m.Called(ctx, reportID, newStatus, approverUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

// --- Mock ExportService ---
type MockExportService struct {
	mock.Mock
}

var _ portssvc.ExportSvcFacade = (*MockExportService)(nil)

func (m *MockExportService) BuildRows(reports []domain.Report) [][]string {
	args := m.Called(reports)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([][]string)
}

func (m *MockExportService) ExportCSV(reports []domain.Report) string {
	args := m.Called(reports)
	return args.String(0)
}

// --- Test Suite Setup ---
type ReportHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockReportService *MockReportService
	mockExportService *MockExportService
	jwtSecret         string
}

func (suite *ReportHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "prestacoes-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ReportHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockReportService = new(MockReportService)
	suite.mockExportService = new(MockExportService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterReportRoutes(v1, suite.mockReportService, suite.mockExportService)
}

func (suite *ReportHandlerTestSuite) doRequest(method, url, userID string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ReportHandlerTestSuite) TestSubmitReport_Success() {
	submitterID := uuid.NewString()
	reqBody := dto.CreateReportRequest{
		Date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Store:         "Loja Centro",
		Responsible:   "Maria Silva",
		DeclaredTotal: decimal.RequireFromString("80.00"),
		Expenses: []dto.CreateExpenseLineRequest{
			{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Description: "Frete", Value: decimal.RequireFromString("80.00")},
		},
	}
	body, _ := json.Marshal(reqBody)

	returned := &domain.Report{
		ReportID:      uuid.NewString(),
		SubmitterID:   submitterID,
		Date:          reqBody.Date,
		Store:         reqBody.Store,
		Responsible:   reqBody.Responsible,
		DeclaredTotal: reqBody.DeclaredTotal,
		ComputedTotal: reqBody.DeclaredTotal,
		Status:        domain.StatusPending,
	}

	suite.mockReportService.On("SubmitReport",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(r dto.CreateReportRequest) bool {
			return r.Store == reqBody.Store && len(r.Expenses) == 1
		}),
		submitterID,
	).Return(returned, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/reports", submitterID, body)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.ReportResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(returned.ReportID, resp.ReportID)
	suite.Equal(domain.StatusPending, resp.Status)
	suite.False(resp.Discrepancy)

	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestSubmitReport_MissingToken() {
	w := suite.doRequest(http.MethodPost, "/api/v1/reports", "", []byte(`{}`))

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockReportService.AssertNotCalled(suite.T(), "SubmitReport", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportHandlerTestSuite) TestSubmitReport_MalformedBody() {
	w := suite.doRequest(http.MethodPost, "/api/v1/reports", uuid.NewString(), []byte(`{"store":`))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReportService.AssertNotCalled(suite.T(), "SubmitReport", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportHandlerTestSuite) TestGetReport_NotFound() {
	userID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockReportService.On("GetReportByID", mock.AnythingOfType("*context.valueCtx"), reportID, userID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/reports/"+reportID, userID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestListReports_PassesFilterParams() {
	adminID := uuid.NewString()

	expected := &dto.ListReportsResponse{Reports: []dto.ReportResponse{}}
	suite.mockReportService.On("ListReports",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(p dto.ListReportsParams) bool {
			return p.Store == "Loja Centro" && p.Status == "pending" && p.Responsible == "mar" &&
				p.From != nil && *p.From == "2024-03-01" && p.Limit == 20
		}),
		adminID,
	).Return(expected, nil).Once()

	url := "/api/v1/reports?store=Loja%20Centro&status=pending&responsible=mar&from=2024-03-01"
	w := suite.doRequest(http.MethodGet, url, adminID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestListReports_Forbidden() {
	userID := uuid.NewString()

	suite.mockReportService.On("ListReports", mock.AnythingOfType("*context.valueCtx"), mock.AnythingOfType("dto.ListReportsParams"), userID).
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/reports", userID, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestListReports_InvalidCriteria() {
	adminID := uuid.NewString()

	suite.mockReportService.On("ListReports", mock.AnythingOfType("*context.valueCtx"), mock.AnythingOfType("dto.ListReportsParams"), adminID).
		Return(nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, "archived")).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/reports?status=archived", adminID, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestTransitionReport_Success() {
	adminID := uuid.NewString()
	reportID := uuid.NewString()
	approvedAt := time.Now().UTC()

	returned := &domain.Report{
		ReportID:   reportID,
		Status:     domain.StatusApproved,
		ApproverID: &adminID,
		ApprovedAt: &approvedAt,
	}

	suite.mockReportService.On("TransitionReport", mock.AnythingOfType("*context.valueCtx"), reportID, domain.StatusApproved, adminID).
		Return(returned, nil).Once()

	w := suite.doRequest(http.MethodPut, "/api/v1/reports/"+reportID+"/status", adminID, []byte(`{"status":"approved"}`))

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ReportResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.StatusApproved, resp.Status)
	suite.Require().NotNil(resp.ApproverID)
	suite.Equal(adminID, *resp.ApproverID)

	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestTransitionReport_Forbidden() {
	userID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockReportService.On("TransitionReport", mock.AnythingOfType("*context.valueCtx"), reportID, domain.StatusRejected, userID).
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.doRequest(http.MethodPut, "/api/v1/reports/"+reportID+"/status", userID, []byte(`{"status":"rejected"}`))

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockReportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestTransitionReport_RejectsUnknownStatus() {
	adminID := uuid.NewString()
	reportID := uuid.NewString()

	// "pending" fails the request binding before the service is reached.
	w := suite.doRequest(http.MethodPut, "/api/v1/reports/"+reportID+"/status", adminID, []byte(`{"status":"pending"}`))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReportService.AssertNotCalled(suite.T(), "TransitionReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportHandlerTestSuite) TestExportReports_EmptyResultIsNoContent() {
	adminID := uuid.NewString()

	suite.mockReportService.On("ListReportsForExport", mock.AnythingOfType("*context.valueCtx"), mock.AnythingOfType("dto.ListReportsParams"), adminID).
		Return([]domain.Report{}, nil).Once()
	suite.mockExportService.On("ExportCSV", mock.AnythingOfType("[]domain.Report")).Return("").Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/reports/export", adminID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.Empty(w.Body.String())
	suite.mockExportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestExportReports_ReturnsAttachment() {
	adminID := uuid.NewString()
	reports := []domain.Report{{ReportID: uuid.NewString()}}
	csv := "id,date,store,responsible,status,declared_total,computed_total,expense_date,expense_desc,expense_value\n\"r-1\",\"2024-03-15\",\"Loja\",\"Maria\",\"pending\",\"80.00\",\"80.00\",\"\",\"\",\"\""

	suite.mockReportService.On("ListReportsForExport", mock.AnythingOfType("*context.valueCtx"), mock.AnythingOfType("dto.ListReportsParams"), adminID).
		Return(reports, nil).Once()
	suite.mockExportService.On("ExportCSV", reports).Return(csv).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/reports/export", adminID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(csv, w.Body.String())
	suite.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), `attachment; filename="report_`)

	suite.mockReportService.AssertExpectations(suite.T())
	suite.mockExportService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestExportReports_Forbidden() {
	userID := uuid.NewString()

	suite.mockReportService.On("ListReportsForExport", mock.AnythingOfType("*context.valueCtx"), mock.AnythingOfType("dto.ListReportsParams"), userID).
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/reports/export", userID, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockExportService.AssertNotCalled(suite.T(), "ExportCSV", mock.Anything)
}

func (suite *ReportHandlerTestSuite) TestListOwnReports_Success() {
	userID := uuid.NewString()

	expected := &dto.ListReportsResponse{
		Reports: []dto.ReportResponse{{ReportID: uuid.NewString(), SubmitterID: userID}},
	}
	suite.mockReportService.On("ListOwnReports",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(p dto.ListOwnReportsParams) bool { return p.Limit == 20 }),
		userID,
	).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/reports/mine", userID, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListReportsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Reports, 1)
	suite.mockReportService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestReportHandler(t *testing.T) {
	suite.Run(t, new(ReportHandlerTestSuite))
}
