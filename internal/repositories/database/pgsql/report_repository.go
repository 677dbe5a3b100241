package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lojaops/prestacoes_backend/internal/apperrors"
	"github.com/lojaops/prestacoes_backend/internal/core/domain"
	portsrepo "github.com/lojaops/prestacoes_backend/internal/core/ports/repositories"
	"github.com/lojaops/prestacoes_backend/internal/models"
	"github.com/lojaops/prestacoes_backend/internal/utils/mapping"
	"github.com/lojaops/prestacoes_backend/internal/utils/pagination"
)

const reportColumns = `report_id, submitter_id, date, store, responsible,
declared_total, computed_total, status, approver_id, approved_at,
created_at, created_by, last_updated_at, last_updated_by`

type PgxReportRepository struct {
	BaseRepository
}

func newPgxReportRepository(db *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &PgxReportRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

// SaveReport persists the report row and all its expense lines in one
// database transaction: either everything lands or nothing does.
func (r *PgxReportRepository) SaveReport(ctx context.Context, report domain.Report, lines []domain.ExpenseLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Rollback is a no-op once the transaction is committed.
	defer func() { _ = r.Rollback(ctx, tx) }()

	modelReport := mapping.ToModelReport(report)
	reportQuery := `
		INSERT INTO prestacoes (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, reportQuery,
		modelReport.ReportID,
		modelReport.SubmitterID,
		modelReport.Date,
		modelReport.Store,
		modelReport.Responsible,
		modelReport.DeclaredTotal,
		modelReport.ComputedTotal,
		modelReport.Status,
		modelReport.ApproverID,
		modelReport.ApprovedAt,
		modelReport.CreatedAt,
		modelReport.CreatedBy,
		modelReport.LastUpdatedAt,
		modelReport.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report %s: %w", report.ReportID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO despesas (expense_id, report_id, line_no, date, description, value, receipt_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for i, line := range lines {
		modelLine := mapping.ToModelExpenseLine(line)
		batch.Queue(lineQuery,
			modelLine.ExpenseID,
			modelLine.ReportID,
			i,
			modelLine.Date,
			modelLine.Description,
			modelLine.Value,
			modelLine.ReceiptPath,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert expense lines for report %s: %w", report.ReportID, err)
	}

	return r.Commit(ctx, tx)
}

// FindReportByID retrieves a report with its expense lines attached.
func (r *PgxReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM prestacoes WHERE report_id = $1;`

	var m models.Report
	err := r.Pool.QueryRow(ctx, query, reportID).Scan(
		&m.ReportID,
		&m.SubmitterID,
		&m.Date,
		&m.Store,
		&m.Responsible,
		&m.DeclaredTotal,
		&m.ComputedTotal,
		&m.Status,
		&m.ApproverID,
		&m.ApprovedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find report by ID %s: %w", reportID, err)
	}

	linesByReport, err := r.findExpenseLines(ctx, []string{reportID})
	if err != nil {
		return nil, err
	}

	report := mapping.ToDomainReport(m)
	report.Expenses = mapping.ToDomainExpenseLineSlice(linesByReport[reportID])
	return &report, nil
}

// ListReports retrieves reports matching the filter, newest first, using
// (created_at, report_id) keyset pagination. Expense lines are loaded for
// the whole page in one extra query.
func (r *PgxReportRepository) ListReports(ctx context.Context, filter portsrepo.ReportFilter, limit int, nextToken *string) ([]domain.Report, *string, error) {
	whereClauses := make([]string, 0, 6)
	args := make([]interface{}, 0, 8)

	if filter.Store != "" {
		args = append(args, filter.Store)
		whereClauses = append(whereClauses, "store = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		whereClauses = append(whereClauses, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Responsible != "" {
		args = append(args, "%"+filter.Responsible+"%")
		whereClauses = append(whereClauses, "responsible ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		whereClauses = append(whereClauses, "date >= $"+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		whereClauses = append(whereClauses, "date <= $"+strconv.Itoa(len(args)))
	}

	return r.listReportsPage(ctx, whereClauses, args, limit, nextToken)
}

// ListReportsBySubmitter retrieves a submitter's own reports, newest first.
func (r *PgxReportRepository) ListReportsBySubmitter(ctx context.Context, submitterID string, limit int, nextToken *string) ([]domain.Report, *string, error) {
	whereClauses := []string{"submitter_id = $1"}
	args := []interface{}{submitterID}
	return r.listReportsPage(ctx, whereClauses, args, limit, nextToken)
}

// listReportsPage runs the shared newest-first keyset query over prestacoes.
func (r *PgxReportRepository) listReportsPage(ctx context.Context, whereClauses []string, args []interface{}, limit int, nextToken *string) ([]domain.Report, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastReportID, decodeErr := pagination.DecodeCreatedAtToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastReportID)
		whereClauses = append(whereClauses,
			"(created_at, report_id) < ($"+strconv.Itoa(len(args)-1)+", $"+strconv.Itoa(len(args))+")")
	}

	query := `SELECT ` + reportColumns + ` FROM prestacoes`
	for i, clause := range whereClauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	args = append(args, fetchLimit)
	query += " ORDER BY created_at DESC, report_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	modelReports := make([]models.Report, 0, fetchLimit)
	for rows.Next() {
		var m models.Report
		scanErr := rows.Scan(
			&m.ReportID,
			&m.SubmitterID,
			&m.Date,
			&m.Store,
			&m.Responsible,
			&m.DeclaredTotal,
			&m.ComputedTotal,
			&m.Status,
			&m.ApproverID,
			&m.ApprovedAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan report row: %w", scanErr)
		}
		modelReports = append(modelReports, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	var nextTokenVal *string
	results := modelReports
	if len(modelReports) > limit {
		lastReport := modelReports[limit-1]
		newToken := pagination.EncodeCreatedAtToken(lastReport.CreatedAt, lastReport.ReportID)
		nextTokenVal = &newToken
		results = modelReports[:limit]
	}

	reportIDs := make([]string, len(results))
	for i, m := range results {
		reportIDs[i] = m.ReportID
	}
	linesByReport, err := r.findExpenseLines(ctx, reportIDs)
	if err != nil {
		return nil, nil, err
	}

	domainReports := make([]domain.Report, len(results))
	for i, m := range results {
		domainReports[i] = mapping.ToDomainReport(m)
		domainReports[i].Expenses = mapping.ToDomainExpenseLineSlice(linesByReport[m.ReportID])
	}

	return domainReports, nextTokenVal, nil
}

// UpdateReportStatus applies a review decision as a single row update, so
// concurrent decisions resolve last-write-wins at row granularity.
func (r *PgxReportRepository) UpdateReportStatus(ctx context.Context, reportID string, status domain.ReportStatus, approverID string, approvedAt time.Time) error {
	query := `
		UPDATE prestacoes
		SET status = $1, approver_id = $2, approved_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE report_id = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, string(status), approverID, approvedAt, reportID)
	if err != nil {
		return fmt.Errorf("failed to update status of report %s: %w", reportID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("report %s not found: %w", reportID, apperrors.ErrNotFound)
	}
	return nil
}

// findExpenseLines loads the lines of the given reports in insertion order,
// grouped by report.
func (r *PgxReportRepository) findExpenseLines(ctx context.Context, reportIDs []string) (map[string][]models.ExpenseLine, error) {
	linesByReport := make(map[string][]models.ExpenseLine, len(reportIDs))
	if len(reportIDs) == 0 {
		return linesByReport, nil
	}

	query := `
		SELECT expense_id, report_id, date, description, value, receipt_path
		FROM despesas
		WHERE report_id = ANY($1)
		ORDER BY report_id, line_no;
	`
	rows, err := r.Pool.Query(ctx, query, reportIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.ExpenseLine
		scanErr := rows.Scan(
			&m.ExpenseID,
			&m.ReportID,
			&m.Date,
			&m.Description,
			&m.Value,
			&m.ReceiptPath,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan expense line row: %w", scanErr)
		}
		linesByReport[m.ReportID] = append(linesByReport[m.ReportID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense line rows: %w", err)
	}

	return linesByReport, nil
}
