package pgsql

import (
	portsrepo "github.com/lojaops/prestacoes_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	reportRepo := newPgxReportRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:   userRepo,
		ReportRepo: reportRepo,
	}
}
