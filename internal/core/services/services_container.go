package services

import (
	portsrepo "github.com/lojaops/prestacoes_backend/internal/core/ports/repositories"
	portssvc "github.com/lojaops/prestacoes_backend/internal/core/ports/services"
	"github.com/lojaops/prestacoes_backend/internal/core/ports/storage"
	"github.com/lojaops/prestacoes_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, blobStore storage.ReceiptBlobStore) *portssvc.ServiceContainer {
	// Create the container structure first
	container := &portssvc.ServiceContainer{}

	// Initialize the user service first since it carries the admin
	// authorization other services depend on
	container.User = NewUserService(repos.UserRepo)
	adminAuthorizer := container.User.(portssvc.AdminAuthorizerSvc)

	container.Report = NewReportService(repos.ReportRepo, adminAuthorizer)
	container.Export = NewExportService()
	container.Receipt = NewReceiptService(blobStore, repos.ReportRepo, adminAuthorizer)

	// Initialize TokenService
	container.TokenService = NewTokenService(cfg, container.User)

	// Initialize GoogleOAuthHandlerSvcFacade
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.UserSvcFacade    = (*userService)(nil)
	_ portssvc.ReportSvcFacade  = (*reportService)(nil)
	_ portssvc.ExportSvcFacade  = (*exportService)(nil)
	_ portssvc.ReceiptSvcFacade = (*receiptService)(nil)
)
