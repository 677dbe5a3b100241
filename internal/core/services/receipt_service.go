package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lojaops/prestacoes_backend/internal/apperrors"
	portsrepo "github.com/lojaops/prestacoes_backend/internal/core/ports/repositories"
	portssvc "github.com/lojaops/prestacoes_backend/internal/core/ports/services"
	"github.com/lojaops/prestacoes_backend/internal/core/ports/storage"
	"github.com/lojaops/prestacoes_backend/internal/dto"
)

var ErrEmptyFileName = errors.New("file name is required")

// receiptURLConcurrency caps parallel blob lookups per report.
const receiptURLConcurrency = 8

// receiptService brokers receipt uploads and viewing between the HTTP layer
// and the blob store.
type receiptService struct {
	BaseService
	blobStore  storage.ReceiptBlobStore
	reportRepo portsrepo.ReportRepositoryFacade
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(blobStore storage.ReceiptBlobStore, reportRepo portsrepo.ReportRepositoryFacade, adminAuthorizer portssvc.AdminAuthorizerSvc) portssvc.ReceiptSvcFacade {
	return &receiptService{
		BaseService: BaseService{AdminAuthorizer: adminAuthorizer},
		blobStore:   blobStore,
		reportRepo:  reportRepo,
	}
}

var _ portssvc.ReceiptSvcFacade = (*receiptService)(nil)

// CreateUploadURL presigns an upload for a new receipt object. The object
// path is namespaced by the uploading user, so one user cannot overwrite
// another's receipts.
func (s *receiptService) CreateUploadURL(ctx context.Context, userID string, req dto.ReceiptUploadURLRequest) (*dto.ReceiptUploadURLResponse, error) {
	fileName := sanitizeFileName(req.FileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEmptyFileName)
	}

	objectPath := fmt.Sprintf("%s/receipts/%d_%s", userID, time.Now().UnixMilli(), fileName)

	uploadURL, ttl, err := s.blobStore.PresignUpload(ctx, objectPath, req.ContentType)
	if err != nil {
		s.LogError(ctx, err, "failed to presign receipt upload", slog.String("path", objectPath))
		return nil, fmt.Errorf("failed to presign upload for %s: %w", objectPath, err)
	}

	return &dto.ReceiptUploadURLResponse{
		UploadURL: uploadURL,
		Path:      objectPath,
		ExpiresIn: int64(ttl.Seconds()),
	}, nil
}

// ResolveReceiptURLs resolves viewable URLs for every expense line of a
// report. Lookups are independent, so they run in parallel; results keep the
// line order. Admin only.
func (s *receiptService) ResolveReceiptURLs(ctx context.Context, reportID string, requestingUserID string) ([]dto.ReceiptURLResponse, error) {
	if err := s.RequireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}

	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "failed to load report for receipt resolution", slog.String("report_id", reportID))
		return nil, fmt.Errorf("failed to load report %s: %w", reportID, err)
	}

	results := make([]dto.ReceiptURLResponse, len(report.Expenses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(receiptURLConcurrency)

	for i, line := range report.Expenses {
		results[i] = dto.ReceiptURLResponse{ExpenseID: line.ExpenseID}
		if line.ReceiptPath == nil || *line.ReceiptPath == "" {
			continue
		}
		receiptPath := *line.ReceiptPath
		idx := i
		g.Go(func() error {
			url, err := s.blobStore.PublicURL(gctx, receiptPath)
			if err != nil {
				return fmt.Errorf("failed to resolve receipt %s: %w", receiptPath, err)
			}
			results[idx].URL = &url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "failed to resolve receipt urls", slog.String("report_id", reportID))
		return nil, err
	}
	return results, nil
}

// sanitizeFileName strips any directory components from a client-supplied
// file name.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(path.Base("/" + name))
	if name == "/" || name == "." {
		return ""
	}
	return name
}
