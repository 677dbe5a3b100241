package services

import (
	"context"

	"github.com/lojaops/prestacoes_backend/internal/dto"
)

// ReceiptSvcFacade exposes receipt blob operations to the HTTP layer.
type ReceiptSvcFacade interface {
	// CreateUploadURL builds the storage path for a new receipt of the given
	// user and presigns an upload URL for it.
	CreateUploadURL(ctx context.Context, userID string, req dto.ReceiptUploadURLRequest) (*dto.ReceiptUploadURLResponse, error)

	// ResolveReceiptURLs resolves public URLs for every line of a report,
	// order-preserving. Lines without a receipt yield a nil URL. Admin only.
	ResolveReceiptURLs(ctx context.Context, reportID string, requestingUserID string) ([]dto.ReceiptURLResponse, error)
}
