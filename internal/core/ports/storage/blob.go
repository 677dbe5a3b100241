package storage

import (
	"context"
	"time"
)

// ReceiptBlobStore is the contract consumed for receipt binaries: a
// content-addressable store keyed by path, returning public URLs.
type ReceiptBlobStore interface {
	// PresignUpload returns a URL the client can PUT the receipt to, valid
	// for the returned duration.
	PresignUpload(ctx context.Context, path string, contentType string) (string, time.Duration, error)

	// PublicURL resolves the publicly reachable URL for a stored path.
	PublicURL(ctx context.Context, path string) (string, error)
}
