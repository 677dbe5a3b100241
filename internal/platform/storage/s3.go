// Package storage provides the S3-backed receipt blob store.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	portstorage "github.com/lojaops/prestacoes_backend/internal/core/ports/storage"
	"github.com/lojaops/prestacoes_backend/internal/platform/config"
)

// S3ReceiptStore implements the receipt blob store on top of an S3 bucket.
// Uploads go through presigned PUT URLs so receipt bytes never pass through
// this service.
type S3ReceiptStore struct {
	bucket        string
	region        string
	publicBaseURL string
	uploadTTL     time.Duration
	presigner     *s3.PresignClient
}

// NewS3ReceiptStore builds the store from application configuration, loading
// AWS credentials from the default chain.
func NewS3ReceiptStore(ctx context.Context, cfg *config.Config) (*S3ReceiptStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.ReceiptsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3ReceiptStore{
		bucket:        cfg.ReceiptsBucket,
		region:        cfg.ReceiptsRegion,
		publicBaseURL: strings.TrimSuffix(cfg.ReceiptsPublicBaseURL, "/"),
		uploadTTL:     cfg.ReceiptsUploadTTL,
		presigner:     s3.NewPresignClient(client),
	}, nil
}

var _ portstorage.ReceiptBlobStore = (*S3ReceiptStore)(nil)

// PresignUpload generates a presigned PUT URL for the given object path.
func (s *S3ReceiptStore) PresignUpload(ctx context.Context, path string, contentType string) (string, time.Duration, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		ContentType: aws.String(contentType),
	}

	req, err := s.presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) { o.Expires = s.uploadTTL })
	if err != nil {
		return "", 0, fmt.Errorf("failed to presign put for %s: %w", path, err)
	}
	return req.URL, s.uploadTTL, nil
}

// PublicURL resolves the web-reachable URL for a stored object. When a CDN
// or website base URL is configured it takes precedence over the bucket's
// virtual-hosted address.
func (s *S3ReceiptStore) PublicURL(ctx context.Context, path string) (string, error) {
	escapedPath := escapeObjectPath(path)
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + escapedPath, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escapedPath), nil
}

// escapeObjectPath percent-encodes each path segment while keeping the
// segment separators.
func escapeObjectPath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
