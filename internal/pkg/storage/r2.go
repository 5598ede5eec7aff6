package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// R2Config holds Cloudflare R2 connection configuration
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	PublicURL       string // CDN URL for public access
}

// NewR2Storage creates a Cloudflare R2 backed storage.
// R2 speaks the S3 API at https://<account_id>.r2.cloudflarestorage.com.
func NewR2Storage(ctx context.Context, cfg R2Config) (*ObjectStorage, error) {
	if cfg.AccountID == "" {
		return nil, fmt.Errorf("r2 storage: account id is empty")
	}
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	client, err := newS3Client(ctx, "auto", cfg.AccessKeyID, cfg.AccessKeySecret, endpoint, false)
	if err != nil {
		return nil, err
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.r2.dev", cfg.BucketName)
	}

	return &ObjectStorage{client: client, bucket: cfg.BucketName, publicURL: publicURL}, nil
}

// NewBytesReadSeeker wraps data in an io.ReadSeeker
func NewBytesReadSeeker(data []byte) io.ReadSeeker {
	return bytes.NewReader(data)
}
