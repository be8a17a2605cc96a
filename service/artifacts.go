package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/anthonydaros/ContractAI/config"
)

// ArtifactService stores exported report PDFs in object storage so share
// links can hand out a direct download URL. It is optional: when no
// endpoint is configured the share flow falls back to API-served links.
type ArtifactService struct {
	client *minio.Client
	bucket string
	config *config.ArtifactsConfig
}

func NewArtifactService(cfg *config.ArtifactsConfig) (*ArtifactService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return &ArtifactService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the report bucket if it doesn't exist
func (s *ArtifactService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// StoreReport uploads a rendered PDF report under the given object name.
func (s *ArtifactService) StoreReport(ctx context.Context, objectName string, pdfBytes []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(pdfBytes), int64(len(pdfBytes)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	return nil
}

// PresignedURL generates a time-limited download URL for a stored report.
func (s *ArtifactService) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// DeleteReport removes a stored report.
func (s *ArtifactService) DeleteReport(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	return nil
}
