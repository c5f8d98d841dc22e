package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/evalforge/evalforge/internal/config"
	"github.com/evalforge/evalforge/internal/pkg/metrics"
)

// MinIOBlobStore implements BlobStore on a single MinIO bucket. Containers
// map to object-key prefixes within the bucket.
type MinIOBlobStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOBlobStore creates a new MinIO-backed blob store
func NewMinIOBlobStore(ctx context.Context, cfg config.MinIOConfig) (*MinIOBlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOBlobStore{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(container, path string) string {
	return container + "/" + path
}

// Read returns the blob contents, or ErrBlobNotFound
func (s *MinIOBlobStore) Read(ctx context.Context, container, path string) ([]byte, error) {
	start := time.Now()
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(container, path), minio.GetObjectOptions{})
	if err != nil {
		metrics.RecordStorageOp("blob", "read", time.Since(start), err)
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	metrics.RecordStorageOp("blob", "read", time.Since(start), err)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return data, nil
}

// Write stores the blob, overwriting any existing content
func (s *MinIOBlobStore) Write(ctx context.Context, container, path string, data []byte) error {
	start := time.Now()
	_, err := s.client.PutObject(ctx, s.bucket, objectKey(container, path),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	metrics.RecordStorageOp("blob", "write", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}

	return nil
}

// Exists reports whether a blob is present at the path
func (s *MinIOBlobStore) Exists(ctx context.Context, container, path string) (bool, error) {
	start := time.Now()
	_, err := s.client.StatObject(ctx, s.bucket, objectKey(container, path), minio.StatObjectOptions{})
	metrics.RecordStorageOp("blob", "stat", time.Since(start), err)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob: %w", err)
	}

	return true, nil
}

// Delete removes the blob. Deleting a missing blob is not an error.
func (s *MinIOBlobStore) Delete(ctx context.Context, container, path string) error {
	start := time.Now()
	err := s.client.RemoveObject(ctx, s.bucket, objectKey(container, path), minio.RemoveObjectOptions{})
	metrics.RecordStorageOp("blob", "delete", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}
