package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
)

// Config options for the Google Cloud Storage backend
type Config struct {
	Bucket          string // GCS bucket name
	CredentialsFile string // Optional service-account key file; default credential chain otherwise
}

// Backend is a Google Cloud Storage implementation of the
// lightnovel.BlobStore interface
type Backend struct {
	client *storage.Client
	bucket string
}

// New creates a new Google Cloud Storage backend
func New(ctx context.Context, config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &Backend{client: client, bucket: config.Bucket}, nil
}

// Close releases the underlying client
func (b *Backend) Close() error {
	return b.client.Close()
}

// Upload uploads content to the bucket
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error {
	writer := b.client.Bucket(b.bucket).Object(objectKey).NewWriter(ctx)
	if mimeType != "" {
		writer.ContentType = mimeType
	}

	if _, err := io.Copy(writer, reader); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write GCS object %s: %w", objectKey, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", objectKey, err)
	}
	return nil
}

// Download downloads content from the bucket
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	reader, err := b.client.Bucket(b.bucket).Object(objectKey).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, errors.New("object not found")
		}
		return nil, fmt.Errorf("failed to read GCS object %s: %w", objectKey, err)
	}
	return reader, nil
}

// Copy duplicates an object within the bucket
func (b *Backend) Copy(ctx context.Context, sourceKey, destKey string) error {
	bucket := b.client.Bucket(b.bucket)
	src := bucket.Object(sourceKey)
	dst := bucket.Object(destKey)

	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", sourceKey, destKey, err)
	}
	return nil
}

// Delete deletes an object from the bucket
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	if err := b.client.Bucket(b.bucket).Object(objectKey).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %s: %w", objectKey, err)
	}
	return nil
}

// GetObjectMeta retrieves metadata for an object in the bucket
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*lightnovel.ObjectMeta, error) {
	attrs, err := b.client.Bucket(b.bucket).Object(objectKey).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, errors.New("object not found")
		}
		return nil, fmt.Errorf("failed to get attrs for GCS object %s: %w", objectKey, err)
	}

	return &lightnovel.ObjectMeta{
		Key:         objectKey,
		Size:        attrs.Size,
		ContentType: attrs.ContentType,
		UpdatedAt:   attrs.Updated,
		ETag:        attrs.Etag,
	}, nil
}
