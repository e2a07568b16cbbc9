package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
)

// Backend is an in-memory implementation of the lightnovel.BlobStore
// interface, used for tests and local development.
type Backend struct {
	mu              sync.RWMutex
	objects         map[string][]byte
	objectsMimeType map[string]string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects:         make(map[string][]byte),
		objectsMimeType: make(map[string]string),
	}
}

// Upload stores content under the given key
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	b.objectsMimeType[objectKey] = mimeType
	return nil
}

// Download retrieves content stored under the given key
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Copy duplicates an object within the backend
func (b *Backend) Copy(ctx context.Context, sourceKey, destKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, exists := b.objects[sourceKey]
	if !exists {
		return errors.New("object not found")
	}
	b.objects[destKey] = append([]byte(nil), data...)
	b.objectsMimeType[destKey] = b.objectsMimeType[sourceKey]
	return nil
}

// Delete deletes content
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return errors.New("object not found")
	}
	delete(b.objects, objectKey)
	delete(b.objectsMimeType, objectKey)
	return nil
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*lightnovel.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}
	return &lightnovel.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(data)),
		ContentType: b.objectsMimeType[objectKey],
	}, nil
}
