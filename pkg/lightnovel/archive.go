package lightnovel

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// Archiver relocates cover-image blobs to a retention namespace instead of
// deleting them outright. It never mutates the database, and every failure
// is swallowed to a boolean: a stale blob is recoverable garbage, while
// blocking a user-facing edit on storage-backend health is not acceptable.
type Archiver struct {
	store  BlobStore
	bucket string
	logger *slog.Logger
}

// NewArchiver creates an archiver over the given blob store. A nil store
// yields an archiver whose Retire always reports false.
func NewArchiver(store BlobStore, bucket string, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{store: store, bucket: bucket, logger: logger}
}

// ResolveKey parses an externally-facing asset reference into the storage key
// it points at. It recognizes three URL shapes: a public path-style URL with
// the bucket as the first path segment, a virtual-hosted-style URL with the
// bucket as a subdomain, and a signed/download-style URL carrying the key
// URL-encoded after an "/o/" segment. Unrecognized references report false.
func (a *Archiver) ResolveKey(reference string) (string, bool) {
	if reference == "" || a.bucket == "" {
		return "", false
	}
	u, err := url.Parse(reference)
	if err != nil {
		return "", false
	}

	path := strings.TrimPrefix(u.Path, "/")
	if rest, ok := strings.CutPrefix(path, a.bucket+"/"); ok && rest != "" {
		return rest, true
	}
	if strings.HasPrefix(u.Host, a.bucket+".") && path != "" {
		return path, true
	}
	// Signed URLs keep the key percent-encoded, so work on the escaped path.
	if i := strings.Index(u.EscapedPath(), "/o/"); i >= 0 {
		key, err := url.PathUnescape(u.EscapedPath()[i+len("/o/"):])
		if err != nil || key == "" {
			return "", false
		}
		return key, true
	}
	return "", false
}

// Retire copies the referenced blob into the retired/ namespace and deletes
// the original. It reports true only when both steps succeed. Absent or
// unresolvable references and storage failures report false; callers are
// permitted to ignore the result.
func (a *Archiver) Retire(ctx context.Context, reference string) bool {
	if reference == "" {
		return false
	}
	if a.store == nil {
		a.logger.Warn("blob store not configured, skipping retirement", "reference", reference)
		return false
	}

	key, ok := a.ResolveKey(reference)
	if !ok {
		a.logger.Warn("could not resolve storage key from reference", "reference", reference)
		return false
	}

	fileName := key[strings.LastIndex(key, "/")+1:]
	timestamp := strings.NewReplacer(":", "-", ".", "-").
		Replace(time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	destKey := "retired/" + timestamp + "_" + fileName

	if err := a.store.Copy(ctx, key, destKey); err != nil {
		a.logger.Warn("failed to copy blob to retention area", "key", key, "dest", destKey, "err", err)
		return false
	}
	if err := a.store.Delete(ctx, key); err != nil {
		a.logger.Warn("failed to delete original blob after copy", "key", key, "err", err)
		return false
	}

	a.logger.Info("retired blob", "key", key, "dest", destKey)
	return true
}
