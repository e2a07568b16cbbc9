package lightnovel

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the capability consumed from a storage backend. Object
// existence is implied by a successful Copy.
type BlobStore interface {
	// Upload stores content under the given key
	Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error

	// Download retrieves content stored under the given key
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Copy duplicates an object within the backend
	Copy(ctx context.Context, sourceKey, destKey string) error

	// Delete removes an object
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for a stored object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// Repository defines the interface for novel, chapter and genre persistence.
// Get/Update/Delete with an unknown id return the matching sentinel
// not-found error, never a default object.
type Repository interface {
	// Novel operations. CreateNovel assigns the ID.
	CreateNovel(ctx context.Context, novel *Novel) error
	GetNovel(ctx context.Context, id int64) (*Novel, error)
	ListNovels(ctx context.Context) ([]*Novel, error)
	UpdateNovel(ctx context.Context, novel *Novel) error
	// DeleteNovel cascades deletion of the novel's chapters and severs its
	// genre associations.
	DeleteNovel(ctx context.Context, id int64) error

	// ReplaceNovelGenres performs the two-phase genre replace: disconnect all
	// existing associations, then connect the given set. Both phases run
	// atomically with respect to concurrent readers.
	ReplaceNovelGenres(ctx context.Context, novelID int64, genreIDs []int64) error
	ListGenresForNovel(ctx context.Context, novelID int64) ([]*Genre, error)

	// Chapter operations. ListChaptersForNovel orders by number ascending.
	CreateChapter(ctx context.Context, chapter *Chapter) error
	GetChapter(ctx context.Context, id int64) (*Chapter, error)
	ListChaptersForNovel(ctx context.Context, novelID int64) ([]*Chapter, error)
	UpdateChapter(ctx context.Context, chapter *Chapter) error
	DeleteChapter(ctx context.Context, id int64) error

	// Genre operations. DeleteGenre severs novel associations but leaves the
	// novels in place.
	CreateGenre(ctx context.Context, genre *Genre) error
	GetGenre(ctx context.Context, id int64) (*Genre, error)
	ListGenres(ctx context.Context) ([]*Genre, error)
	UpdateGenre(ctx context.Context, genre *Genre) error
	DeleteGenre(ctx context.Context, id int64) error
	ListNovelsForGenre(ctx context.Context, genreID int64) ([]*Novel, error)
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}
