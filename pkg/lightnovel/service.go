package lightnovel

import "context"

// Service is the single query/mutation surface over the novel catalog.
type Service interface {
	// Queries. Novels and Novel return entities with chapters and genres
	// attached; Chapters returns chapters ordered by number ascending.
	Novels(ctx context.Context) ([]*Novel, error)
	Novel(ctx context.Context, id int64) (*Novel, error)
	Chapters(ctx context.Context, novelID int64) ([]*Chapter, error)
	Chapter(ctx context.Context, id int64) (*Chapter, error)
	Genres(ctx context.Context) ([]*Genre, error)
	Genre(ctx context.Context, id int64) (*Genre, error)

	// Novel mutations. DeleteNovel returns the pre-deletion snapshot.
	CreateNovel(ctx context.Context, req CreateNovelRequest) (*Novel, error)
	UpdateNovel(ctx context.Context, id int64, req UpdateNovelRequest) (*Novel, error)
	DeleteNovel(ctx context.Context, id int64) (*Novel, error)

	// Chapter mutations. DeleteChapter returns the pre-deletion snapshot.
	CreateChapter(ctx context.Context, req CreateChapterRequest) (*Chapter, error)
	UpdateChapter(ctx context.Context, id int64, req UpdateChapterRequest) (*Chapter, error)
	DeleteChapter(ctx context.Context, id int64) (*Chapter, error)

	// Genre mutations
	CreateGenre(ctx context.Context, req GenreRequest) (*Genre, error)
	UpdateGenre(ctx context.Context, id int64, req GenreRequest) (*Genre, error)
	DeleteGenre(ctx context.Context, id int64) (*Genre, error)

	// RetireImage retires a bare asset reference, decoupled from any entity
	// mutation. Used to discard an uploaded-but-not-yet-attached cover.
	RetireImage(ctx context.Context, reference string) bool
}
