package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
)

// Repository implements lightnovel.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	nextID   int64
	novels   map[int64]*lightnovel.Novel
	chapters map[int64]*lightnovel.Chapter
	genres   map[int64]*lightnovel.Genre
	// novel_id -> set of genre_id
	novelGenres map[int64]map[int64]struct{}
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		novels:      make(map[int64]*lightnovel.Novel),
		chapters:    make(map[int64]*lightnovel.Chapter),
		genres:      make(map[int64]*lightnovel.Genre),
		novelGenres: make(map[int64]map[int64]struct{}),
	}
}

func (r *Repository) allocID() int64 {
	r.nextID++
	return r.nextID
}

// Novel operations

func (r *Repository) CreateNovel(ctx context.Context, novel *lightnovel.Novel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	novel.ID = r.allocID()
	novelCopy := *novel
	r.novels[novel.ID] = &novelCopy
	return nil
}

func (r *Repository) GetNovel(ctx context.Context, id int64) (*lightnovel.Novel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	novel, exists := r.novels[id]
	if !exists {
		return nil, lightnovel.ErrNovelNotFound
	}
	novelCopy := *novel
	return &novelCopy, nil
}

func (r *Repository) ListNovels(ctx context.Context) ([]*lightnovel.Novel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*lightnovel.Novel, 0, len(r.novels))
	for _, novel := range r.novels {
		novelCopy := *novel
		result = append(result, &novelCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *Repository) UpdateNovel(ctx context.Context, novel *lightnovel.Novel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.novels[novel.ID]; !exists {
		return lightnovel.ErrNovelNotFound
	}
	novelCopy := *novel
	r.novels[novel.ID] = &novelCopy
	return nil
}

func (r *Repository) DeleteNovel(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.novels[id]; !exists {
		return lightnovel.ErrNovelNotFound
	}
	delete(r.novels, id)

	// Cascade chapters, sever genre links.
	for chapterID, chapter := range r.chapters {
		if chapter.NovelID == id {
			delete(r.chapters, chapterID)
		}
	}
	delete(r.novelGenres, id)
	return nil
}

func (r *Repository) ReplaceNovelGenres(ctx context.Context, novelID int64, genreIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.novels[novelID]; !exists {
		return lightnovel.ErrNovelNotFound
	}
	for _, genreID := range genreIDs {
		if _, exists := r.genres[genreID]; !exists {
			return fmt.Errorf("connect genre %d: %w", genreID, lightnovel.ErrGenreNotFound)
		}
	}

	// Both phases run under the write lock, so readers never observe the
	// intermediate zero-genre state.
	links := make(map[int64]struct{}, len(genreIDs))
	for _, genreID := range genreIDs {
		links[genreID] = struct{}{}
	}
	r.novelGenres[novelID] = links
	return nil
}

func (r *Repository) ListGenresForNovel(ctx context.Context, novelID int64) ([]*lightnovel.Genre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*lightnovel.Genre
	for genreID := range r.novelGenres[novelID] {
		if genre, exists := r.genres[genreID]; exists {
			genreCopy := *genre
			result = append(result, &genreCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Chapter operations

func (r *Repository) CreateChapter(ctx context.Context, chapter *lightnovel.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.novels[chapter.NovelID]; !exists {
		return lightnovel.ErrNovelNotFound
	}
	chapter.ID = r.allocID()
	chapterCopy := *chapter
	r.chapters[chapter.ID] = &chapterCopy
	return nil
}

func (r *Repository) GetChapter(ctx context.Context, id int64) (*lightnovel.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chapter, exists := r.chapters[id]
	if !exists {
		return nil, lightnovel.ErrChapterNotFound
	}
	chapterCopy := *chapter
	return &chapterCopy, nil
}

func (r *Repository) ListChaptersForNovel(ctx context.Context, novelID int64) ([]*lightnovel.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*lightnovel.Chapter
	for _, chapter := range r.chapters {
		if chapter.NovelID == novelID {
			chapterCopy := *chapter
			result = append(result, &chapterCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Number < result[j].Number
	})
	return result, nil
}

func (r *Repository) UpdateChapter(ctx context.Context, chapter *lightnovel.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.chapters[chapter.ID]
	if !exists {
		return lightnovel.ErrChapterNotFound
	}
	// Reparenting is not supported.
	chapter.NovelID = existing.NovelID
	chapterCopy := *chapter
	r.chapters[chapter.ID] = &chapterCopy
	return nil
}

func (r *Repository) DeleteChapter(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chapters[id]; !exists {
		return lightnovel.ErrChapterNotFound
	}
	delete(r.chapters, id)
	return nil
}

// Genre operations

func (r *Repository) CreateGenre(ctx context.Context, genre *lightnovel.Genre) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.genres {
		if existing.Name == genre.Name {
			return fmt.Errorf("genre name %q: %w", genre.Name, lightnovel.ErrGenreNameExists)
		}
	}
	genre.ID = r.allocID()
	genreCopy := *genre
	r.genres[genre.ID] = &genreCopy
	return nil
}

func (r *Repository) GetGenre(ctx context.Context, id int64) (*lightnovel.Genre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	genre, exists := r.genres[id]
	if !exists {
		return nil, lightnovel.ErrGenreNotFound
	}
	genreCopy := *genre
	return &genreCopy, nil
}

func (r *Repository) ListGenres(ctx context.Context) ([]*lightnovel.Genre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*lightnovel.Genre, 0, len(r.genres))
	for _, genre := range r.genres {
		genreCopy := *genre
		result = append(result, &genreCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *Repository) UpdateGenre(ctx context.Context, genre *lightnovel.Genre) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.genres[genre.ID]; !exists {
		return lightnovel.ErrGenreNotFound
	}
	for _, existing := range r.genres {
		if existing.ID != genre.ID && existing.Name == genre.Name {
			return fmt.Errorf("genre name %q: %w", genre.Name, lightnovel.ErrGenreNameExists)
		}
	}
	genreCopy := *genre
	r.genres[genre.ID] = &genreCopy
	return nil
}

func (r *Repository) DeleteGenre(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.genres[id]; !exists {
		return lightnovel.ErrGenreNotFound
	}
	delete(r.genres, id)
	for _, links := range r.novelGenres {
		delete(links, id)
	}
	return nil
}

func (r *Repository) ListNovelsForGenre(ctx context.Context, genreID int64) ([]*lightnovel.Novel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*lightnovel.Novel
	for novelID, links := range r.novelGenres {
		if _, linked := links[genreID]; !linked {
			continue
		}
		if novel, exists := r.novels[novelID]; exists {
			novelCopy := *novel
			result = append(result, &novelCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}
