package lightnovel

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// service implements the Service interface
type service struct {
	repository Repository
	archiver   *Archiver
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithArchiver sets the cover-image archiver for the service
func WithArchiver(archiver *Archiver) Option {
	return func(s *service) {
		s.archiver = archiver
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options. A repository is
// required; without an archiver, image retirement is disabled and reports
// false.
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.archiver == nil {
		s.archiver = NewArchiver(nil, "", s.logger)
	}

	return s, nil
}

// Queries

func (s *service) Novels(ctx context.Context) ([]*Novel, error) {
	novels, err := s.repository.ListNovels(ctx)
	if err != nil {
		return nil, err
	}
	for _, novel := range novels {
		if err := s.attachRelated(ctx, novel); err != nil {
			return nil, err
		}
	}
	return novels, nil
}

func (s *service) Novel(ctx context.Context, id int64) (*Novel, error) {
	novel, err := s.repository.GetNovel(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachRelated(ctx, novel); err != nil {
		return nil, err
	}
	return novel, nil
}

func (s *service) Chapters(ctx context.Context, novelID int64) ([]*Chapter, error) {
	return s.repository.ListChaptersForNovel(ctx, novelID)
}

func (s *service) Chapter(ctx context.Context, id int64) (*Chapter, error) {
	return s.repository.GetChapter(ctx, id)
}

func (s *service) Genres(ctx context.Context) ([]*Genre, error) {
	genres, err := s.repository.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	for _, genre := range genres {
		novels, err := s.repository.ListNovelsForGenre(ctx, genre.ID)
		if err != nil {
			return nil, err
		}
		genre.Novels = novels
	}
	return genres, nil
}

func (s *service) Genre(ctx context.Context, id int64) (*Genre, error) {
	genre, err := s.repository.GetGenre(ctx, id)
	if err != nil {
		return nil, err
	}
	novels, err := s.repository.ListNovelsForGenre(ctx, id)
	if err != nil {
		return nil, &GenreError{GenreID: id, Op: "load_novels", Err: err}
	}
	if novels == nil {
		novels = []*Novel{}
	}
	genre.Novels = novels
	return genre, nil
}

// Novel mutations

func (s *service) CreateNovel(ctx context.Context, req CreateNovelRequest) (*Novel, error) {
	status, err := validateNovelInput(req.Title, req.Author, req.Status)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	novel := &Novel{
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Author:      req.Author,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateNovel(ctx, novel); err != nil {
		return nil, &NovelError{Op: "create", Err: err}
	}

	if req.GenreIDs != nil {
		if err := s.repository.ReplaceNovelGenres(ctx, novel.ID, req.GenreIDs); err != nil {
			return nil, &NovelError{NovelID: novel.ID, Op: "create", Err: err}
		}
	}

	if err := s.attachRelated(ctx, novel); err != nil {
		return nil, err
	}
	return novel, nil
}

func (s *service) UpdateNovel(ctx context.Context, id int64, req UpdateNovelRequest) (*Novel, error) {
	status, err := validateNovelInput(req.Title, req.Author, req.Status)
	if err != nil {
		return nil, err
	}

	// Pre-image: needed to decide whether the previous cover must be retired.
	current, err := s.repository.GetNovel(ctx, id)
	if err != nil {
		return nil, &NovelError{NovelID: id, Op: "update", Err: err}
	}

	// Retire the old cover only when it is being replaced by a different one.
	// A cleared cover is left in place; only delete-novel or an explicit
	// discard retires it. Retirement outcome never gates the write.
	if current.CoverImage != "" && req.CoverImage != "" && req.CoverImage != current.CoverImage {
		if ok := s.archiver.Retire(ctx, current.CoverImage); !ok {
			s.logger.Warn("previous cover image was not retired", "novel_id", id, "cover_image", current.CoverImage)
		}
	}

	if req.GenreIDs != nil {
		if err := s.repository.ReplaceNovelGenres(ctx, id, req.GenreIDs); err != nil {
			return nil, &NovelError{NovelID: id, Op: "update", Err: err}
		}
	}

	novel := &Novel{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Author:      req.Author,
		Status:      status,
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.repository.UpdateNovel(ctx, novel); err != nil {
		return nil, &NovelError{NovelID: id, Op: "update", Err: err}
	}

	if err := s.attachRelated(ctx, novel); err != nil {
		return nil, err
	}
	return novel, nil
}

func (s *service) DeleteNovel(ctx context.Context, id int64) (*Novel, error) {
	novel, err := s.repository.GetNovel(ctx, id)
	if err != nil {
		return nil, &NovelError{NovelID: id, Op: "delete", Err: err}
	}

	// Snapshot related collections before they become unreachable.
	if err := s.attachRelated(ctx, novel); err != nil {
		return nil, err
	}

	if novel.CoverImage != "" {
		if ok := s.archiver.Retire(ctx, novel.CoverImage); !ok {
			s.logger.Warn("cover image was not retired", "novel_id", id, "cover_image", novel.CoverImage)
		}
	}

	if err := s.repository.DeleteNovel(ctx, id); err != nil {
		return nil, &NovelError{NovelID: id, Op: "delete", Err: err}
	}

	return novel, nil
}

// Chapter mutations

func (s *service) CreateChapter(ctx context.Context, req CreateChapterRequest) (*Chapter, error) {
	if req.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if req.Content == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}

	// Chapters are created only against an existing novel.
	if _, err := s.repository.GetNovel(ctx, req.NovelID); err != nil {
		return nil, &ChapterError{Op: "create", Err: err}
	}

	now := time.Now().UTC()
	chapter := &Chapter{
		Number:    req.Number,
		Title:     req.Title,
		Content:   req.Content,
		NovelID:   req.NovelID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.CreateChapter(ctx, chapter); err != nil {
		return nil, &ChapterError{Op: "create", Err: err}
	}
	return chapter, nil
}

func (s *service) UpdateChapter(ctx context.Context, id int64, req UpdateChapterRequest) (*Chapter, error) {
	if req.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if req.Content == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}

	chapter, err := s.repository.GetChapter(ctx, id)
	if err != nil {
		return nil, &ChapterError{ChapterID: id, Op: "update", Err: err}
	}

	chapter.Number = req.Number
	chapter.Title = req.Title
	chapter.Content = req.Content
	chapter.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateChapter(ctx, chapter); err != nil {
		return nil, &ChapterError{ChapterID: id, Op: "update", Err: err}
	}
	return chapter, nil
}

func (s *service) DeleteChapter(ctx context.Context, id int64) (*Chapter, error) {
	chapter, err := s.repository.GetChapter(ctx, id)
	if err != nil {
		return nil, &ChapterError{ChapterID: id, Op: "delete", Err: err}
	}
	if err := s.repository.DeleteChapter(ctx, id); err != nil {
		return nil, &ChapterError{ChapterID: id, Op: "delete", Err: err}
	}
	return chapter, nil
}

// Genre mutations

func (s *service) CreateGenre(ctx context.Context, req GenreRequest) (*Genre, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	genre := &Genre{Name: req.Name}
	if err := s.repository.CreateGenre(ctx, genre); err != nil {
		return nil, &GenreError{Op: "create", Err: err}
	}
	genre.Novels = []*Novel{}
	return genre, nil
}

func (s *service) UpdateGenre(ctx context.Context, id int64, req GenreRequest) (*Genre, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	genre, err := s.repository.GetGenre(ctx, id)
	if err != nil {
		return nil, &GenreError{GenreID: id, Op: "update", Err: err}
	}

	genre.Name = req.Name
	if err := s.repository.UpdateGenre(ctx, genre); err != nil {
		return nil, &GenreError{GenreID: id, Op: "update", Err: err}
	}

	novels, err := s.repository.ListNovelsForGenre(ctx, id)
	if err != nil {
		return nil, &GenreError{GenreID: id, Op: "update", Err: err}
	}
	genre.Novels = novels
	return genre, nil
}

func (s *service) DeleteGenre(ctx context.Context, id int64) (*Genre, error) {
	genre, err := s.repository.GetGenre(ctx, id)
	if err != nil {
		return nil, &GenreError{GenreID: id, Op: "delete", Err: err}
	}

	novels, err := s.repository.ListNovelsForGenre(ctx, id)
	if err != nil {
		return nil, &GenreError{GenreID: id, Op: "delete", Err: err}
	}
	genre.Novels = novels

	if err := s.repository.DeleteGenre(ctx, id); err != nil {
		return nil, &GenreError{GenreID: id, Op: "delete", Err: err}
	}
	return genre, nil
}

// RetireImage retires a bare reference; the boolean outcome is the whole
// result, failures are never escalated.
func (s *service) RetireImage(ctx context.Context, reference string) bool {
	return s.archiver.Retire(ctx, reference)
}

// Helper methods

func (s *service) attachRelated(ctx context.Context, novel *Novel) error {
	chapters, err := s.repository.ListChaptersForNovel(ctx, novel.ID)
	if err != nil {
		return &NovelError{NovelID: novel.ID, Op: "load_chapters", Err: err}
	}
	if chapters == nil {
		chapters = []*Chapter{}
	}
	genres, err := s.repository.ListGenresForNovel(ctx, novel.ID)
	if err != nil {
		return &NovelError{NovelID: novel.ID, Op: "load_genres", Err: err}
	}
	if genres == nil {
		genres = []*Genre{}
	}
	novel.Chapters = chapters
	novel.Genres = genres
	return nil
}

func validateNovelInput(title, author string, status NovelStatus) (NovelStatus, error) {
	if title == "" {
		return "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if author == "" {
		return "", &ValidationError{Field: "author", Reason: "must not be empty"}
	}
	if status == "" {
		return StatusOngoing, nil
	}
	if !status.IsValid() {
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("%q is not a known status", status)}
	}
	return status, nil
}
