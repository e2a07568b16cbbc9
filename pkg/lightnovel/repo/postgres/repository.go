package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
)

// DBTX is an interface that allows us to use either a connection pool or a
// transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// Repository implements lightnovel.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "genre") {
				return lightnovel.ErrGenreNameExists
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			if strings.Contains(pgErr.ConstraintName, "genre") {
				return lightnovel.ErrGenreNotFound
			}
			if strings.Contains(pgErr.ConstraintName, "novel") {
				return lightnovel.ErrNovelNotFound
			}
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Novel operations

func (r *Repository) CreateNovel(ctx context.Context, novel *lightnovel.Novel) error {
	query := `
		INSERT INTO novel (title, description, cover_image, author, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		novel.Title, novel.Description, novel.CoverImage, novel.Author,
		novel.Status, novel.CreatedAt, novel.UpdatedAt).Scan(&novel.ID)
	if err != nil {
		return r.handlePostgresError("create novel", err)
	}
	return nil
}

func (r *Repository) GetNovel(ctx context.Context, id int64) (*lightnovel.Novel, error) {
	query := `
		SELECT id, title, description, cover_image, author, status, created_at, updated_at
		FROM novel WHERE id = $1`

	var novel lightnovel.Novel
	err := r.db.QueryRow(ctx, query, id).Scan(
		&novel.ID, &novel.Title, &novel.Description, &novel.CoverImage,
		&novel.Author, &novel.Status, &novel.CreatedAt, &novel.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, lightnovel.ErrNovelNotFound
		}
		return nil, r.handlePostgresError("get novel", err)
	}
	return &novel, nil
}

func (r *Repository) ListNovels(ctx context.Context) ([]*lightnovel.Novel, error) {
	query := `
		SELECT id, title, description, cover_image, author, status, created_at, updated_at
		FROM novel ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list novels", err)
	}
	defer rows.Close()

	var novels []*lightnovel.Novel
	for rows.Next() {
		var novel lightnovel.Novel
		if err := rows.Scan(
			&novel.ID, &novel.Title, &novel.Description, &novel.CoverImage,
			&novel.Author, &novel.Status, &novel.CreatedAt, &novel.UpdatedAt); err != nil {
			return nil, r.handlePostgresError("scan novel", err)
		}
		novels = append(novels, &novel)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate novel rows", err)
	}
	return novels, nil
}

func (r *Repository) UpdateNovel(ctx context.Context, novel *lightnovel.Novel) error {
	query := `
		UPDATE novel SET
			title = $2, description = $3, cover_image = $4, author = $5,
			status = $6, updated_at = $7
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		novel.ID, novel.Title, novel.Description, novel.CoverImage,
		novel.Author, novel.Status, novel.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update novel", err)
	}
	if tag.RowsAffected() == 0 {
		return lightnovel.ErrNovelNotFound
	}
	return nil
}

func (r *Repository) DeleteNovel(ctx context.Context, id int64) error {
	// Chapters cascade and genre links clear via FK constraints.
	tag, err := r.db.Exec(ctx, `DELETE FROM novel WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete novel", err)
	}
	if tag.RowsAffected() == 0 {
		return lightnovel.ErrNovelNotFound
	}
	return nil
}

// ReplaceNovelGenres disconnects all existing links then connects the given
// set. Both phases run in one transaction so a concurrent reader never
// observes the novel with zero genres between them.
func (r *Repository) ReplaceNovelGenres(ctx context.Context, novelID int64, genreIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return r.handlePostgresError("replace novel genres", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM novel WHERE id = $1)`, novelID).Scan(&exists); err != nil {
		return r.handlePostgresError("replace novel genres", err)
	}
	if !exists {
		return lightnovel.ErrNovelNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM novel_genre WHERE novel_id = $1`, novelID); err != nil {
		return r.handlePostgresError("disconnect novel genres", err)
	}
	for _, genreID := range genreIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO novel_genre (novel_id, genre_id) VALUES ($1, $2)`, novelID, genreID); err != nil {
			return r.handlePostgresError("connect novel genre", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return r.handlePostgresError("replace novel genres", err)
	}
	return nil
}

func (r *Repository) ListGenresForNovel(ctx context.Context, novelID int64) ([]*lightnovel.Genre, error) {
	query := `
		SELECT g.id, g.name
		FROM genre g
		JOIN novel_genre ng ON ng.genre_id = g.id
		WHERE ng.novel_id = $1
		ORDER BY g.name`

	rows, err := r.db.Query(ctx, query, novelID)
	if err != nil {
		return nil, r.handlePostgresError("list genres for novel", err)
	}
	defer rows.Close()

	var genres []*lightnovel.Genre
	for rows.Next() {
		var genre lightnovel.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, r.handlePostgresError("scan genre", err)
		}
		genres = append(genres, &genre)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate genre rows", err)
	}
	return genres, nil
}

// Chapter operations

func (r *Repository) CreateChapter(ctx context.Context, chapter *lightnovel.Chapter) error {
	query := `
		INSERT INTO chapter (number, title, content, novel_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		chapter.Number, chapter.Title, chapter.Content, chapter.NovelID,
		chapter.CreatedAt, chapter.UpdatedAt).Scan(&chapter.ID)
	if err != nil {
		return r.handlePostgresError("create chapter", err)
	}
	return nil
}

func (r *Repository) GetChapter(ctx context.Context, id int64) (*lightnovel.Chapter, error) {
	query := `
		SELECT id, number, title, content, novel_id, created_at, updated_at
		FROM chapter WHERE id = $1`

	var chapter lightnovel.Chapter
	err := r.db.QueryRow(ctx, query, id).Scan(
		&chapter.ID, &chapter.Number, &chapter.Title, &chapter.Content,
		&chapter.NovelID, &chapter.CreatedAt, &chapter.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, lightnovel.ErrChapterNotFound
		}
		return nil, r.handlePostgresError("get chapter", err)
	}
	return &chapter, nil
}

func (r *Repository) ListChaptersForNovel(ctx context.Context, novelID int64) ([]*lightnovel.Chapter, error) {
	query := `
		SELECT id, number, title, content, novel_id, created_at, updated_at
		FROM chapter WHERE novel_id = $1
		ORDER BY number ASC`

	rows, err := r.db.Query(ctx, query, novelID)
	if err != nil {
		return nil, r.handlePostgresError("list chapters", err)
	}
	defer rows.Close()

	var chapters []*lightnovel.Chapter
	for rows.Next() {
		var chapter lightnovel.Chapter
		if err := rows.Scan(
			&chapter.ID, &chapter.Number, &chapter.Title, &chapter.Content,
			&chapter.NovelID, &chapter.CreatedAt, &chapter.UpdatedAt); err != nil {
			return nil, r.handlePostgresError("scan chapter", err)
		}
		chapters = append(chapters, &chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate chapter rows", err)
	}
	return chapters, nil
}

func (r *Repository) UpdateChapter(ctx context.Context, chapter *lightnovel.Chapter) error {
	// novel_id is deliberately absent: reparenting is not supported.
	query := `
		UPDATE chapter SET number = $2, title = $3, content = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		chapter.ID, chapter.Number, chapter.Title, chapter.Content, chapter.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update chapter", err)
	}
	if tag.RowsAffected() == 0 {
		return lightnovel.ErrChapterNotFound
	}
	return nil
}

func (r *Repository) DeleteChapter(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM chapter WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete chapter", err)
	}
	if tag.RowsAffected() == 0 {
		return lightnovel.ErrChapterNotFound
	}
	return nil
}

// Genre operations

func (r *Repository) CreateGenre(ctx context.Context, genre *lightnovel.Genre) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO genre (name) VALUES ($1) RETURNING id`, genre.Name).Scan(&genre.ID)
	if err != nil {
		return r.handlePostgresError("create genre", err)
	}
	return nil
}

func (r *Repository) GetGenre(ctx context.Context, id int64) (*lightnovel.Genre, error) {
	var genre lightnovel.Genre
	err := r.db.QueryRow(ctx, `SELECT id, name FROM genre WHERE id = $1`, id).
		Scan(&genre.ID, &genre.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, lightnovel.ErrGenreNotFound
		}
		return nil, r.handlePostgresError("get genre", err)
	}
	return &genre, nil
}

func (r *Repository) ListGenres(ctx context.Context) ([]*lightnovel.Genre, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM genre ORDER BY name`)
	if err != nil {
		return nil, r.handlePostgresError("list genres", err)
	}
	defer rows.Close()

	var genres []*lightnovel.Genre
	for rows.Next() {
		var genre lightnovel.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, r.handlePostgresError("scan genre", err)
		}
		genres = append(genres, &genre)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate genre rows", err)
	}
	return genres, nil
}

func (r *Repository) UpdateGenre(ctx context.Context, genre *lightnovel.Genre) error {
	tag, err := r.db.Exec(ctx, `UPDATE genre SET name = $2 WHERE id = $1`, genre.ID, genre.Name)
	if err != nil {
		return r.handlePostgresError("update genre", err)
	}
	if tag.RowsAffected() == 0 {
		return lightnovel.ErrGenreNotFound
	}
	return nil
}

func (r *Repository) DeleteGenre(ctx context.Context, id int64) error {
	// Join rows clear via FK cascade; novels are untouched.
	tag, err := r.db.Exec(ctx, `DELETE FROM genre WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete genre", err)
	}
	if tag.RowsAffected() == 0 {
		return lightnovel.ErrGenreNotFound
	}
	return nil
}

func (r *Repository) ListNovelsForGenre(ctx context.Context, genreID int64) ([]*lightnovel.Novel, error) {
	query := `
		SELECT n.id, n.title, n.description, n.cover_image, n.author, n.status, n.created_at, n.updated_at
		FROM novel n
		JOIN novel_genre ng ON ng.novel_id = n.id
		WHERE ng.genre_id = $1
		ORDER BY n.id`

	rows, err := r.db.Query(ctx, query, genreID)
	if err != nil {
		return nil, r.handlePostgresError("list novels for genre", err)
	}
	defer rows.Close()

	var novels []*lightnovel.Novel
	for rows.Next() {
		var novel lightnovel.Novel
		if err := rows.Scan(
			&novel.ID, &novel.Title, &novel.Description, &novel.CoverImage,
			&novel.Author, &novel.Status, &novel.CreatedAt, &novel.UpdatedAt); err != nil {
			return nil, r.handlePostgresError("scan novel", err)
		}
		novels = append(novels, &novel)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate novel rows", err)
	}
	return novels, nil
}
