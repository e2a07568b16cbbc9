package lightnovel

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNovelNotFound indicates a novel was not found
	ErrNovelNotFound = errors.New("novel not found")

	// ErrChapterNotFound indicates a chapter was not found
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrGenreNotFound indicates a genre was not found
	ErrGenreNotFound = errors.New("genre not found")

	// ErrInvalidNovelStatus indicates a status outside the publication enum
	ErrInvalidNovelStatus = errors.New("invalid novel status")

	// ErrGenreNameExists indicates a genre name collides with an existing one
	ErrGenreNameExists = errors.New("genre name already exists")
)

// ValidationError rejects a mutation input before any persistence call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NovelError represents an error related to novel operations
type NovelError struct {
	NovelID int64
	Op      string
	Err     error
}

func (e *NovelError) Error() string {
	return fmt.Sprintf("novel operation %s failed for novel %d: %v", e.Op, e.NovelID, e.Err)
}

func (e *NovelError) Unwrap() error {
	return e.Err
}

// ChapterError represents an error related to chapter operations
type ChapterError struct {
	ChapterID int64
	Op        string
	Err       error
}

func (e *ChapterError) Error() string {
	return fmt.Sprintf("chapter operation %s failed for chapter %d: %v", e.Op, e.ChapterID, e.Err)
}

func (e *ChapterError) Unwrap() error {
	return e.Err
}

// GenreError represents an error related to genre operations
type GenreError struct {
	GenreID int64
	Op      string
	Err     error
}

func (e *GenreError) Error() string {
	return fmt.Sprintf("genre operation %s failed for genre %d: %v", e.Op, e.GenreID, e.Err)
}

func (e *GenreError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
