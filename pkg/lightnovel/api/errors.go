package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
)

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	var validationErr *lightnovel.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, lightnovel.ErrNovelNotFound),
		errors.Is(err, lightnovel.ErrChapterNotFound),
		errors.Is(err, lightnovel.ErrGenreNotFound):
		return http.StatusNotFound
	case errors.Is(err, lightnovel.ErrGenreNameExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// idParam parses the {id} route parameter as an int64.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
