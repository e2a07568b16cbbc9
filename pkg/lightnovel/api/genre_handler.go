package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
)

// GenreRequest is the request body for creating or renaming a genre
type GenreRequest struct {
	Name string `json:"name"`
}

// GenreHandler handles HTTP requests for genres
type GenreHandler struct {
	service lightnovel.Service
}

// NewGenreHandler creates a new genre handler
func NewGenreHandler(service lightnovel.Service) *GenreHandler {
	return &GenreHandler{service: service}
}

// Routes returns the routes for genres
func (h *GenreHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListGenres)
	r.Post("/", h.CreateGenre)
	r.Get("/{id}", h.GetGenre)
	r.Put("/{id}", h.UpdateGenre)
	r.Delete("/{id}", h.DeleteGenre)

	return r
}

// ListGenres lists all genres with their related novels
func (h *GenreHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.Genres(r.Context())
	if err != nil {
		slog.Error("Failed to list genres", "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	if genres == nil {
		genres = []*lightnovel.Genre{}
	}
	render.JSON(w, r, genres)
}

// CreateGenre creates a new genre
func (h *GenreHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req GenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), lightnovel.GenreRequest{Name: req.Name})
	if err != nil {
		slog.Error("Failed to create genre", "name", req.Name, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Genre created", "genre_id", genre.ID, "name", genre.Name)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, genre)
}

// GetGenre retrieves a genre by ID with its related novels
func (h *GenreHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "Invalid genre ID", http.StatusBadRequest)
		return
	}

	genre, err := h.service.Genre(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get genre", "genre_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	render.JSON(w, r, genre)
}

// UpdateGenre renames a genre by ID
func (h *GenreHandler) UpdateGenre(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "Invalid genre ID", http.StatusBadRequest)
		return
	}

	var req GenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	genre, err := h.service.UpdateGenre(r.Context(), id, lightnovel.GenreRequest{Name: req.Name})
	if err != nil {
		slog.Error("Failed to update genre", "genre_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Genre updated", "genre_id", id)
	render.JSON(w, r, genre)
}

// DeleteGenre deletes a genre by ID. Related novels survive with the
// association severed.
func (h *GenreHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "Invalid genre ID", http.StatusBadRequest)
		return
	}

	genre, err := h.service.DeleteGenre(r.Context(), id)
	if err != nil {
		slog.Error("Failed to delete genre", "genre_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Genre deleted", "genre_id", id)
	render.JSON(w, r, genre)
}
