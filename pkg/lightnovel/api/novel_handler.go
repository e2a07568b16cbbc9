package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
)

// NovelRequest is the request body for creating or updating a novel. A
// missing genre_ids field leaves genre relations untouched; an empty array
// clears them.
type NovelRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CoverImage  string  `json:"cover_image"`
	Author      string  `json:"author"`
	Status      string  `json:"status"`
	GenreIDs    []int64 `json:"genre_ids"`
}

// NovelHandler handles HTTP requests for novels
type NovelHandler struct {
	service lightnovel.Service
}

// NewNovelHandler creates a new novel handler
func NewNovelHandler(service lightnovel.Service) *NovelHandler {
	return &NovelHandler{service: service}
}

// Routes returns the routes for novels
func (h *NovelHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListNovels)
	r.Post("/", h.CreateNovel)
	r.Get("/{id}", h.GetNovel)
	r.Put("/{id}", h.UpdateNovel)
	r.Delete("/{id}", h.DeleteNovel)
	r.Get("/{id}/chapters", h.ListChapters)

	return r
}

// ListNovels lists all novels with chapters and genres attached
func (h *NovelHandler) ListNovels(w http.ResponseWriter, r *http.Request) {
	novels, err := h.service.Novels(r.Context())
	if err != nil {
		slog.Error("Failed to list novels", "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	if novels == nil {
		novels = []*lightnovel.Novel{}
	}
	render.JSON(w, r, novels)
}

// CreateNovel creates a new novel
func (h *NovelHandler) CreateNovel(w http.ResponseWriter, r *http.Request) {
	var req NovelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	novel, err := h.service.CreateNovel(r.Context(), lightnovel.CreateNovelRequest{
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Author:      req.Author,
		Status:      lightnovel.NovelStatus(req.Status),
		GenreIDs:    req.GenreIDs,
	})
	if err != nil {
		slog.Error("Failed to create novel", "title", req.Title, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Novel created", "novel_id", novel.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, novel)
}

// GetNovel retrieves a novel by ID
func (h *NovelHandler) GetNovel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "Invalid novel ID", http.StatusBadRequest)
		return
	}

	novel, err := h.service.Novel(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get novel", "novel_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	render.JSON(w, r, novel)
}

// UpdateNovel updates a novel by ID
func (h *NovelHandler) UpdateNovel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "Invalid novel ID", http.StatusBadRequest)
		return
	}

	var req NovelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	novel, err := h.service.UpdateNovel(r.Context(), id, lightnovel.UpdateNovelRequest{
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Author:      req.Author,
		Status:      lightnovel.NovelStatus(req.Status),
		GenreIDs:    req.GenreIDs,
	})
	if err != nil {
		slog.Error("Failed to update novel", "novel_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Novel updated", "novel_id", id)
	render.JSON(w, r, novel)
}

// DeleteNovel deletes a novel by ID and returns its pre-deletion snapshot
func (h *NovelHandler) DeleteNovel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "Invalid novel ID", http.StatusBadRequest)
		return
	}

	novel, err := h.service.DeleteNovel(r.Context(), id)
	if err != nil {
		slog.Error("Failed to delete novel", "novel_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Novel deleted", "novel_id", id)
	render.JSON(w, r, novel)
}

// ListChapters lists the chapters of a novel ordered by number
func (h *NovelHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "Invalid novel ID", http.StatusBadRequest)
		return
	}

	// Distinguish an unknown novel from one with no chapters.
	if _, err := h.service.Novel(r.Context(), id); err != nil {
		slog.Error("Failed to get novel", "novel_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	chapters, err := h.service.Chapters(r.Context(), id)
	if err != nil {
		slog.Error("Failed to list chapters", "novel_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	if chapters == nil {
		chapters = []*lightnovel.Chapter{}
	}
	render.JSON(w, r, chapters)
}
