package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
)

// CreateChapterRequest is the request body for creating a chapter
type CreateChapterRequest struct {
	Number  float64 `json:"number"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	NovelID int64   `json:"novel_id"`
}

// UpdateChapterRequest is the request body for updating a chapter. The
// chapter cannot be moved to another novel.
type UpdateChapterRequest struct {
	Number  float64 `json:"number"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
}

// ChapterHandler handles HTTP requests for chapters
type ChapterHandler struct {
	service lightnovel.Service
}

// NewChapterHandler creates a new chapter handler
func NewChapterHandler(service lightnovel.Service) *ChapterHandler {
	return &ChapterHandler{service: service}
}

// Routes returns the routes for chapters
func (h *ChapterHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateChapter)
	r.Get("/{id}", h.GetChapter)
	r.Put("/{id}", h.UpdateChapter)
	r.Delete("/{id}", h.DeleteChapter)

	return r
}

// CreateChapter creates a new chapter under an existing novel
func (h *ChapterHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	var req CreateChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chapter, err := h.service.CreateChapter(r.Context(), lightnovel.CreateChapterRequest{
		Number:  req.Number,
		Title:   req.Title,
		Content: req.Content,
		NovelID: req.NovelID,
	})
	if err != nil {
		slog.Error("Failed to create chapter", "novel_id", req.NovelID, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Chapter created", "chapter_id", chapter.ID, "novel_id", chapter.NovelID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, chapter)
}

// GetChapter retrieves a chapter by ID
func (h *ChapterHandler) GetChapter(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "Invalid chapter ID", http.StatusBadRequest)
		return
	}

	chapter, err := h.service.Chapter(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get chapter", "chapter_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	render.JSON(w, r, chapter)
}

// UpdateChapter updates a chapter by ID
func (h *ChapterHandler) UpdateChapter(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "Invalid chapter ID", http.StatusBadRequest)
		return
	}

	var req UpdateChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chapter, err := h.service.UpdateChapter(r.Context(), id, lightnovel.UpdateChapterRequest{
		Number:  req.Number,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		slog.Error("Failed to update chapter", "chapter_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Chapter updated", "chapter_id", id)
	render.JSON(w, r, chapter)
}

// DeleteChapter deletes a chapter by ID and returns its pre-deletion snapshot
func (h *ChapterHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "Invalid chapter ID", http.StatusBadRequest)
		return
	}

	chapter, err := h.service.DeleteChapter(r.Context(), id)
	if err != nil {
		slog.Error("Failed to delete chapter", "chapter_id", id, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	slog.Info("Chapter deleted", "chapter_id", id)
	render.JSON(w, r, chapter)
}
