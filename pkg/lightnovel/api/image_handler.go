package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
)

const (
	maxUploadSize = 10 << 20 // 10 MB
	coverPrefix   = "novel-covers/"
)

// UploadResponse is the response body for a cover upload
type UploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// RetireRequest is the request body for discarding an uploaded image
type RetireRequest struct {
	URL string `json:"url"`
}

// ImageHandler handles cover image uploads and standalone retirement
type ImageHandler struct {
	service       lightnovel.Service
	store         lightnovel.BlobStore
	bucket        string
	publicBaseURL string
}

// NewImageHandler creates a new image handler
func NewImageHandler(service lightnovel.Service, store lightnovel.BlobStore, bucket, publicBaseURL string) *ImageHandler {
	return &ImageHandler{
		service:       service,
		store:         store,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Routes returns the routes for images
func (h *ImageHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Upload)
	r.Post("/retire", h.Retire)

	return r
}

// Upload stores a cover image under a fresh key and returns its public URL
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "No storage backend configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		slog.Warn("Rejected non-image upload", "file_name", header.Filename, "mime_type", mimeType)
		http.Error(w, "Only image uploads are accepted", http.StatusBadRequest)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	objectKey := coverPrefix + uuid.New().String() + ext

	if err := h.store.Upload(r.Context(), objectKey, file, mimeType); err != nil {
		slog.Error("Failed to upload cover image", "object_key", objectKey, "error", err)
		http.Error(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	resp := UploadResponse{
		URL: h.publicBaseURL + "/" + h.bucket + "/" + objectKey,
		Key: objectKey,
	}

	slog.Info("Cover image uploaded", "object_key", objectKey, "size", header.Size)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

// Retire moves an uploaded-but-unattached image into the retired area
func (h *ImageHandler) Retire(w http.ResponseWriter, r *http.Request) {
	var req RetireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		http.Error(w, "Missing url", http.StatusBadRequest)
		return
	}

	if ok := h.service.RetireImage(r.Context(), req.URL); !ok {
		slog.Warn("Image was not retired", "url", req.URL)
		http.Error(w, "Image could not be retired", http.StatusBadGateway)
		return
	}

	slog.Info("Image retired", "url", req.URL)
	render.JSON(w, r, map[string]any{"retired": true, "url": req.URL})
}
