package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/EgieSugina/wb-ln-server/pkg/lightnovel"
)

// NewRouter assembles the full HTTP surface of the catalog service under
// /api/v1, plus a health check at /health.
func NewRouter(service lightnovel.Service, store lightnovel.BlobStore, bucket, publicBaseURL string) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	novelHandler := NewNovelHandler(service)
	chapterHandler := NewChapterHandler(service)
	genreHandler := NewGenreHandler(service)
	imageHandler := NewImageHandler(service, store, bucket, publicBaseURL)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/novels", novelHandler.Routes())
		r.Mount("/chapters", chapterHandler.Routes())
		r.Mount("/genres", genreHandler.Routes())
		r.Mount("/images", imageHandler.Routes())
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
