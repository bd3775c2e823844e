package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(app.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Post("/api/upload", app.UploadHandler)
	r.Get("/api/videos", app.ListMediaHandler)
	r.Post("/api/analyze", app.AnalyzeHandler)

	r.Method(http.MethodGet, "/metrics", app.Metrics.Handler())

	uploadServer := http.FileServer(http.Dir(app.UploadDir))
	r.Handle("/uploads/*", http.StripPrefix("/uploads", uploadServer))

	preloadedServer := http.FileServer(http.Dir(app.PreloadedDir))
	r.Handle("/videos/*", http.StripPrefix("/videos", preloadedServer))

	// Everything else belongs to the frontend bundle.
	r.NotFound(app.FrontendHandler)

	return r
}
