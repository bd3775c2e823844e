package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FrontendHandler serves the prebuilt single-page app: real files from the
// build directory, index.html for every client-side route.
func (app *App) FrontendHandler(w http.ResponseWriter, r *http.Request) {
	if app.StaticDir == "" {
		http.NotFound(w, r)
		return
	}

	requested := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if requested == "." || strings.Contains(requested, "..") {
		requested = "index.html"
	}

	fullPath := filepath.Join(app.StaticDir, requested)
	if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
		http.ServeFile(w, r, fullPath)
		return
	}

	indexPath := filepath.Join(app.StaticDir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, indexPath)
}
