package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	domainerrors "github.com/recipemanager/recipe-server/internal/errors"
)

// apiPrefixes are never answered with the SPA shell.
var apiPrefixes = []string{"recipes", "users", "tags", "meal-types", "cuisines", "health", "metrics", "docs", "openapi", "schemas"}

// spaHandler serves a built single-page frontend. Existing files are served
// as-is and every other path falls back to index.html so client-side
// routing works.
type spaHandler struct {
	root  string
	files http.Handler
}

// frontendHandler returns nil when no frontend build is configured or the
// directory has no index.html.
func (s *Server) frontendHandler() http.Handler {
	dir := s.cfg.Server.FrontendDir
	if dir == "" {
		return nil
	}
	info, err := os.Stat(filepath.Join(dir, "index.html"))
	if err != nil || info.IsDir() {
		return nil
	}

	s.logger.Info("Serving frontend", "dir", dir)
	return &spaHandler{root: dir, files: http.FileServer(http.Dir(dir))}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		notFound(w)
		return
	}

	clean := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	for _, prefix := range apiPrefixes {
		if strings.HasPrefix(clean, prefix) {
			notFound(w)
			return
		}
	}

	if clean != "" {
		if info, err := os.Stat(filepath.Join(h.root, filepath.FromSlash(clean))); err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	}

	http.ServeFile(w, r, filepath.Join(h.root, "index.html"))
}

// notFound reports an unknown path with the API error shape.
func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, &APIError{
		Code:    string(domainerrors.CodeNotFound),
		Message: "Not Found",
	})
}
