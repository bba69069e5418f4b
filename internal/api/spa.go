package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// spaHandler serves built assets and falls back to index.html so the
// client router can resolve any other path.
type spaHandler struct {
	dir string
}

func newSPAHandler(dir string) spaHandler {
	if dir == "" {
		dir = staticDir()
	}
	return spaHandler{dir: dir}
}

// staticDir returns the path to the built client.
func staticDir() string {
	// Check if running from app directory (production container)
	if _, err := os.Stat("/app/dist"); err == nil {
		return "/app/dist"
	}
	return "dist"
}

func (s spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)
	file := filepath.Join(s.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))

	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		http.ServeFile(w, r, file)
		return
	}

	index := filepath.Join(s.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.Error(w, "client not built", http.StatusNotFound)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, index)
}
