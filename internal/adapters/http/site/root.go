// Package site serves the dashboard's static assets at the root namespace.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/okian/pipedash/pkg/metrics"
)

// IndexDocument is served for directories and, with the SPA fallback, for
// any path that has no matching file.
const IndexDocument = "index.html"

// Error constants
var (
	ErrNoIndex = errors.New("asset root has no index document")
)

// Handler serves files from an fs.FS.
type Handler struct {
	fsys     fs.FS
	fallback bool
}

// NewHandler creates a handler for fsys. With fallback enabled, unmatched
// paths resolve to the root index document.
func NewHandler(fsys fs.FS, fallback bool) *Handler {
	return &Handler{fsys: fsys, fallback: fallback}
}

// Register attaches the asset host to mux as the catch-all route.
// More specific patterns registered on the same mux take precedence.
func Register(_ context.Context, mux *http.ServeMux, h *Handler) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", h)
}

// CheckIndex reports whether the root index document exists.
func (h *Handler) CheckIndex() error {
	info, err := fs.Stat(h.fsys, IndexDocument)
	if err != nil || info.IsDir() {
		return ErrNoIndex
	}
	return nil
}

// ServeHTTP resolves the request path inside the asset root. Paths with ".."
// segments and anything that cannot be resolved without the fallback are 404s;
// filesystem errors are never shown to the client.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if containsDotDot(r.URL.Path) {
		http.NotFound(w, r)
		return
	}

	name, ok := h.resolve(r.URL.Path)
	if !ok {
		if !h.fallback || h.CheckIndex() != nil {
			http.NotFound(w, r)
			return
		}
		metrics.RecordAssetFallback()
		name = IndexDocument
	}

	http.ServeFileFS(w, r, h.fsys, name)
}

// resolve maps a URL path to a regular file in the asset root.
func (h *Handler) resolve(urlPath string) (string, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}
	if !fs.ValidPath(name) {
		return "", false
	}

	info, err := fs.Stat(h.fsys, name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		name = path.Join(name, IndexDocument)
		info, err = fs.Stat(h.fsys, name)
		if err != nil || info.IsDir() {
			return "", false
		}
	}
	return name, true
}

func containsDotDot(v string) bool {
	if !strings.Contains(v, "..") {
		return false
	}
	for _, ent := range strings.FieldsFunc(v, isSlashRune) {
		if ent == ".." {
			return true
		}
	}
	return false
}

func isSlashRune(r rune) bool { return r == '/' || r == '\\' }
