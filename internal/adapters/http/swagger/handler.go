package swagger

import (
	"context"
	"net/http"
	"strings"
)

// Register attaches the API reference routes to mux under prefix.
// Routes:
//
//	GET {prefix}/docs          -> ReDoc HTML
//	GET {prefix}/openapi.yaml  -> Embedded OpenAPI document
func Register(_ context.Context, mux *http.ServeMux, prefix string) {
	if mux == nil {
		panic("mux is nil")
	}
	prefix = strings.TrimSuffix(prefix, "/")
	specPath := prefix + "/openapi.yaml"

	page := strings.ReplaceAll(indexHTML, "{{document}}", specPath)
	mux.HandleFunc(prefix+"/docs", readOnly(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))

	mux.HandleFunc(specPath, readOnly(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	}))
}

func readOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

// Minimal HTML that loads ReDoc and points it at the embedded document.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>pipedash API - ReDoc</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
    <script>Redoc.init('{{document}}', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
