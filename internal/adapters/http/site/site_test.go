package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	. "github.com/smartystreets/goconvey/convey"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":           {Data: []byte("<!doctype html><title>root</title>")},
		"app.js":               {Data: []byte("console.log('hi')")},
		"styles.css":           {Data: []byte("body{}")},
		"docs/index.html":      {Data: []byte("<title>docs</title>")},
		"empty/readme.txt":     {Data: []byte("no index here")},
		"img/logo.svg":         {Data: []byte("<svg/>")},
		"nested/dir/data.json": {Data: []byte(`{"k":1}`)},
	}
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler with the SPA fallback", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux, NewHandler(testFS(), true))

		Convey("Then / serves the index document", func() {
			w := serve(mux, http.MethodGet, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "<title>root</title>")
		})

		Convey("Then exact files are served with their content type", func() {
			cases := map[string]string{
				"/app.js":               "javascript",
				"/styles.css":           "text/css",
				"/img/logo.svg":         "image/svg+xml",
				"/nested/dir/data.json": "application/json",
			}
			for p, ct := range cases {
				w := serve(mux, http.MethodGet, p)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, ct)
			}
		})

		Convey("Then a directory serves its own index", func() {
			w := serve(mux, http.MethodGet, "/docs/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "<title>docs</title>")
		})

		Convey("Then unmatched paths fall back to the root index", func() {
			for _, p := range []string{"/nonexistent-path", "/runs/42/details", "/empty/"} {
				w := serve(mux, http.MethodGet, p)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "<title>root</title>")
			}
		})

		Convey("Then directory listings are never produced", func() {
			w := serve(mux, http.MethodGet, "/empty/")
			So(w.Body.String(), ShouldNotContainSubstring, "readme.txt")
		})

		Convey("Then HEAD is allowed and writes are not", func() {
			So(serve(mux, http.MethodHead, "/app.js").Code, ShouldEqual, http.StatusOK)
			w := serve(mux, http.MethodPost, "/app.js")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
		})
	})

	Convey("Given a site handler without the fallback", t, func() {
		h := NewHandler(testFS(), false)

		Convey("Then unmatched paths are 404", func() {
			So(serve(h, http.MethodGet, "/nonexistent-path").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then exact files are still served", func() {
			So(serve(h, http.MethodGet, "/app.js").Code, ShouldEqual, http.StatusOK)
		})
	})

	Convey("Given an asset root without an index document", t, func() {
		h := NewHandler(fstest.MapFS{"app.js": {Data: []byte("x")}}, true)

		So(errors.Is(h.CheckIndex(), ErrNoIndex), ShouldBeTrue)
		So(serve(h, http.MethodGet, "/").Code, ShouldEqual, http.StatusNotFound)
		So(serve(h, http.MethodGet, "/anything").Code, ShouldEqual, http.StatusNotFound)
	})
}

func TestSiteTraversal(t *testing.T) {
	Convey("Given an asset root on disk with a secret next to it", t, func() {
		parent := t.TempDir()
		root := filepath.Join(parent, "public")
		So(os.Mkdir(root, 0o755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(root, "index.html"), []byte("<title>root</title>"), 0o600), ShouldBeNil)
		So(os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("top secret"), 0o600), ShouldBeNil)

		fsys, err := FS(root)
		So(err, ShouldBeNil)
		h := NewHandler(fsys, true)

		Convey("When the raw path climbs out of the root", func() {
			for _, p := range []string{"/../secret.txt", "/a/../../secret.txt", "/..%2fsecret.txt", "/..\\secret.txt"} {
				req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
				req.URL.Path = p
				if p == "/..%2fsecret.txt" {
					req.URL.Path = "/../secret.txt"
					req.URL.RawPath = p
				}
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldNotContainSubstring, "top secret")
				So(w.Body.String(), ShouldNotContainSubstring, parent)
			}
		})
	})
}

func TestSiteSymlinkEscape(t *testing.T) {
	Convey("Given a static directory with a symlink pointing outside it", t, func() {
		parent := t.TempDir()
		root := filepath.Join(parent, "public")
		So(os.Mkdir(root, 0o755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(root, "index.html"), []byte("<title>root</title>"), 0o600), ShouldBeNil)
		So(os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("top secret"), 0o600), ShouldBeNil)
		if err := os.Symlink(filepath.Join(parent, "secret.txt"), filepath.Join(root, "leak.txt")); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}

		fsys, err := FS(root)
		So(err, ShouldBeNil)

		Convey("Then the link target is never served", func() {
			w := serve(NewHandler(fsys, false), http.MethodGet, "/leak.txt")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldNotContainSubstring, "top secret")
		})

		Convey("Then with the fallback the index is served instead", func() {
			w := serve(NewHandler(fsys, true), http.MethodGet, "/leak.txt")
			So(w.Body.String(), ShouldContainSubstring, "<title>root</title>")
			So(w.Body.String(), ShouldNotContainSubstring, "top secret")
		})
	})
}

func TestSiteFS(t *testing.T) {
	Convey("Given the embedded dashboard", t, func() {
		h := NewHandler(EmbeddedFS(), true)

		So(h.CheckIndex(), ShouldBeNil)
		for _, p := range []string{"/", "/app.js", "/styles.css"} {
			So(serve(h, http.MethodGet, p).Code, ShouldEqual, http.StatusOK)
		}
	})

	Convey("Given a static directory setting", t, func() {
		Convey("When it is empty", func() {
			fsys, err := FS("")
			So(err, ShouldBeNil)
			So(fsys, ShouldNotBeNil)
		})

		Convey("When it does not exist", func() {
			_, err := FS(filepath.Join(t.TempDir(), "missing"))
			So(err, ShouldNotBeNil)
		})

		Convey("When it is a file", func() {
			f := filepath.Join(t.TempDir(), "file.txt")
			So(os.WriteFile(f, []byte("x"), 0o600), ShouldBeNil)
			_, err := FS(f)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil, NewHandler(testFS(), true)) }, ShouldPanic)
	})
}
