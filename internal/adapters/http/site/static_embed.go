package site

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed static/*
var staticFS embed.FS

// EmbeddedFS returns the dashboard bundled into the binary.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Should never happen: the static directory is embedded at build time.
		return staticFS
	}
	return sub
}

// FS returns dir confined as an os.Root when dir is set, otherwise the embedded dashboard.
func FS(dir string) (fs.FS, error) {
	if dir == "" {
		return EmbeddedFS(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrInvalid}
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	// The root stays open for the life of the process; symlinks may not
	// resolve outside dir.
	return root.FS(), nil
}
