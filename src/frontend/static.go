// Package frontend serves the level editor's static files.
package frontend

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// safeFileSystem wraps http.Dir to prevent directory traversal attacks.
type safeFileSystem struct {
	root string
}

// Open implements http.FileSystem with path traversal protection.
func (fs safeFileSystem) Open(name string) (http.File, error) {
	cleanPath := filepath.Clean("/" + filepath.FromSlash(name))

	fullPath := filepath.Join(fs.root, cleanPath)

	absRoot, err := filepath.Abs(fs.root)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return nil, err
	}

	// the resolved path must stay inside the root
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) && absPath != absRoot {
		return nil, os.ErrNotExist
	}

	return os.Open(absPath)
}

// NewSafeFileSystem creates a new safe file system that prevents path traversal.
func NewSafeFileSystem(root string) http.FileSystem {
	return safeFileSystem{root: root}
}

// NewFileServer returns a handler serving the files under root, with
// index.html as the default document of a directory.
func NewFileServer(root string) http.Handler {
	return http.FileServer(NewSafeFileSystem(root))
}
