// ABOUTME: Resolution of artwork image references stored as opaque strings
// ABOUTME: Tries URL, bundled asset directory, then filesystem path in order

// Package imageref resolves the image reference strings stored on
// artworks. The store keeps references verbatim; this is the only place
// the lookup chain lives: an absolute URL is returned as-is, otherwise
// the bundled asset directory is searched, otherwise the reference is
// treated as a filesystem path.
package imageref

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
)

// ErrUnresolved is returned when a reference matches none of the lookup steps.
var ErrUnresolved = errors.New("image reference not resolvable")

// Resolve maps an artwork image reference to something a renderer can
// open: either a URL or an existing filesystem path. assetsDir may be
// empty when no bundled assets ship with the build.
func Resolve(ref, assetsDir string) (string, error) {
	if ref == "" {
		return "", ErrUnresolved
	}

	if u, err := url.Parse(ref); err == nil {
		switch u.Scheme {
		case "http", "https":
			return ref, nil
		case "file":
			return u.Path, nil
		}
	}

	if assetsDir != "" {
		candidate := filepath.Join(assetsDir, filepath.FromSlash(ref))
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	if fileExists(ref) {
		return ref, nil
	}

	return "", ErrUnresolved
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
