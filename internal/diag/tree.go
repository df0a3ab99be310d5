// Package diag provides directory-tree introspection for debugging
// deployment layouts. Inaccessible entries are logged and skipped, never
// fatal.
package diag

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go-image-compress/internal/logger"
)

// Entry describes one filesystem entry in a tree listing
type Entry struct {
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	Mode  string `json:"mode"`
	IsDir bool   `json:"is_dir"`
}

// Tree walks root up to maxDepth levels and returns the entries it could
// read. Entries that cannot be statted are logged at warn level and skipped.
func Tree(root string, maxDepth int) []Entry {
	var entries []Entry

	root = filepath.Clean(root)
	baseDepth := strings.Count(root, string(os.PathSeparator))

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.WithError(err).WithField("path", path).Warn("Skipping inaccessible entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		depth := strings.Count(filepath.Clean(path), string(os.PathSeparator)) - baseDepth
		if maxDepth > 0 && depth > maxDepth {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.WithError(err).WithField("path", path).Warn("Skipping unreadable entry")
			return nil
		}

		entries = append(entries, Entry{
			Path:  path,
			Size:  info.Size(),
			Mode:  info.Mode().String(),
			IsDir: d.IsDir(),
		})
		return nil
	})
	if err != nil {
		logger.WithError(err).WithField("root", root).Warn("Directory walk ended early")
	}

	return entries
}
