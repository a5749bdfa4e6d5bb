package sync

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// LocalFile is a single file selected for upload.
type LocalFile struct {
	// Path is the destination path in the repo, slash-separated and
	// relative to the sync root (subdirectory contents land at the
	// remote root).
	Path string

	// SourcePath is the absolute local path.
	SourcePath string

	Size int64
}

// ListLocalFiles walks root and returns every file that survives the ignore
// list and, when allow patterns are given, matches at least one of them.
// Ignored directories are pruned without descending. Symlinks and other
// non-regular entries are skipped. Results come back in lexical order.
func ListLocalFiles(root string, ignore *IgnoreList, allow []string) ([]*LocalFile, error) {
	var files []*LocalFile

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ignore.ShouldIgnore(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			slog.Debug("skipping non-regular file", "path", rel, "mode", d.Type())
			return nil
		}
		if ignore.ShouldIgnore(rel) {
			return nil
		}
		if !matchesAllow(rel, allow) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, &LocalFile{
			Path:       rel,
			SourcePath: p,
			Size:       info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

func matchesAllow(relPath string, allow []string) bool {
	if len(allow) == 0 {
		return true
	}
	for _, pattern := range allow {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, path.Base(relPath)); ok {
			return true
		}
	}
	return false
}
