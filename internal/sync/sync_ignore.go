package sync

import (
	"path"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// defaultIgnoreLines excludes version-control metadata from every sync,
// matching the action's historical behaviour.
var defaultIgnoreLines = []string{
	".git/",
	"*.git*",
	"*.github*",
}

// IgnoreList decides which relative paths stay out of a sync. Built-in
// lines use gitignore semantics; user-supplied patterns are doublestar
// globs matched against both the full relative path and the basename.
type IgnoreList struct {
	ignore   *gitignore.GitIgnore
	patterns []string
}

func NewIgnoreList(patterns ...string) *IgnoreList {
	return &IgnoreList{
		ignore:   gitignore.CompileIgnoreLines(defaultIgnoreLines...),
		patterns: patterns,
	}
}

func (l *IgnoreList) ShouldIgnore(relPath string) bool {
	if l.ignore.MatchesPath(relPath) {
		return true
	}

	for _, pattern := range l.patterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, path.Base(relPath)); ok {
			return true
		}
	}

	return false
}
