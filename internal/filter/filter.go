// Package filter evaluates include/exclude glob patterns and depth policy
// against candidate paths. It performs no I/O.
package filter

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/petrarca/repo-scanner/internal/types"
)

// PathFilter decides which entries a traversal visits.
type PathFilter struct {
	include  []string
	exclude  []string
	maxDepth int
}

// New creates a filter from traversal options.
func New(opts types.TraversalOptions) *PathFilter {
	return &PathFilter{
		include:  opts.Include,
		exclude:  opts.Exclude,
		maxDepth: opts.MaxDepth,
	}
}

// ShouldVisit reports whether an entry at relPath (root-relative, "/"
// separated) should appear in the scan result. Exclude patterns always win
// over include patterns; an empty include set matches everything.
// Directories are matched against include patterns leniently: a directory
// is visited when any include pattern could match something beneath it,
// otherwise include-filtered trees would never be descended into.
func (f *PathFilter) ShouldVisit(relPath string, isDir bool, depth int) bool {
	if depth > f.maxDepth {
		return false
	}

	if f.matchesAny(f.exclude, relPath) {
		return false
	}

	if len(f.include) == 0 {
		return true
	}

	if isDir {
		// Keep descending as long as some include pattern can still
		// match below this directory
		return f.canMatchBelow(relPath)
	}

	return f.matchesAny(f.include, relPath)
}

// matchesAny matches patterns against both the full relative path and the
// base name, the same way CLI exclude patterns behave elsewhere in the
// repository ("node_modules" and "node_modules/**" both work).
func (f *PathFilter) matchesAny(patterns []string, relPath string) bool {
	base := path.Base(relPath)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// canMatchBelow reports whether any include pattern could match a path
// under dir. A pattern with a "**" segment can match arbitrarily deep;
// otherwise the pattern must share a prefix with the directory path.
func (f *PathFilter) canMatchBelow(dir string) bool {
	for _, pattern := range f.include {
		if matched, err := doublestar.Match(pattern, dir); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern+"/**", dir+"/"); err == nil && matched {
			return true
		}
		if prefixCompatible(pattern, dir) {
			return true
		}
	}
	return false
}

// prefixCompatible checks segment-by-segment whether dir is a viable
// prefix of pattern, so "src/**/*.py" keeps "src" and "src/app" visitable.
func prefixCompatible(pattern, dir string) bool {
	patSegs := splitPath(pattern)
	dirSegs := splitPath(dir)

	for i, seg := range dirSegs {
		if i >= len(patSegs) {
			return false
		}
		if patSegs[i] == "**" {
			return true
		}
		if matched, err := path.Match(patSegs[i], seg); err != nil || !matched {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
