package types

import (
	"strings"
	"time"
)

// FileCategory is the coarse classification bucket for a traversed file.
type FileCategory string

const (
	CategorySource  FileCategory = "source"
	CategoryConfig  FileCategory = "config"
	CategoryData    FileCategory = "data"
	CategoryDoc     FileCategory = "doc"
	CategoryBinary  FileCategory = "binary"
	CategoryUnknown FileCategory = "unknown"
)

// TraversalOptions controls the behavior of a repository scan.
// The options used for a scan are persisted verbatim with the snapshot
// so a scan can be reproduced later.
type TraversalOptions struct {
	// Include globs; empty means match everything
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	// Exclude globs; always win over include
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	// MaxDepth is the traversal depth ceiling. Direct children of the
	// scan root are at depth 0.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
	// FollowSymlinks controls whether symlinked directories are recursed into
	FollowSymlinks bool `json:"follow_symlinks" yaml:"follow_symlinks"`
	// Concurrency bounds the number of directory workers
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	// MaxFileSize is the ceiling (bytes) for metadata extraction reads
	MaxFileSize int64 `json:"max_file_size,omitempty" yaml:"max_file_size,omitempty"`
	// CollectLineStats enables per-file line statistics for source files
	CollectLineStats bool `json:"collect_line_stats,omitempty" yaml:"collect_line_stats,omitempty"`
}

const (
	DefaultMaxDepth    = 25
	DefaultConcurrency = 8
	DefaultMaxFileSize = 1 << 20 // 1 MiB extraction ceiling
)

// DefaultTraversalOptions returns the options used when the caller
// specifies nothing.
func DefaultTraversalOptions() TraversalOptions {
	return TraversalOptions{
		MaxDepth:    DefaultMaxDepth,
		Concurrency: DefaultConcurrency,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Normalize fills unset fields with defaults and returns the result.
func (o TraversalOptions) Normalize() TraversalOptions {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	return o
}

// CodeMetadata is the heuristic extraction result for one source file.
// Empty slices (not nil) are the no-match result so consumers can
// distinguish "scanned, nothing found" from "not scanned at all".
type CodeMetadata struct {
	Imports      []string `json:"imports"`
	Functions    []string `json:"functions"`
	Classes      []string `json:"classes"`
	HasMainGuard bool     `json:"has_main_guard"`
}

// EmptyCodeMetadata returns metadata with all fields present but empty,
// used for source files whose content could not be scanned.
func EmptyCodeMetadata() *CodeMetadata {
	return &CodeMetadata{
		Imports:   []string{},
		Functions: []string{},
		Classes:   []string{},
	}
}

// LineStats holds per-file line statistics for source files.
type LineStats struct {
	Lines      int64 `json:"lines"`
	Code       int64 `json:"code"`
	Comments   int64 `json:"comments"`
	Blanks     int64 `json:"blanks"`
	Complexity int64 `json:"complexity"`
}

// TraversedFile is one filesystem entry discovered during a scan.
type TraversedFile struct {
	Path         string        `json:"path"`          // absolute
	RelativePath string        `json:"relative_path"` // root-relative, "/" separated
	Name         string        `json:"name"`
	Ext          string        `json:"ext"`
	Depth        int           `json:"depth"`
	Size         int64         `json:"size,omitempty"` // files only
	IsSymlink    bool          `json:"is_symlink"`
	IsDirectory  bool          `json:"is_directory"`
	IsFile       bool          `json:"is_file"`
	LastModified time.Time     `json:"last_modified"`
	FileType     string        `json:"file_type,omitempty"` // e.g. "python", "gomod"
	Category     FileCategory  `json:"category,omitempty"`
	CodeMetadata *CodeMetadata `json:"code_metadata,omitempty"`
	LineStats    *LineStats    `json:"line_stats,omitempty"`
}

// DepthOf returns the traversal depth implied by a root-relative path:
// direct children of the root are at depth 0.
func DepthOf(relativePath string) int {
	return strings.Count(relativePath, "/")
}

// ManifestKind names a recognized build/config manifest family.
type ManifestKind string

const (
	ManifestGoMod     ManifestKind = "gomod"
	ManifestNPM       ManifestKind = "npm"
	ManifestPython    ManifestKind = "python"
	ManifestCargo     ManifestKind = "cargo"
	ManifestMaven     ManifestKind = "maven"
	ManifestGradle    ManifestKind = "gradle"
	ManifestRubyGems  ManifestKind = "rubygems"
	ManifestComposer  ManifestKind = "composer"
	ManifestDocker    ManifestKind = "docker"
	ManifestMakefile  ManifestKind = "make"
	ManifestCMake     ManifestKind = "cmake"
	ManifestCI        ManifestKind = "ci"
	ManifestDotNet    ManifestKind = "dotnet"
	ManifestTerraform ManifestKind = "terraform"
)

// Manifest is one recognized build/config manifest in the scanned tree.
type Manifest struct {
	RelativePath string       `json:"relative_path"`
	Kind         ManifestKind `json:"kind"`
	// Module is extra manifest identity when cheaply available
	// (e.g. the module path of a go.mod)
	Module string `json:"module,omitempty"`
}

// PatternSummary aggregates structural signals over an assembled file list.
type PatternSummary struct {
	EntryPoints []string   `json:"entry_points"` // relative paths with a main guard
	Manifests   []Manifest `json:"manifests"`
	// LicenseFiles are LICENSE/COPYING style files flagged by name
	LicenseFiles []string `json:"license_files,omitempty"`
}
