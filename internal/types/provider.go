package types

import "time"

// EntryType distinguishes the three kinds of directory entries.
type EntryType string

const (
	EntryFile    EntryType = "file"
	EntryDir     EntryType = "dir"
	EntrySymlink EntryType = "symlink"
)

// DirEntry represents one file, directory, or symlink in a listing.
type DirEntry struct {
	Name     string
	Path     string // absolute
	Type     EntryType
	Size     int64
	Modified time.Time
}

// EntryInfo is the resolved stat of a path (symlinks followed).
type EntryInfo struct {
	IsDir    bool
	Size     int64
	Modified time.Time
}

// Provider defines the filesystem operations the scanner consumes.
// It is injected so tests can substitute a fake.
type Provider interface {
	// ListDir returns the contents of a directory. Symlinks are reported
	// as EntrySymlink without following them.
	ListDir(path string) ([]DirEntry, error)

	// Stat resolves a path, following symlinks
	Stat(path string) (EntryInfo, error)

	// Canonical returns the canonical path with all symlinks resolved,
	// used as the visited-set key for cycle detection
	Canonical(path string) (string, error)

	// ReadFile reads full file content up to limit bytes; limit <= 0
	// means unbounded
	ReadFile(path string, limit int64) ([]byte, error)

	// ReadPrefix reads at most n bytes from the start of a file
	ReadPrefix(path string, n int) ([]byte, error)

	// GetBasePath returns the base path for this provider
	GetBasePath() string
}
