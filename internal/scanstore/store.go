// Package scanstore persists completed traversal results as versioned
// snapshots keyed by scan identifier.
package scanstore

import (
	"context"
	"errors"

	"github.com/petrarca/repo-scanner/internal/types"
)

// ErrScanNotFound marks an unknown scan identifier on lookup. Callers use
// errors.Is to treat it as an explicit absence rather than a failure.
var ErrScanNotFound = errors.New("scan not found")

// DefaultListLimit caps listings when the caller passes no limit.
const DefaultListLimit = 50

// Store is the document-store collaborator. Upsert must be atomic at the
// store level: concurrent upserts of the same scan id must never observe
// the same starting version.
type Store interface {
	// Upsert writes the snapshot under scan.ScanID, creating version 1 or
	// atomically incrementing the existing version. The assigned version
	// is returned; scan.Version is ignored on input.
	Upsert(ctx context.Context, scan *types.RepositoryScan) (int64, error)

	// Get returns the snapshot or ErrScanNotFound
	Get(ctx context.Context, scanID string) (*types.RepositoryScan, error)

	// List returns snapshot metadata (no files payload), newest scan
	// first. repoPath filters by exact match when non-empty.
	List(ctx context.Context, repoPath string, limit, skip int) ([]types.RepositoryScanMetadata, error)

	// Delete removes a snapshot; false when the id is unknown
	Delete(ctx context.Context, scanID string) (bool, error)

	// Close releases store resources
	Close() error
}
