package scanstore

import (
	"context"
	"sort"
	"sync"

	"github.com/petrarca/repo-scanner/internal/types"
)

// MemoryStore is an in-process Store used for tests and for running the
// scanner without a database. The whole of Upsert runs under one lock, so
// version assignment is atomic the same way the database upsert is.
type MemoryStore struct {
	mu    sync.RWMutex
	scans map[string]*types.RepositoryScan
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scans: make(map[string]*types.RepositoryScan),
	}
}

// Upsert writes the snapshot, assigning version 1 for a new scan id and
// previous+1 otherwise.
func (s *MemoryStore) Upsert(ctx context.Context, scan *types.RepositoryScan) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	version := int64(1)
	if existing, ok := s.scans[scan.ScanID]; ok {
		version = existing.Version + 1
	}

	stored := copyScan(scan)
	stored.Version = version
	s.scans[scan.ScanID] = stored

	return version, nil
}

// Get returns a copy of the snapshot or ErrScanNotFound.
func (s *MemoryStore) Get(ctx context.Context, scanID string) (*types.RepositoryScan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scan, ok := s.scans[scanID]
	if !ok {
		return nil, ErrScanNotFound
	}
	return copyScan(scan), nil
}

// List returns metadata sorted by scan timestamp descending.
func (s *MemoryStore) List(ctx context.Context, repoPath string, limit, skip int) ([]types.RepositoryScanMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	s.mu.RLock()
	all := make([]types.RepositoryScanMetadata, 0, len(s.scans))
	for _, scan := range s.scans {
		if repoPath != "" && scan.RepoPath != repoPath {
			continue
		}
		all = append(all, scan.Metadata())
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].ScanTimestamp.Equal(all[j].ScanTimestamp) {
			return all[i].ScanTimestamp.After(all[j].ScanTimestamp)
		}
		// Tie-break on id so pagination is stable
		return all[i].ScanID < all[j].ScanID
	})

	if skip >= len(all) {
		return []types.RepositoryScanMetadata{}, nil
	}
	all = all[skip:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Delete removes a snapshot; false when the id is unknown.
func (s *MemoryStore) Delete(ctx context.Context, scanID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scans[scanID]; !ok {
		return false, nil
	}
	delete(s.scans, scanID)
	return true, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// copyScan deep-copies a snapshot so callers cannot mutate stored or
// cached state through the returned value.
func copyScan(scan *types.RepositoryScan) *types.RepositoryScan {
	out := *scan
	out.Files = make([]types.TraversedFile, len(scan.Files))
	copy(out.Files, scan.Files)
	for i := range out.Files {
		if cm := out.Files[i].CodeMetadata; cm != nil {
			c := *cm
			c.Imports = copyStrings(cm.Imports)
			c.Functions = copyStrings(cm.Functions)
			c.Classes = copyStrings(cm.Classes)
			out.Files[i].CodeMetadata = &c
		}
		if ls := out.Files[i].LineStats; ls != nil {
			l := *ls
			out.Files[i].LineStats = &l
		}
	}
	if scan.Git != nil {
		git := *scan.Git
		out.Git = &git
	}
	return &out
}

// copyStrings clones a slice, preserving nil vs empty so the JSON shape
// of a copied record matches the original.
func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
