package scanstore

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/petrarca/repo-scanner/internal/types"
	"github.com/petrarca/repo-scanner/internal/validation"
)

// cacheSize bounds the read-through snapshot cache.
const cacheSize = 64

// Service wraps a Store with identifier assignment, record validation,
// and a read-through cache. It is the surface callers use; the Store
// underneath stays swappable (Postgres, in-memory).
type Service struct {
	store  Store
	cache  *lru.Cache[string, *types.RepositoryScan]
	logger *slog.Logger
}

// NewService creates a persistence service over a store.
func NewService(store Store, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, *types.RepositoryScan](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create scan cache: %w", err)
	}
	return &Service{store: store, cache: cache, logger: logger}, nil
}

// SaveScanResult persists a completed traversal. With an empty
// existingScanID a fresh identifier is generated and version 1 created;
// otherwise the snapshot is upserted under that id, incrementing the
// version atomically at the store.
func (s *Service) SaveScanResult(ctx context.Context, repoPath string, opts types.TraversalOptions, files []types.TraversedFile, existingScanID string) (string, error) {
	return s.SaveScanResultWithGit(ctx, repoPath, opts, files, existingScanID, nil)
}

// SaveScanResultWithGit is SaveScanResult with git metadata attached to
// the snapshot.
func (s *Service) SaveScanResultWithGit(ctx context.Context, repoPath string, opts types.TraversalOptions, files []types.TraversedFile, existingScanID string, git *types.GitInfo) (string, error) {
	scanID := existingScanID
	if scanID == "" {
		scanID = types.NewScanID()
	} else if !types.ValidScanID(scanID) {
		return "", fmt.Errorf("save scan: invalid scan id %q", existingScanID)
	}

	if files == nil {
		// A scan with zero matching files is a valid, successful result
		files = []types.TraversedFile{}
	}

	scan := &types.RepositoryScan{
		ScanID:        scanID,
		RepoPath:      repoPath,
		ScanTimestamp: time.Now().UTC(),
		ScanOptions:   opts,
		TotalFiles:    len(files),
		Git:           git,
		Files:         files,
	}

	if err := validation.ValidateValue(validation.ScanRecordSchema, scan); err != nil {
		return "", fmt.Errorf("save scan %s: %w", scanID, err)
	}

	version, err := s.store.Upsert(ctx, scan)
	if err != nil {
		return "", fmt.Errorf("save scan %s: %w", scanID, err)
	}
	scan.Version = version

	// The cache holds its own copy: the caller still owns files
	s.cache.Add(scanID, copyScan(scan))
	s.logger.Info("Saved scan result",
		"scan_id", scanID,
		"repo_path", repoPath,
		"total_files", scan.TotalFiles,
		"version", version)

	return scanID, nil
}

// GetScanResult returns a stored snapshot. Unknown identifiers surface as
// ErrScanNotFound, a normal outcome rather than a store failure. Every
// caller gets a private copy; mutating it never affects later reads.
func (s *Service) GetScanResult(ctx context.Context, scanID string) (*types.RepositoryScan, error) {
	if scan, ok := s.cache.Get(scanID); ok {
		return copyScan(scan), nil
	}

	scan, err := s.store.Get(ctx, scanID)
	if err != nil {
		return nil, fmt.Errorf("get scan %s: %w", scanID, err)
	}
	s.cache.Add(scanID, copyScan(scan))
	return scan, nil
}

// ListScans returns snapshot metadata (no files payload), newest first.
// repoPath filters by exact match when non-empty.
func (s *Service) ListScans(ctx context.Context, repoPath string, limit, skip int) ([]types.RepositoryScanMetadata, error) {
	metas, err := s.store.List(ctx, repoPath, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	return metas, nil
}

// DeleteScanResult removes a snapshot, reporting false for an unknown id.
func (s *Service) DeleteScanResult(ctx context.Context, scanID string) (bool, error) {
	deleted, err := s.store.Delete(ctx, scanID)
	if err != nil {
		return false, fmt.Errorf("delete scan %s: %w", scanID, err)
	}
	s.cache.Remove(scanID)
	return deleted, nil
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}
