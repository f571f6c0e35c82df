package scanstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/petrarca/repo-scanner/internal/types"
)

// PostgresStore persists snapshots in a repository_scans table, one row
// per scan id. The version increment happens inside the upsert statement
// so concurrent saves to the same id can never collide on a version.
type PostgresStore struct {
	db *sql.DB

	schemaMu    sync.Mutex
	schemaReady bool
}

// NewPostgresStore opens a connection pool for the given DSN and verifies
// connectivity.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("open scan store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping scan store: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// ensureSchema creates the table on first use. A failed attempt is not
// latched; the next operation retries the bootstrap.
func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS repository_scans (
  scan_id TEXT PRIMARY KEY,
  repo_path TEXT NOT NULL,
  scan_timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
  scan_options JSONB NOT NULL,
  total_files INTEGER NOT NULL,
  version BIGINT NOT NULL,
  git JSONB,
  files JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_repository_scans_repo_path ON repository_scans (repo_path);
CREATE INDEX IF NOT EXISTS idx_repository_scans_timestamp ON repository_scans (scan_timestamp DESC);
`)
	if err != nil {
		return err
	}
	s.schemaReady = true
	return nil
}

// Upsert writes the snapshot, creating version 1 or incrementing the
// stored version in the same statement.
func (s *PostgresStore) Upsert(ctx context.Context, scan *types.RepositoryScan) (int64, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, fmt.Errorf("ensure scan store schema: %w", err)
	}

	optionsJSON, err := json.Marshal(scan.ScanOptions)
	if err != nil {
		return 0, fmt.Errorf("encode scan options: %w", err)
	}
	filesJSON, err := json.Marshal(scan.Files)
	if err != nil {
		return 0, fmt.Errorf("encode scan files: %w", err)
	}
	var gitJSON []byte
	if scan.Git != nil {
		if gitJSON, err = json.Marshal(scan.Git); err != nil {
			return 0, fmt.Errorf("encode scan git info: %w", err)
		}
	}

	var version int64
	err = s.db.QueryRowContext(ctx, `
INSERT INTO repository_scans (
  scan_id, repo_path, scan_timestamp, scan_options, total_files, version, git, files
)
VALUES ($1, $2, $3, $4, $5, 1, $6, $7)
ON CONFLICT (scan_id)
DO UPDATE SET repo_path = EXCLUDED.repo_path,
  scan_timestamp = EXCLUDED.scan_timestamp,
  scan_options = EXCLUDED.scan_options,
  total_files = EXCLUDED.total_files,
  version = repository_scans.version + 1,
  git = EXCLUDED.git,
  files = EXCLUDED.files
RETURNING version`,
		scan.ScanID, scan.RepoPath, scan.ScanTimestamp, optionsJSON,
		scan.TotalFiles, nullableJSON(gitJSON), filesJSON,
	).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// Get returns the snapshot or ErrScanNotFound.
func (s *PostgresStore) Get(ctx context.Context, scanID string) (*types.RepositoryScan, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure scan store schema: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
SELECT scan_id, repo_path, scan_timestamp, scan_options, total_files, version, git, files
FROM repository_scans WHERE scan_id = $1`, scanID)

	var (
		scan        types.RepositoryScan
		optionsJSON []byte
		gitJSON     []byte
		filesJSON   []byte
	)
	err := row.Scan(&scan.ScanID, &scan.RepoPath, &scan.ScanTimestamp,
		&optionsJSON, &scan.TotalFiles, &scan.Version, &gitJSON, &filesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(optionsJSON, &scan.ScanOptions); err != nil {
		return nil, fmt.Errorf("decode scan options: %w", err)
	}
	if err := json.Unmarshal(filesJSON, &scan.Files); err != nil {
		return nil, fmt.Errorf("decode scan files: %w", err)
	}
	if len(gitJSON) > 0 {
		scan.Git = &types.GitInfo{}
		if err := json.Unmarshal(gitJSON, scan.Git); err != nil {
			return nil, fmt.Errorf("decode scan git info: %w", err)
		}
	}
	return &scan, nil
}

// List returns metadata rows, newest scan first. The files column is never
// selected so listings stay cheap regardless of snapshot size.
func (s *PostgresStore) List(ctx context.Context, repoPath string, limit, skip int) ([]types.RepositoryScanMetadata, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure scan store schema: %w", err)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	var (
		rows *sql.Rows
		err  error
	)
	if repoPath == "" {
		rows, err = s.db.QueryContext(ctx, `
SELECT scan_id, repo_path, scan_timestamp, scan_options, total_files, version, git
FROM repository_scans
ORDER BY scan_timestamp DESC, scan_id
LIMIT $1 OFFSET $2`, limit, skip)
	} else {
		rows, err = s.db.QueryContext(ctx, `
SELECT scan_id, repo_path, scan_timestamp, scan_options, total_files, version, git
FROM repository_scans
WHERE repo_path = $1
ORDER BY scan_timestamp DESC, scan_id
LIMIT $2 OFFSET $3`, repoPath, limit, skip)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.RepositoryScanMetadata, 0, limit)
	for rows.Next() {
		var (
			meta        types.RepositoryScanMetadata
			timestamp   time.Time
			optionsJSON []byte
			gitJSON     []byte
		)
		if err := rows.Scan(&meta.ScanID, &meta.RepoPath, &timestamp,
			&optionsJSON, &meta.TotalFiles, &meta.Version, &gitJSON); err != nil {
			return nil, err
		}
		meta.ScanTimestamp = timestamp
		if err := json.Unmarshal(optionsJSON, &meta.ScanOptions); err != nil {
			return nil, fmt.Errorf("decode scan options for %s: %w", meta.ScanID, err)
		}
		if len(gitJSON) > 0 {
			meta.Git = &types.GitInfo{}
			if err := json.Unmarshal(gitJSON, meta.Git); err != nil {
				return nil, fmt.Errorf("decode scan git info for %s: %w", meta.ScanID, err)
			}
		}
		out = append(out, meta)
	}
	return out, rows.Err()
}

// Delete removes a snapshot; false when the id is unknown.
func (s *PostgresStore) Delete(ctx context.Context, scanID string) (bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return false, fmt.Errorf("ensure scan store schema: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM repository_scans WHERE scan_id = $1`, scanID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// nullableJSON maps empty JSON to SQL NULL for optional columns.
func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
