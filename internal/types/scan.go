package types

import "time"

// GitInfo records the git identity of the scanned root, when present.
type GitInfo struct {
	Branch    string `json:"branch,omitempty"`
	Commit    string `json:"commit,omitempty"`
	IsDirty   bool   `json:"is_dirty"`
	RemoteURL string `json:"remote_url,omitempty"`
}

// RepositoryScan is one persisted scan snapshot. ScanID is immutable once
// assigned; every save to the same ScanID replaces the content and
// increments Version by exactly one.
type RepositoryScan struct {
	ScanID        string           `json:"scan_id"`
	RepoPath      string           `json:"repo_path"`
	ScanTimestamp time.Time        `json:"scan_timestamp"`
	ScanOptions   TraversalOptions `json:"scan_options"`
	TotalFiles    int              `json:"total_files"`
	Version       int64            `json:"version"`
	Git           *GitInfo         `json:"git,omitempty"`
	Files         []TraversedFile  `json:"files"`
}

// Metadata returns the snapshot without its file payload.
func (s *RepositoryScan) Metadata() RepositoryScanMetadata {
	return RepositoryScanMetadata{
		ScanID:        s.ScanID,
		RepoPath:      s.RepoPath,
		ScanTimestamp: s.ScanTimestamp,
		ScanOptions:   s.ScanOptions,
		TotalFiles:    s.TotalFiles,
		Version:       s.Version,
		Git:           s.Git,
	}
}

// RepositoryScanMetadata is the listing projection of a RepositoryScan:
// everything except the files payload.
type RepositoryScanMetadata struct {
	ScanID        string           `json:"scan_id"`
	RepoPath      string           `json:"repo_path"`
	ScanTimestamp time.Time        `json:"scan_timestamp"`
	ScanOptions   TraversalOptions `json:"scan_options"`
	TotalFiles    int              `json:"total_files"`
	Version       int64            `json:"version"`
	Git           *GitInfo         `json:"git,omitempty"`
}
