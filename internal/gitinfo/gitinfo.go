// Package gitinfo captures the git identity (branch, commit, remote) of a
// scanned repository root so it can be stored with the snapshot.
package gitinfo

import (
	"github.com/go-git/go-git/v5"
	"github.com/petrarca/repo-scanner/internal/types"
)

// ForPath retrieves git repository information for the given path.
// Returns nil when the path is not inside a git repository.
func ForPath(path string) *types.GitInfo {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}

	info := &types.GitInfo{}

	head, err := repo.Head()
	if err == nil {
		// Short hash (first 7 characters)
		info.Commit = head.Hash().String()[:7]
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		} else {
			info.Branch = "HEAD" // Detached HEAD
		}
	}

	// Worktree status is expensive but only runs once per scan
	if worktree, err := repo.Worktree(); err == nil {
		if status, err := worktree.Status(); err == nil {
			info.IsDirty = !status.IsClean()
		}
	}

	if cfg, err := repo.Config(); err == nil {
		if origin := cfg.Remotes["origin"]; origin != nil && len(origin.URLs) > 0 {
			info.RemoteURL = origin.URLs[0]
		}
	}

	return info
}
