package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/petrarca/repo-scanner/internal/types"
)

// FakeProvider implements the Provider interface for testing.
// Paths are rooted at "/" regardless of the host filesystem.
type FakeProvider struct {
	files    map[string][]types.DirEntry // dir -> entries
	content  map[string][]byte
	links    map[string]string // symlink path -> target path
	modified time.Time
}

// NewFakeProvider creates a new fake provider
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		files:    make(map[string][]types.DirEntry),
		content:  make(map[string][]byte),
		links:    make(map[string]string),
		modified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddFile adds a file to the fake provider, creating parent directories
func (p *FakeProvider) AddFile(path string, content []byte) {
	p.ensureParents(path)
	dir := filepath.Dir(path)

	p.files[dir] = append(p.files[dir], types.DirEntry{
		Name:     filepath.Base(path),
		Path:     path,
		Type:     types.EntryFile,
		Size:     int64(len(content)),
		Modified: p.modified,
	})
	p.content[path] = content
}

// AddDir adds a directory to the fake provider
func (p *FakeProvider) AddDir(path string) {
	p.ensureParents(path)
	if _, ok := p.files[path]; !ok {
		p.files[path] = []types.DirEntry{}
	}
	dir := filepath.Dir(path)
	if dir != path {
		p.files[dir] = append(p.files[dir], types.DirEntry{
			Name:     filepath.Base(path),
			Path:     path,
			Type:     types.EntryDir,
			Modified: p.modified,
		})
	}
}

// AddSymlink adds a symlink pointing at target (absolute fake path)
func (p *FakeProvider) AddSymlink(path, target string) {
	p.ensureParents(path)
	dir := filepath.Dir(path)
	p.files[dir] = append(p.files[dir], types.DirEntry{
		Name:     filepath.Base(path),
		Path:     path,
		Type:     types.EntrySymlink,
		Modified: p.modified,
	})
	p.links[path] = target
}

func (p *FakeProvider) ensureParents(path string) {
	dir := filepath.Dir(path)
	if dir == path || dir == "/" || dir == "." {
		if _, ok := p.files["/"]; !ok {
			p.files["/"] = []types.DirEntry{}
		}
		return
	}
	if _, ok := p.files[dir]; !ok {
		p.AddDir(dir)
	}
}

// ListDir returns the contents of a directory in name order
func (p *FakeProvider) ListDir(path string) ([]types.DirEntry, error) {
	entries, exists := p.files[path]
	if !exists {
		return nil, fmt.Errorf("fake: %s: %w", path, os.ErrNotExist)
	}
	sorted := make([]types.DirEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted, nil
}

// Stat resolves a path, following fake symlinks
func (p *FakeProvider) Stat(path string) (types.EntryInfo, error) {
	resolved, err := p.Canonical(path)
	if err != nil {
		return types.EntryInfo{}, err
	}
	if _, ok := p.files[resolved]; ok {
		return types.EntryInfo{IsDir: true, Modified: p.modified}, nil
	}
	if content, ok := p.content[resolved]; ok {
		return types.EntryInfo{Size: int64(len(content)), Modified: p.modified}, nil
	}
	return types.EntryInfo{}, fmt.Errorf("fake: %s: %w", path, os.ErrNotExist)
}

// Canonical resolves fake symlinks, bounded to avoid looping forever on
// cyclic link graphs
func (p *FakeProvider) Canonical(path string) (string, error) {
	resolved := path
	for i := 0; i < 40; i++ {
		target, ok := p.links[resolved]
		if !ok {
			return resolved, nil
		}
		resolved = target
	}
	return "", fmt.Errorf("fake: too many levels of symbolic links: %s", path)
}

// ReadFile reads file content, up to limit bytes when limit > 0
func (p *FakeProvider) ReadFile(path string, limit int64) ([]byte, error) {
	resolved, err := p.Canonical(path)
	if err != nil {
		return nil, err
	}
	content, exists := p.content[resolved]
	if !exists {
		return nil, fmt.Errorf("fake: %s: %w", path, os.ErrNotExist)
	}
	if limit > 0 && int64(len(content)) > limit {
		content = content[:limit]
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// ReadPrefix reads at most n bytes from the start of a file
func (p *FakeProvider) ReadPrefix(path string, n int) ([]byte, error) {
	return p.ReadFile(path, int64(n))
}

// GetBasePath returns the base path for this provider
func (p *FakeProvider) GetBasePath() string {
	return "/"
}
