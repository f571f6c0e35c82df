package provider

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/petrarca/repo-scanner/internal/types"
)

// FSProvider implements the Provider interface for local file systems
type FSProvider struct {
	rootPath string
}

// NewFSProvider creates a new file system provider
func NewFSProvider(rootPath string) *FSProvider {
	return &FSProvider{
		rootPath: strings.TrimSuffix(rootPath, "/"),
	}
}

// ListDir returns the contents of a directory. Symlinks are reported as
// symlink entries without following them; entries whose metadata cannot
// be read are skipped.
func (p *FSProvider) ListDir(path string) ([]types.DirEntry, error) {
	fullPath := p.getFullPath(path)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, err
	}

	files := make([]types.DirEntry, 0, len(entries))

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue // Skip entries we can't get info for
		}

		entryType := types.EntryFile
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			entryType = types.EntrySymlink
		case entry.IsDir():
			entryType = types.EntryDir
		}

		files = append(files, types.DirEntry{
			Name:     entry.Name(),
			Path:     filepath.Join(fullPath, entry.Name()),
			Type:     entryType,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	return files, nil
}

// Stat resolves a path, following symlinks
func (p *FSProvider) Stat(path string) (types.EntryInfo, error) {
	info, err := os.Stat(p.getFullPath(path))
	if err != nil {
		return types.EntryInfo{}, err
	}
	return types.EntryInfo{
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		Modified: info.ModTime(),
	}, nil
}

// Canonical returns the path with all symlinks resolved
func (p *FSProvider) Canonical(path string) (string, error) {
	return filepath.EvalSymlinks(p.getFullPath(path))
}

// ReadFile reads file content as bytes, up to limit bytes when limit > 0
func (p *FSProvider) ReadFile(path string, limit int64) ([]byte, error) {
	fullPath := p.getFullPath(path)
	if limit <= 0 {
		return os.ReadFile(fullPath)
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, limit))
}

// ReadPrefix reads at most n bytes from the start of a file
func (p *FSProvider) ReadPrefix(path string, n int) ([]byte, error) {
	f, err := os.Open(p.getFullPath(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}
	if err != nil {
		return nil, err
	}
	return buf[:read], nil
}

// getFullPath converts a relative path to an absolute path
func (p *FSProvider) getFullPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	if path == "." || path == "" {
		return p.rootPath
	}

	return filepath.Join(p.rootPath, path)
}

// GetBasePath returns the base path for this provider
func (p *FSProvider) GetBasePath() string {
	return p.rootPath
}
