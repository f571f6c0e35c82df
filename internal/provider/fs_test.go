package provider

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/petrarca/repo-scanner/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFS(t *testing.T) (*FSProvider, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("hello world"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "nested.go"), []byte("package sub\n"), 0644))
	return NewFSProvider(dir), dir
}

func TestFSListDir(t *testing.T) {
	p, dir := setupFS(t)

	entries, err := p.ListDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]types.DirEntry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	file := byName["file.txt"]
	assert.Equal(t, types.EntryFile, file.Type)
	assert.Equal(t, int64(11), file.Size)
	assert.Equal(t, filepath.Join(dir, "file.txt"), file.Path)

	sub := byName["sub"]
	assert.Equal(t, types.EntryDir, sub.Type)
}

func TestFSListDirMissing(t *testing.T) {
	p, dir := setupFS(t)

	_, err := p.ListDir(filepath.Join(dir, "absent"))
	assert.Error(t, err)
}

func TestFSListDirReportsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	p, dir := setupFS(t)
	require.NoError(t, os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "sublink")))

	entries, err := p.ListDir(dir)
	require.NoError(t, err)

	var link *types.DirEntry
	for i := range entries {
		if entries[i].Name == "sublink" {
			link = &entries[i]
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, types.EntrySymlink, link.Type, "symlinks are reported, not followed")
}

func TestFSStatFollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	p, dir := setupFS(t)
	require.NoError(t, os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "sublink")))

	info, err := p.Stat(filepath.Join(dir, "sublink"))
	require.NoError(t, err)
	assert.True(t, info.IsDir)
}

func TestFSReadFileWithLimit(t *testing.T) {
	p, dir := setupFS(t)

	full, err := p.ReadFile(filepath.Join(dir, "file.txt"), 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), full)

	limited, err := p.ReadFile(filepath.Join(dir, "file.txt"), 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), limited)
}

func TestFSReadPrefix(t *testing.T) {
	p, dir := setupFS(t)

	prefix, err := p.ReadPrefix(filepath.Join(dir, "file.txt"), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("hell"), prefix)

	// Shorter file than requested prefix is not an error
	whole, err := p.ReadPrefix(filepath.Join(dir, "file.txt"), 1024)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), whole)
}

func TestFSRelativePaths(t *testing.T) {
	p, dir := setupFS(t)

	info, err := p.Stat("sub")
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	content, err := p.ReadFile("file.txt", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), content)

	assert.Equal(t, dir, p.GetBasePath())
}
