package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/petrarca/repo-scanner/internal/codestats"
	"github.com/petrarca/repo-scanner/internal/provider"
	"github.com/petrarca/repo-scanner/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEngine(p *provider.FakeProvider) *Engine {
	return NewEngine(p, nil, nil, nil)
}

func scanAll(t *testing.T, e *Engine, opts types.TraversalOptions) []types.TraversedFile {
	t.Helper()
	files, err := e.Scan(context.Background(), opts)
	require.NoError(t, err)
	return files
}

func byRelPath(files []types.TraversedFile) map[string]types.TraversedFile {
	m := make(map[string]types.TraversedFile, len(files))
	for _, f := range files {
		m[f.RelativePath] = f
	}
	return m
}

func TestScanExcludesAndExtractsMetadata(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/src/app.py", []byte("import os\n\nif __name__ == \"__main__\":\n    print(\"hi\")\n"))
	p.AddFile("/node_modules/lib.js", []byte("module.exports = {};\n"))

	e := fakeEngine(p)
	files := scanAll(t, e, types.TraversalOptions{Exclude: []string{"node_modules/**"}})

	m := byRelPath(files)
	require.Len(t, files, 2)

	src, ok := m["src"]
	require.True(t, ok)
	assert.True(t, src.IsDirectory)
	assert.Equal(t, 0, src.Depth)

	app, ok := m["src/app.py"]
	require.True(t, ok)
	assert.True(t, app.IsFile)
	assert.Equal(t, 1, app.Depth)
	assert.Equal(t, "python", app.FileType)
	assert.Equal(t, types.CategorySource, app.Category)
	require.NotNil(t, app.CodeMetadata)
	assert.Equal(t, []string{"os"}, app.CodeMetadata.Imports)
	assert.True(t, app.CodeMetadata.HasMainGuard)

	_, excluded := m["node_modules"]
	assert.False(t, excluded, "excluded directory produces no record")
}

func TestScanDeterministicOrder(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/b/two.go", []byte("package two\n"))
	p.AddFile("/a/one.go", []byte("package one\n"))
	p.AddFile("/c.txt", []byte("notes\n"))
	p.AddFile("/a/zz/deep.go", []byte("package deep\n"))

	e := fakeEngine(p)
	opts := types.TraversalOptions{Concurrency: 4}

	first := scanAll(t, e, opts)
	second := scanAll(t, e, opts)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].RelativePath, second[i].RelativePath)
	}

	// Sorted by relative path
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].RelativePath, first[i].RelativePath)
	}
}

func TestScanMaxDepth(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/top.txt", []byte("x"))
	p.AddFile("/a/mid.txt", []byte("x"))
	p.AddFile("/a/b/low.txt", []byte("x"))

	e := fakeEngine(p)
	files := scanAll(t, e, types.TraversalOptions{MaxDepth: 1})

	m := byRelPath(files)
	assert.Contains(t, m, "top.txt")
	assert.Contains(t, m, "a")
	assert.Contains(t, m, "a/mid.txt")
	assert.Contains(t, m, "a/b")
	assert.NotContains(t, m, "a/b/low.txt", "depth 2 entries are beyond the bound")
}

func TestScanIncludeFilter(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/src/app.py", []byte("x = 1\n"))
	p.AddFile("/src/app.js", []byte("var x = 1;\n"))
	p.AddFile("/README.md", []byte("# readme\n"))

	e := fakeEngine(p)
	files := scanAll(t, e, types.TraversalOptions{Include: []string{"**/*.py"}})

	m := byRelPath(files)
	assert.Contains(t, m, "src")
	assert.Contains(t, m, "src/app.py")
	assert.NotContains(t, m, "src/app.js")
	assert.NotContains(t, m, "README.md")
}

func TestScanSymlinkNotFollowedByDefault(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/real/data.txt", []byte("content"))
	p.AddSymlink("/link", "/real")

	e := fakeEngine(p)
	files := scanAll(t, e, types.TraversalOptions{})

	m := byRelPath(files)
	link, ok := m["link"]
	require.True(t, ok, "symlink itself is recorded")
	assert.True(t, link.IsSymlink)
	assert.True(t, link.IsDirectory, "target type is resolved")
	assert.NotContains(t, m, "link/data.txt", "not descended")
	assert.Contains(t, m, "real/data.txt")
}

func TestScanSymlinkCycleTerminates(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/dir/file.txt", []byte("x"))
	p.AddSymlink("/dir/loop", "/dir")

	e := fakeEngine(p)
	files := scanAll(t, e, types.TraversalOptions{FollowSymlinks: true})

	m := byRelPath(files)
	assert.Contains(t, m, "dir")
	assert.Contains(t, m, "dir/file.txt")

	loop, ok := m["dir/loop"]
	require.True(t, ok, "cycle entry is recorded once")
	assert.True(t, loop.IsSymlink)
	assert.NotContains(t, m, "dir/loop/file.txt", "no second visit through the cycle")
}

func TestScanDanglingSymlink(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddSymlink("/broken", "/nowhere")

	e := fakeEngine(p)
	files := scanAll(t, e, types.TraversalOptions{})

	m := byRelPath(files)
	broken, ok := m["broken"]
	require.True(t, ok, "dangling symlink still produces a record")
	assert.True(t, broken.IsSymlink)
	assert.True(t, broken.IsFile)
	assert.False(t, broken.IsDirectory)
}

func TestScanCancelledContext(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/a.txt", []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := fakeEngine(p)
	_, err := e.Scan(ctx, types.TraversalOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanEmptyRoot(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddDir("/")

	e := fakeEngine(p)
	files := scanAll(t, e, types.TraversalOptions{})
	assert.Empty(t, files)
}

func TestScanOversizeSourceSkipsExtraction(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/big.py", []byte("import os\nimport sys\n"))

	e := fakeEngine(p)
	files := scanAll(t, e, types.TraversalOptions{MaxFileSize: 5})

	m := byRelPath(files)
	big := m["big.py"]
	assert.Equal(t, "python", big.FileType, "classification survives")
	assert.Nil(t, big.CodeMetadata, "extraction skipped above the ceiling")
}

func TestScanRepositoryRealFilesystem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.go"),
		[]byte("package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"),
		[]byte("module example.com/demo\n\ngo 1.22\n"), 0644))

	files, err := ScanRepository(context.Background(), dir, types.TraversalOptions{CollectLineStats: true}, nil)
	require.NoError(t, err)

	m := byRelPath(files)
	require.Contains(t, m, "go.mod")
	require.Contains(t, m, "src/main.go")

	gomod := m["go.mod"]
	assert.Equal(t, "gomod", gomod.FileType)
	assert.Equal(t, types.CategoryConfig, gomod.Category)

	main := m["src/main.go"]
	assert.Equal(t, "go", main.FileType)
	require.NotNil(t, main.CodeMetadata)
	assert.Equal(t, []string{"fmt"}, main.CodeMetadata.Imports)
	assert.True(t, main.CodeMetadata.HasMainGuard)
	require.NotNil(t, main.LineStats)
	assert.Greater(t, main.LineStats.Lines, int64(0))
}

func TestScanMissingRoot(t *testing.T) {
	_, err := ScanRepository(context.Background(), filepath.Join(t.TempDir(), "absent"), types.TraversalOptions{}, nil)
	assert.Error(t, err)
}

func TestScanLineStatsDisabled(t *testing.T) {
	p := provider.NewFakeProvider()
	p.AddFile("/app.py", []byte("import os\n"))

	e := NewEngine(p, codestats.NewAnalyzer(false), nil, nil)
	files := scanAll(t, e, types.TraversalOptions{})

	m := byRelPath(files)
	app := m["app.py"]
	require.NotNil(t, app.CodeMetadata)
	assert.Nil(t, app.LineStats)
}
