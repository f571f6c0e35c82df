package gitinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnorePatternsMissingFiles(t *testing.T) {
	patterns, err := IgnorePatterns(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestIgnorePatternsParsesRootGitignore(t *testing.T) {
	dir := t.TempDir()
	content := `# build output
node_modules/
dist
*.log

!keep.log
/coverage
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0644))

	patterns, err := IgnorePatterns(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules", "dist", "*.log", "coverage"}, patterns)
}

func TestIgnorePatternsIncludesGitInfoExclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("dist\n"), 0644))

	infoDir := filepath.Join(dir, ".git", "info")
	require.NoError(t, os.MkdirAll(infoDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(infoDir, "exclude"), []byte("dist\nscratch/\n"), 0644))

	patterns, err := IgnorePatterns(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"dist", "scratch"}, patterns, "duplicates collapse")
}

func TestFindGitDirWorktreeIndirection(t *testing.T) {
	dir := t.TempDir()
	realGitDir := filepath.Join(dir, "repos", "main.git")
	require.NoError(t, os.MkdirAll(realGitDir, 0755))

	worktree := filepath.Join(dir, "wt")
	require.NoError(t, os.MkdirAll(worktree, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(worktree, ".git"), []byte("gitdir: "+realGitDir+"\n"), 0644))

	found, err := findGitDir(worktree)
	require.NoError(t, err)
	assert.Equal(t, realGitDir, found)
}

func TestFindGitDirNotARepo(t *testing.T) {
	_, err := findGitDir(t.TempDir())
	assert.Error(t, err)
}
