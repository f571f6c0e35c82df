package gitinfo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnorePatterns collects exclude patterns from the repository's root
// .gitignore and .git/info/exclude so a scan can honor them without a
// full gitignore engine. Negation patterns are skipped; matching them
// faithfully needs ordered evaluation the glob filter doesn't do.
func IgnorePatterns(rootPath string) ([]string, error) {
	var patterns []string

	rootIgnore := filepath.Join(rootPath, ".gitignore")
	if loaded, err := readIgnoreFile(rootIgnore); err == nil {
		patterns = append(patterns, loaded...)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if gitDir, err := findGitDir(rootPath); err == nil {
		excludePath := filepath.Join(gitDir, "info", "exclude")
		if loaded, err := readIgnoreFile(excludePath); err == nil {
			patterns = append(patterns, loaded...)
		}
	}

	return dedupe(patterns), nil
}

// readIgnoreFile parses one gitignore-format file into glob patterns.
func readIgnoreFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Negations need ordered evaluation; skip them
		if strings.HasPrefix(line, "!") {
			continue
		}

		pattern := strings.TrimSuffix(line, "/")
		pattern = strings.TrimPrefix(pattern, "/")
		patterns = append(patterns, pattern)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return patterns, nil
}

// findGitDir locates the .git directory, following worktree/submodule
// gitdir indirection.
func findGitDir(startPath string) (string, error) {
	gitPath := filepath.Join(startPath, ".git")

	if content, err := os.ReadFile(gitPath); err == nil {
		target := strings.TrimSpace(string(content))
		if strings.HasPrefix(target, "gitdir: ") {
			dir := strings.TrimPrefix(target, "gitdir: ")
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(startPath, dir)
			}
			return dir, nil
		}
	}

	if stat, err := os.Stat(gitPath); err == nil && stat.IsDir() {
		return gitPath, nil
	}

	return "", fmt.Errorf("not a git repository")
}

func dedupe(patterns []string) []string {
	if len(patterns) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if !seen[p] {
			seen[p] = true
			result = append(result, p)
		}
	}
	return result
}
