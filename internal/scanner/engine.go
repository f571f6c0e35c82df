// Package scanner walks a repository tree, classifies each entry, extracts
// heuristic code metadata, and assembles the ordered file-record sequence
// that persistence consumes.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/petrarca/repo-scanner/internal/classify"
	"github.com/petrarca/repo-scanner/internal/codestats"
	"github.com/petrarca/repo-scanner/internal/extract"
	"github.com/petrarca/repo-scanner/internal/filter"
	"github.com/petrarca/repo-scanner/internal/progress"
	"github.com/petrarca/repo-scanner/internal/provider"
	"github.com/petrarca/repo-scanner/internal/types"
	"golang.org/x/sync/errgroup"
)

// Engine orchestrates directory traversal for one repository root.
type Engine struct {
	provider   types.Provider
	classifier *classify.Classifier
	extractor  *extract.Extractor
	stats      *codestats.Analyzer
	progress   *progress.Progress
	logger     *slog.Logger
}

// NewEngine creates an engine over an injected filesystem provider.
// stats, prog, and logger may be nil.
func NewEngine(p types.Provider, stats *codestats.Analyzer, prog *progress.Progress, logger *slog.Logger) *Engine {
	if stats == nil {
		stats = codestats.NewAnalyzer(false)
	}
	if prog == nil {
		prog = progress.New(false, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		provider:   p,
		classifier: classify.New(),
		extractor:  extract.New(),
		stats:      stats,
		progress:   prog,
		logger:     logger,
	}
}

// ScanRepository walks rootPath with the given options and returns the
// ordered file-record sequence. It is a convenience wrapper that builds an
// engine over the local filesystem.
func ScanRepository(ctx context.Context, rootPath string, opts types.TraversalOptions, logger *slog.Logger) ([]types.TraversedFile, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root %q: %w", rootPath, err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("scan root %q: %w", rootPath, err)
	}
	engine := NewEngine(provider.NewFSProvider(absPath), codestats.NewAnalyzer(opts.CollectLineStats), nil, logger)
	return engine.Scan(ctx, opts)
}

// walkState is the shared mutable state of one traversal. The visited set
// and result slice are written by concurrent directory workers and must
// only be touched under mu.
type walkState struct {
	group  *errgroup.Group
	ctx    context.Context
	filter *filter.PathFilter
	opts   types.TraversalOptions

	mu      sync.Mutex
	files   []types.TraversedFile
	visited map[string]struct{}
	dirs    int
}

// Scan walks the provider's tree under opts and returns all records sorted
// by relative path. The sort runs after every worker finishes, so the
// result order is stable across repeated scans of an unchanged tree even
// though workers complete in arbitrary order.
func (e *Engine) Scan(ctx context.Context, opts types.TraversalOptions) ([]types.TraversedFile, error) {
	opts = opts.Normalize()
	basePath := e.provider.GetBasePath()
	start := time.Now()

	e.progress.ScanStart(basePath, opts.Exclude)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Concurrency)

	st := &walkState{
		group:   group,
		ctx:     gctx,
		filter:  filter.New(opts),
		opts:    opts,
		files:   make([]types.TraversedFile, 0, 256),
		visited: make(map[string]struct{}),
	}

	// Seed the visited set with the canonical root so a symlink pointing
	// back at the root is caught immediately
	if canonical, err := e.provider.Canonical(basePath); err == nil {
		st.visited[canonical] = struct{}{}
	}

	if err := e.walkDir(st, basePath, 0); err != nil {
		_ = group.Wait()
		return nil, err
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(st.files, func(i, j int) bool {
		return st.files[i].RelativePath < st.files[j].RelativePath
	})

	fileCount := 0
	for _, f := range st.files {
		if f.IsFile {
			fileCount++
		}
	}
	e.progress.ScanComplete(fileCount, st.dirs, time.Since(start))
	e.logger.Debug("Scan complete",
		"path", basePath,
		"entries", len(st.files),
		"files", fileCount,
		"duration", time.Since(start))

	return st.files, nil
}

// walkDir processes one directory. dirDepth is the depth its entries get:
// direct children of the scan root are at depth 0.
func (e *Engine) walkDir(st *walkState, dirPath string, dirDepth int) error {
	if err := st.ctx.Err(); err != nil {
		return err
	}

	e.progress.EnterDirectory(dirPath)
	st.mu.Lock()
	st.dirs++
	st.mu.Unlock()

	entries, err := e.provider.ListDir(dirPath)
	if err != nil {
		// A directory we cannot list is a local failure, not a scan failure
		e.logger.Warn("Cannot list directory", "path", dirPath, "error", err)
		e.progress.EntrySkipped(dirPath, err.Error())
		return nil
	}

	for _, entry := range entries {
		if err := st.ctx.Err(); err != nil {
			return err
		}

		relPath := e.relativePath(entry.Path)
		record, descend := e.processEntry(st, entry, relPath, dirDepth)
		if record == nil {
			continue
		}

		st.mu.Lock()
		st.files = append(st.files, *record)
		st.mu.Unlock()

		if !descend {
			continue
		}

		subPath := entry.Path
		subDepth := dirDepth + 1
		if !st.group.TryGo(func() error { return e.walkDir(st, subPath, subDepth) }) {
			// Worker pool saturated: walk inline rather than queueing,
			// otherwise deep trees could deadlock the pool
			if err := e.walkDir(st, subPath, subDepth); err != nil {
				return err
			}
		}
	}

	return nil
}

// processEntry builds the record for one directory entry and decides
// whether traversal should descend into it. A nil record means the entry
// is filtered out or was skipped after a local error.
func (e *Engine) processEntry(st *walkState, entry types.DirEntry, relPath string, depth int) (*types.TraversedFile, bool) {
	record := types.TraversedFile{
		Path:         entry.Path,
		RelativePath: relPath,
		Name:         entry.Name,
		Ext:          strings.ToLower(filepath.Ext(entry.Name)),
		Depth:        depth,
		IsSymlink:    entry.Type == types.EntrySymlink,
		IsDirectory:  entry.Type == types.EntryDir,
		IsFile:       entry.Type == types.EntryFile,
		LastModified: entry.Modified,
	}
	if record.IsFile {
		record.Size = entry.Size
	}

	if record.IsSymlink {
		// Resolve the target type; a dangling symlink stays file-like
		// and unresolved
		info, err := e.provider.Stat(entry.Path)
		if err != nil {
			e.logger.Warn("Cannot resolve symlink target", "path", entry.Path, "error", err)
			record.IsFile = true
		} else {
			record.IsDirectory = info.IsDir
			record.IsFile = !info.IsDir
			if record.IsFile {
				record.Size = info.Size
			}
		}
	}

	if !st.filter.ShouldVisit(relPath, record.IsDirectory, depth) {
		return nil, false
	}

	if record.IsFile {
		// Content enrichment reads through file symlinks only when the
		// symlink policy allows following
		if !record.IsSymlink || st.opts.FollowSymlinks {
			e.enrichFile(&record, st.opts)
		} else {
			record.FileType, record.Category = e.classifier.Classify(record.Name, nil)
		}
		return &record, false
	}

	// Directory: deciding whether to descend is where cycle avoidance and
	// the symlink policy live
	if record.IsSymlink && !st.opts.FollowSymlinks {
		return &record, false
	}

	canonical, err := e.provider.Canonical(entry.Path)
	if err != nil {
		e.logger.Warn("Cannot canonicalize directory", "path", entry.Path, "error", err)
		return &record, false
	}

	st.mu.Lock()
	_, seen := st.visited[canonical]
	if !seen {
		st.visited[canonical] = struct{}{}
	}
	st.mu.Unlock()

	if seen {
		// Symlink cycle or diamond: record the entry, do not recurse
		e.progress.CycleDetected(entry.Path, canonical)
		e.logger.Debug("Skipping already-visited directory", "path", entry.Path, "canonical", canonical)
		return &record, false
	}

	return &record, true
}

// enrichFile classifies a file record and, for source files, attaches
// heuristic code metadata and optional line statistics. All failures here
// are local: the record survives with whatever could be collected.
func (e *Engine) enrichFile(record *types.TraversedFile, opts types.TraversalOptions) {
	var sniff []byte
	if _, ok := knownType(e.classifier, record.Name); !ok {
		prefix, err := e.provider.ReadPrefix(record.Path, classify.SniffSize)
		if err != nil {
			e.logger.Warn("Cannot read file prefix", "path", record.Path, "error", err)
		} else {
			sniff = prefix
		}
	}
	record.FileType, record.Category = e.classifier.Classify(record.Name, sniff)

	if record.Category != types.CategorySource {
		return
	}
	if !e.extractor.Supported(record.FileType) && !e.stats.IsEnabled() {
		return
	}
	if record.Size > opts.MaxFileSize {
		// Oversize sources keep their classification but skip extraction
		e.logger.Debug("Skipping metadata extraction for oversize file",
			"path", record.Path, "size", record.Size, "ceiling", opts.MaxFileSize)
		return
	}

	content, err := e.provider.ReadFile(record.Path, opts.MaxFileSize)
	if err != nil {
		e.logger.Warn("Cannot read source file", "path", record.Path, "error", err)
		if e.extractor.Supported(record.FileType) {
			record.CodeMetadata = types.EmptyCodeMetadata()
		}
		return
	}

	record.CodeMetadata = e.extractor.Extract(record.FileType, content)
	record.LineStats = e.stats.FileStats(record.Name, content)
}

// knownType reports whether classification is already confident from the
// name alone, in which case the sniff read is skipped.
func knownType(c *classify.Classifier, name string) (string, bool) {
	ft, category := c.Classify(name, nil)
	return ft, category != types.CategoryUnknown
}

// relativePath converts an absolute entry path into the root-relative,
// "/"-separated form stored on records.
func (e *Engine) relativePath(path string) string {
	rel, err := filepath.Rel(e.provider.GetBasePath(), path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
