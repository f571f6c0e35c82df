// Package codestats produces per-file line statistics (code, comments,
// blanks, complexity) using the SCC counting engine.
package codestats

import (
	"sync"

	"github.com/boyter/scc/v3/processor"
	"github.com/petrarca/repo-scanner/internal/types"
)

var initOnce sync.Once

// Analyzer counts line statistics for individual source files.
type Analyzer struct {
	enabled bool
}

// NewAnalyzer creates an analyzer; a disabled analyzer returns nil stats
// for every file so callers need no separate branch.
func NewAnalyzer(enabled bool) *Analyzer {
	return &Analyzer{enabled: enabled}
}

// IsEnabled reports whether stats collection is active.
func (a *Analyzer) IsEnabled() bool {
	return a.enabled
}

// FileStats counts statistics for one file's content. Returns nil when
// disabled, when content is empty, or when SCC does not recognize the
// file's language well enough to count it.
func (a *Analyzer) FileStats(filename string, content []byte) *types.LineStats {
	if !a.enabled || len(content) == 0 {
		return nil
	}

	// Initialize SCC language definitions once
	initOnce.Do(func() {
		processor.ProcessConstants()
	})

	sccLangs, _ := processor.DetectLanguage(filename)
	if len(sccLangs) == 0 {
		return nil
	}

	filejob := &processor.FileJob{
		Filename: filename,
		Language: sccLangs[0],
		Content:  content,
		Bytes:    int64(len(content)),
	}
	processor.CountStats(filejob)

	return &types.LineStats{
		Lines:      filejob.Lines,
		Code:       filejob.Code,
		Comments:   filejob.Comment,
		Blanks:     filejob.Blank,
		Complexity: filejob.Complexity,
	}
}
