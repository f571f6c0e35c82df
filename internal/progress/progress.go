// Package progress reports traversal events to a pluggable handler so the
// CLI can show scan activity without the engine knowing about terminals.
package progress

import (
	"strings"
	"time"
)

// EventType identifies what happened during a scan.
type EventType int

const (
	EventScanStart EventType = iota
	EventScanComplete
	EventEnterDirectory
	EventEntrySkipped
	EventCycleDetected
)

// Event represents something that happened during scanning.
type Event struct {
	Type      EventType
	Path      string
	Info      string
	FileCount int
	DirCount  int
	Duration  time.Duration
}

// Handler processes events and produces output.
type Handler interface {
	Handle(event Event)
}

// Progress is the central event dispatcher. A disabled Progress drops
// every event so callers never branch on verbosity.
type Progress struct {
	enabled bool
	handler Handler
}

// New creates a progress reporter.
func New(enabled bool, handler Handler) *Progress {
	if handler == nil {
		handler = NewNullHandler()
	}
	return &Progress{enabled: enabled, handler: handler}
}

func (p *Progress) report(event Event) {
	if p == nil || !p.enabled {
		return
	}
	p.handler.Handle(event)
}

// ScanStart reports the beginning of a scan.
func (p *Progress) ScanStart(path string, excludePatterns []string) {
	p.report(Event{Type: EventScanStart, Path: path, Info: strings.Join(excludePatterns, ", ")})
}

// ScanComplete reports the end of a scan.
func (p *Progress) ScanComplete(fileCount, dirCount int, duration time.Duration) {
	p.report(Event{Type: EventScanComplete, FileCount: fileCount, DirCount: dirCount, Duration: duration})
}

// EnterDirectory reports descending into a directory.
func (p *Progress) EnterDirectory(path string) {
	p.report(Event{Type: EventEnterDirectory, Path: path})
}

// EntrySkipped reports an entry dropped because of a local error.
func (p *Progress) EntrySkipped(path string, reason string) {
	p.report(Event{Type: EventEntrySkipped, Path: path, Info: reason})
}

// CycleDetected reports a symlink resolving to an already-visited directory.
func (p *Progress) CycleDetected(path string, target string) {
	p.report(Event{Type: EventCycleDetected, Path: path, Info: target})
}
