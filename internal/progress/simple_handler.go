package progress

import (
	"fmt"
	"io"
)

// SimpleHandler outputs events as simple lines.
type SimpleHandler struct {
	writer io.Writer
}

func NewSimpleHandler(writer io.Writer) *SimpleHandler {
	return &SimpleHandler{writer: writer}
}

func (h *SimpleHandler) Handle(event Event) {
	switch event.Type {
	case EventScanStart:
		fmt.Fprintf(h.writer, "[SCAN] Starting: %s\n", event.Path)
		if event.Info != "" {
			fmt.Fprintf(h.writer, "[SCAN] Excluding: %s\n", event.Info)
		}

	case EventScanComplete:
		fmt.Fprintf(h.writer, "[SCAN] Completed: %d files, %d directories in %.1fs\n",
			event.FileCount, event.DirCount, event.Duration.Seconds())

	case EventEnterDirectory:
		fmt.Fprintf(h.writer, "[DIR]  Entering: %s\n", event.Path)

	case EventEntrySkipped:
		fmt.Fprintf(h.writer, "[SKIP] %s: %s\n", event.Path, event.Info)

	case EventCycleDetected:
		fmt.Fprintf(h.writer, "[LOOP] %s resolves to visited %s\n", event.Path, event.Info)
	}
}

// NullHandler discards all events.
type NullHandler struct{}

func NewNullHandler() *NullHandler {
	return &NullHandler{}
}

func (h *NullHandler) Handle(Event) {}
