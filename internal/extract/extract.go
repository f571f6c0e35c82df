// Package extract collects heuristic code metadata (imports, declarations,
// entry-point guards) from source text. It is a bounded line scan, not a
// parser: malformed input yields whatever the patterns find, never an error.
package extract

import (
	"bufio"
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/go-enry/go-enry/v2"
	"github.com/petrarca/repo-scanner/internal/types"
)

// maxLineBytes bounds the scanner's token size so one pathological line
// cannot abort the whole file.
const maxLineBytes = 256 * 1024

// Extractor scans source file content with per-language pattern rules.
type Extractor struct{}

// New creates an extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supported reports whether a file type has pattern rules.
func (e *Extractor) Supported(fileType string) bool {
	return rulesFor(fileType) != nil
}

// Extract runs the rule set for fileType over content. Unsupported file
// types yield nil. Binary or undecodable content yields empty-but-present
// metadata so callers can tell "scanned, nothing found" from "skipped".
func (e *Extractor) Extract(fileType string, content []byte) *types.CodeMetadata {
	rules := rulesFor(fileType)
	if rules == nil {
		return nil
	}

	if enry.IsBinary(content) || !looksDecodable(content) {
		return types.EmptyCodeMetadata()
	}

	meta := types.EmptyCodeMetadata()
	inImportBlock := false

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Text()

		// Go import blocks span lines; the bare-string import pattern
		// only applies inside one
		skipImports := false
		if fileType == "go" {
			trimmed := strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(trimmed, "import ("):
				inImportBlock = true
				continue
			case inImportBlock && trimmed == ")":
				inImportBlock = false
				continue
			case !inImportBlock && strings.HasPrefix(trimmed, `"`):
				skipImports = true
			}
		}

		if !skipImports {
			for _, re := range rules.imports {
				if m := re.FindStringSubmatch(line); m != nil {
					meta.Imports = append(meta.Imports, m[1])
					break
				}
			}
		}

		for _, re := range rules.functions {
			if m := re.FindStringSubmatch(line); m != nil {
				meta.Functions = append(meta.Functions, m[1])
				break
			}
		}
		for _, re := range rules.classes {
			if m := re.FindStringSubmatch(line); m != nil {
				meta.Classes = append(meta.Classes, m[1])
				break
			}
		}
		if !meta.HasMainGuard && rules.mainGuard != nil && rules.mainGuard.MatchString(line) {
			meta.HasMainGuard = true
		}
	}
	if err := scanner.Err(); err != nil {
		// A scan error mid-file keeps whatever was collected so far
		return meta
	}

	return meta
}

// looksDecodable rejects content that is clearly not text: a NUL byte or a
// mostly-invalid UTF-8 prefix.
func looksDecodable(content []byte) bool {
	if bytes.IndexByte(content, 0) >= 0 {
		return false
	}
	prefix := content
	if len(prefix) > 1024 {
		prefix = prefix[:1024]
	}
	invalid := 0
	for len(prefix) > 0 {
		r, size := utf8.DecodeRune(prefix)
		if r == utf8.RuneError && size == 1 {
			invalid++
		}
		prefix = prefix[size:]
	}
	return invalid < 64
}
