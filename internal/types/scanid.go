package types

import (
	"strings"

	"github.com/google/uuid"
)

// NewScanID generates an opaque unique scan identifier.
func NewScanID() string {
	return uuid.NewString()
}

// ValidScanID reports whether a caller-supplied identifier is usable as a
// scan key. Anything non-empty without whitespace is accepted so callers
// may bring their own identifier scheme.
func ValidScanID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.ContainsAny(id, " \t\r\n")
}
