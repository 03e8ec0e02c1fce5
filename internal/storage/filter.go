package storage

import (
	"path/filepath"
	"slices"
	"strings"
)

// Filter decides which files under the root are script files.
type Filter struct {
	Extensions     []string // allow-list, dot-prefixed (".js")
	ExcludeMarkers []string // substrings that disqualify a file name (".test.")
}

// DefaultFilter accepts .js and .ts files and skips test/spec files.
func DefaultFilter() Filter {
	return Filter{
		Extensions:     []string{".js", ".ts"},
		ExcludeMarkers: []string{".test.", ".spec."},
	}
}

// Eligible reports whether the file name passes the extension allow-list and
// carries none of the exclusion markers.
func (f Filter) Eligible(name string) bool {
	base := filepath.Base(name)
	if !slices.Contains(f.Extensions, strings.ToLower(filepath.Ext(base))) {
		return false
	}
	for _, m := range f.ExcludeMarkers {
		if m != "" && strings.Contains(base, m) {
			return false
		}
	}
	return true
}
