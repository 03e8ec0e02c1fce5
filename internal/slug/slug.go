// Package slug derives filesystem-safe names from display labels.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases s, collapses every run of non-alphanumeric characters into
// a single "-" and trims leading and trailing separators.
func Make(s string) string {
	lowered := strings.ToLower(s)
	return strings.Trim(nonAlnumRe.ReplaceAllString(lowered, "-"), "-")
}

// OrDefault returns Make(s), or fallback when the slug would be empty.
func OrDefault(s, fallback string) string {
	if out := Make(s); out != "" {
		return out
	}
	return fallback
}
