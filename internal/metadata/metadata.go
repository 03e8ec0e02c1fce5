// Package metadata encodes and decodes the identity block embedded in a
// script file. Two encodings exist: the structured doc-comment tags written
// today, and the legacy inline-object comment written by older releases.
// Decoding always tries structured first and falls back to legacy; encoding
// always produces the structured form.
package metadata

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/flowscript/internal/apperr"
)

// Format identifies which encoding a Metadata value was decoded from.
type Format int

const (
	FormatStructured Format = iota + 1
	FormatLegacy
)

func (f Format) String() string {
	switch f {
	case FormatStructured:
		return "structured"
	case FormatLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// Tag namespace of the structured block.
const (
	TagID   = "@node-red-id"
	TagName = "@node-red-name"
	TagZ    = "@node-red-z"
)

// Metadata is the persisted identity of one script file.
// Only ID is used for matching; Name is advisory.
type Metadata struct {
	ID     string
	Name   string
	Z      string
	Format Format
}

// Validate checks that the block names an id. An empty Z is the top-level
// scope.
func (m Metadata) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
	)
}

var (
	// A doc block opens a line with /** and either closes on that line or
	// continues only through * gutter lines.
	docBlockRe = regexp.MustCompile(`(?m)^[ \t]*/\*\*(?:[^\n]*?\*/|[ \t]*\r?\n(?:[ \t]*\*[^\n]*\n)*?[ \t]*(?:\*[^\n]*?)?\*/)`)
	tagLineRe  = regexp.MustCompile(`(?m)^[ \t]*(?:/\*\*|\*)?[ \t]*@node-red-(id|name|z)\b(.*)$`)
)

// Decode extracts the authoritative metadata block from a file's content.
// It returns (nil, nil) when the file carries no metadata at all, and an
// error wrapping apperr.ErrMalformedMetadata when a block is present but
// cannot be used.
func Decode(content string) (*Metadata, error) {
	structured, structuredErr := decodeStructured(content)
	if structured != nil {
		return structured, nil
	}

	body, ok := findLegacy(content)
	if !ok {
		return nil, structuredErr
	}
	legacy, err := parseLegacy(body)
	if err != nil {
		return nil, fmt.Errorf("%w: legacy block: %v", apperr.ErrMalformedMetadata, err)
	}
	if err := legacy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: legacy block: %v", apperr.ErrMalformedMetadata, err)
	}
	return legacy, nil
}

// decodeStructured returns the first tagged doc block, or an error when a
// tagged block exists but lacks the id or the z tag. The z tag may be empty.
func decodeStructured(content string) (*Metadata, error) {
	block, ok := findStructured(content)
	if !ok {
		return nil, nil
	}
	m := &Metadata{Format: FormatStructured}
	seen := make(map[string]bool, 3)
	for _, match := range tagLineRe.FindAllStringSubmatch(block, -1) {
		tag := match[1]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(match[2]), "*/"))
		switch tag {
		case "id":
			m.ID = value
		case "name":
			m.Name = value
		case "z":
			m.Z = value
		}
	}
	if !seen["z"] {
		return nil, fmt.Errorf("%w: structured block: z: tag is missing", apperr.ErrMalformedMetadata)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: structured block: %v", apperr.ErrMalformedMetadata, err)
	}
	return m, nil
}

func findStructured(content string) (string, bool) {
	for _, block := range docBlockRe.FindAllString(content, -1) {
		if strings.Contains(block, TagID) {
			return block, true
		}
	}
	return "", false
}

// Encode renders the structured block for the given identity.
func Encode(id, name, z string) string {
	var b strings.Builder
	b.WriteString("/**\n")
	for _, line := range [][2]string{{TagID, id}, {TagName, name}, {TagZ, z}} {
		b.WriteString(strings.TrimRight(" * "+line[0]+" "+singleLine(line[1]), " "))
		b.WriteByte('\n')
	}
	b.WriteString(" */")
	return b.String()
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// HasStructured reports whether content carries a tagged doc block.
func HasStructured(content string) bool {
	_, ok := findStructured(content)
	return ok
}

// HasLegacy reports whether content carries a legacy metadata block.
func HasLegacy(content string) bool {
	_, ok := findLegacy(content)
	return ok
}

// Strip removes every metadata block of either encoding, wherever it sits.
func Strip(content string) string {
	out := docBlockRe.ReplaceAllStringFunc(content, func(block string) string {
		if tagLineRe.MatchString(block) {
			return ""
		}
		return block
	})
	return legacyBlockRe.ReplaceAllString(out, "")
}
