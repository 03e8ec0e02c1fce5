package metadata

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// LegacyMarker opens a legacy block: /* @node-red-meta { ... } */
const LegacyMarker = "@node-red-meta"

// legacyContainerAlias is the key older releases used for the container id.
const legacyContainerAlias = "tab"

var (
	legacyBlockRe   = regexp.MustCompile(`(?s)/\*[ \t]*@node-red-meta\b(.*?)\*/`)
	trailingCommaRe = regexp.MustCompile(`,\s*}\s*$`)
)

func findLegacy(content string) (string, bool) {
	m := legacyBlockRe.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseLegacy reads the loosely formatted object inside a legacy block.
// Hand-edited blocks are common, so the interior is normalised first:
// comment gutters are dropped, missing outer braces are added and one
// trailing comma before the closing brace is removed. The result is read
// as a YAML flow mapping, which accepts both JSON and unquoted keys.
func parseLegacy(body string) (*Metadata, error) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "*") {
			line = strings.TrimSpace(line[1:])
		}
		lines[i] = line
	}
	text := strings.TrimSpace(strings.Join(lines, "\n"))
	text = strings.TrimSpace(strings.TrimPrefix(text, ":"))
	if text == "" {
		return nil, fmt.Errorf("empty block")
	}
	if !strings.HasPrefix(text, "{") {
		text = "{" + text + "}"
	}
	text = trailingCommaRe.ReplaceAllString(text, "}")

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(text), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("block is not an object")
	}

	m := &Metadata{
		ID:     scalar(fields["id"]),
		Name:   scalar(fields["name"]),
		Z:      scalar(fields["z"]),
		Format: FormatLegacy,
	}
	if m.Z == "" {
		m.Z = scalar(fields[legacyContainerAlias])
	}
	return m, nil
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
