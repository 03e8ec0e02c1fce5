// Package wrapper converts between a raw function-node body and its on-disk
// form: the body indented inside a module.exports function, followed by the
// structured metadata block.
package wrapper

import (
	"regexp"
	"strings"

	"github.com/starford/flowscript/internal/metadata"
)

const (
	// Indent is the unit added to every non-blank body line.
	Indent = "    "
	// Header opens the wrapper and names the parameters a function node sees at runtime.
	Header = "module.exports = function (msg, node, context, flow, global, env, RED) {"
	// Footer closes the wrapper. Unwrap cuts at its last occurrence.
	Footer = "};"
)

var headerRe = regexp.MustCompile(`module\.exports\s*=\s*(?:async\s+)?function\s*[\w$]*\s*\([^)]*\)\s*\{`)

// Wrap renders the file content for one script.
func Wrap(id, name, body, z string) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line != "" {
			b.WriteString(Indent)
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	b.WriteString(Footer)
	b.WriteString("\n\n")
	b.WriteString(metadata.Encode(id, name, z))
	return strings.TrimSpace(b.String()) + "\n"
}

// Unwrap recovers the raw body from file content. Metadata blocks are removed
// first wherever they sit. When the wrapper header is missing, the remaining
// text is taken as the body.
func Unwrap(content string) string {
	text := metadata.Strip(content)
	loc := headerRe.FindStringIndex(text)
	if loc == nil {
		return Normalize(text)
	}
	interior := text[loc[1]:]
	// Rightmost match: a body line may legitimately end with "};".
	if i := strings.LastIndex(interior, Footer); i >= 0 {
		interior = interior[:i]
	}
	return Normalize(dedent(interior))
}

// Normalize trims trailing whitespace on every line and drops leading and
// trailing blank lines. Unwrap(Wrap(..., body, ...)) == Normalize(body).
func Normalize(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func dedent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, Indent):
			lines[i] = line[len(Indent):]
		case strings.HasPrefix(line, "\t"):
			lines[i] = line[1:]
		}
	}
	return strings.Join(lines, "\n")
}
