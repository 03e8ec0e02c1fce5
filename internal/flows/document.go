// Package flows loads, queries and rewrites a flows document: a JSON array
// of heterogeneous node records. Only function, tab and subflow nodes are
// interpreted; every other record and field is written back as it was read,
// in its original key order.
package flows

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/flowscript/internal/apperr"
	"github.com/starford/flowscript/internal/models"
	"github.com/starford/flowscript/internal/storage"
)

// Container labels used when a node's z cannot be resolved to a tab or subflow.
const (
	GlobalLabel     = "global"
	UnresolvedLabel = "Global/Subflow"
)

// DefaultIndent is the indent width of a rewritten document.
const DefaultIndent = 4

type entry struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage] // nil when the record is not an object
	raw    json.RawMessage
	node   models.Node
}

// Document is an in-memory flows document.
type Document struct {
	path    string
	indent  int
	entries []*entry
	byID    map[string]*entry
	dirty   bool
}

// Load reads and parses the document at path. Read and parse failures wrap
// apperr.ErrInvalidDocument.
func Load(path string, indent int) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flows: %w: read %s: %v", apperr.ErrInvalidDocument, path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("flows: %s: %w", path, err)
	}
	doc.path = path
	doc.indent = indent
	return doc, nil
}

// Parse decodes a flows document from memory.
func Parse(data []byte) (*Document, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidDocument, err)
	}
	doc := &Document{
		indent:  DefaultIndent,
		entries: make([]*entry, 0, len(items)),
		byID:    make(map[string]*entry, len(items)),
	}
	for i, item := range items {
		e := &entry{raw: item}
		if trimmed := bytes.TrimSpace(item); len(trimmed) > 0 && trimmed[0] == '{' {
			fields := orderedmap.New[string, json.RawMessage]()
			if err := fields.UnmarshalJSON(trimmed); err != nil {
				return nil, fmt.Errorf("%w: node %d: %v", apperr.ErrInvalidDocument, i, err)
			}
			e.fields = fields
			e.node = decodeNode(fields)
		}
		doc.entries = append(doc.entries, e)
		if e.node.ID != "" {
			doc.byID[e.node.ID] = e
		}
	}
	return doc, nil
}

func decodeNode(fields *orderedmap.OrderedMap[string, json.RawMessage]) models.Node {
	return models.Node{
		ID:    stringField(fields, "id"),
		Type:  stringField(fields, "type"),
		Name:  stringField(fields, "name"),
		Label: stringField(fields, "label"),
		Z:     stringField(fields, "z"),
		Func:  stringField(fields, "func"),
	}
}

// stringField returns the string value of key, or "" when absent or not a string.
func stringField(fields *orderedmap.OrderedMap[string, json.RawMessage], key string) string {
	raw, ok := fields.Get(key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Len returns the number of records in the document.
func (d *Document) Len() int {
	return len(d.entries)
}

// Node looks up a node by id.
func (d *Document) Node(id string) (models.Node, bool) {
	e, ok := d.byID[id]
	if !ok {
		return models.Node{}, false
	}
	return e.node, true
}

// Functions returns every function node in document order.
func (d *Document) Functions() []models.Node {
	var out []models.Node
	for _, e := range d.entries {
		if e.node.IsFunction() {
			out = append(out, e.node)
		}
	}
	return out
}

// ContainerName resolves a container id to its display label. An empty id
// maps to GlobalLabel; an id that does not name a tab or subflow, or names
// one without a label, maps to UnresolvedLabel.
func (d *Document) ContainerName(z string) string {
	if z == "" {
		return GlobalLabel
	}
	n, ok := d.Node(z)
	if !ok || !n.IsContainer() || strings.TrimSpace(n.DisplayLabel()) == "" {
		return UnresolvedLabel
	}
	return n.DisplayLabel()
}

// SetFunc replaces the script body of node id. It reports whether the value changed.
func (d *Document) SetFunc(id, body string) (bool, error) {
	return d.setString(id, "func", body)
}

// SetZ replaces the container id of node id. It reports whether the value changed.
func (d *Document) SetZ(id, z string) (bool, error) {
	return d.setString(id, "z", z)
}

func (d *Document) setString(id, key, value string) (bool, error) {
	e, ok := d.byID[id]
	if !ok || e.fields == nil {
		return false, fmt.Errorf("flows: node %s: %w", id, apperr.ErrNotFound)
	}
	if _, present := e.fields.Get(key); present && stringField(e.fields, key) == value {
		return false, nil
	}
	raw, err := encodeString(value)
	if err != nil {
		return false, fmt.Errorf("flows: encode %s: %w", key, err)
	}
	e.fields.Set(key, raw)
	e.node = decodeNode(e.fields)
	d.dirty = true
	return true, nil
}

// Dirty reports whether any node changed since the document was loaded or saved.
func (d *Document) Dirty() bool {
	return d.dirty
}

// Marshal renders the whole document: a JSON array indented with the
// document's indent width, HTML characters unescaped, trailing newline.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range d.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if e.fields == nil {
			buf.Write(e.raw)
			continue
		}
		buf.WriteByte('{')
		first := true
		for pair := e.fields.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, err := encodeString(pair.Key)
			if err != nil {
				return nil, fmt.Errorf("flows: encode key: %w", err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(pair.Value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	var err error
	if d.indent > 0 {
		err = json.Indent(&out, buf.Bytes(), "", strings.Repeat(" ", d.indent))
	} else {
		err = json.Compact(&out, buf.Bytes())
	}
	if err != nil {
		return nil, fmt.Errorf("flows: format: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Save rewrites the document file in one atomic write and clears Dirty.
func (d *Document) Save() error {
	if d.path == "" {
		return fmt.Errorf("flows: document has no path")
	}
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(d.path, data); err != nil {
		return fmt.Errorf("flows: save %s: %w", d.path, err)
	}
	d.dirty = false
	return nil
}

func encodeString(s string) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
