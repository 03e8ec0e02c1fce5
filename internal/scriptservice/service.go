// Package scriptservice keeps a flows document and a tree of extracted
// script files consistent through explicit, one-shot passes: Extract
// (document to file), Sync (files to document), Migrate (legacy files to the
// current format and layout) and Scan (read-only complexity ranking).
package scriptservice

import (
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/starford/flowscript/internal/flows"
	"github.com/starford/flowscript/internal/index"
	"github.com/starford/flowscript/internal/models"
	"github.com/starford/flowscript/internal/slug"
	"github.com/starford/flowscript/internal/storage"
)

// DefaultScanLimit is the number of rows a scan report keeps.
const DefaultScanLimit = 20

// ScriptExt is the extension of extracted files.
const ScriptExt = ".js"

// Service runs the extraction passes against one script root.
type Service struct {
	root      string
	filter    storage.Filter
	logger    *slog.Logger
	dryRun    bool
	scanLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for per-file warnings and summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFilter sets which files under the root count as scripts.
func WithFilter(f storage.Filter) Option {
	return func(s *Service) {
		s.filter = f
	}
}

// WithDryRun makes Sync and Migrate report changes without writing them.
func WithDryRun(dryRun bool) Option {
	return func(s *Service) {
		s.dryRun = dryRun
	}
}

// WithScanLimit sets how many rows Scan returns.
func WithScanLimit(n int) Option {
	return func(s *Service) {
		s.scanLimit = n
	}
}

// New creates a Service rooted at root.
func New(root string, opts ...Option) *Service {
	s := &Service{
		root:      root,
		filter:    storage.DefaultFilter(),
		logger:    slog.Default(),
		scanLimit: DefaultScanLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// openStore opens the script root, which must exist.
func (s *Service) openStore() (*storage.FS, error) {
	return storage.NewFS(s.root, s.filter)
}

// ensureStore opens the script root, creating it first when missing.
func (s *Service) ensureStore() (*storage.FS, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("scriptservice: create script root: %w", err)
	}
	return s.openStore()
}

// ContainerDir returns the folder, relative to the root, that holds scripts
// of container z.
func ContainerDir(doc *flows.Document, z string) string {
	return slug.OrDefault(doc.ContainerName(z), slug.Make(flows.GlobalLabel))
}

// CanonicalPath returns <container-slug>/<name-slug>.js for node.
func CanonicalPath(doc *flows.Document, node models.Node) string {
	return path.Join(ContainerDir(doc, node.Z), slug.OrDefault(node.Name, node.ID)+ScriptExt)
}

// targetPath is CanonicalPath unless that path already holds a different
// script, in which case the id is appended to the file name.
func targetPath(doc *flows.Document, node models.Node, ix *index.Index, store storage.Provider) string {
	p := CanonicalPath(doc, node)
	owner, owned := ix.Owner(p)
	if owned && owner == node.ID {
		return p
	}
	if !owned && !store.Exists(p) {
		return p
	}
	base := slug.OrDefault(node.Name, node.ID) + "-" + slug.OrDefault(node.ID, "node")
	return path.Join(ContainerDir(doc, node.Z), base+ScriptExt)
}

// pruneAfterMove removes the directory a file left if it became empty.
func (s *Service) pruneAfterMove(store storage.Provider, oldPath string) {
	dir := path.Dir(oldPath)
	if dir == "." {
		return
	}
	if err := store.Prune(dir); err != nil {
		s.logger.Warn("prune failed", slog.String("dir", dir), slog.String("error", err.Error()))
	}
}
