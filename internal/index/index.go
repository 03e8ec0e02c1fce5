// Package index maps script ids to the files that carry them. The index is
// rebuilt from the script root on every call; nothing is persisted.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/starford/flowscript/internal/apperr"
	"github.com/starford/flowscript/internal/metadata"
	"github.com/starford/flowscript/internal/storage"
)

// File is the outcome of reading and decoding one eligible file.
type File struct {
	Path    string
	Content string
	Meta    *metadata.Metadata // nil when the file has no usable block
	Err     error              // read or decode failure
}

// Entry is one indexed script file.
type Entry struct {
	Path    string
	Meta    metadata.Metadata
	Content string
}

// Index maps ids to entries. When two files carry the same id the one
// visited last in lexical walk order wins.
type Index struct {
	entries map[string]Entry
	owners  map[string]string // path -> id
	order   []string
	skipped int
}

// Empty returns an index with no entries.
func Empty() *Index {
	return &Index{
		entries: make(map[string]Entry),
		owners:  make(map[string]string),
	}
}

// Lookup returns the entry for id.
func (ix *Index) Lookup(id string) (Entry, bool) {
	e, ok := ix.entries[id]
	return e, ok
}

// Owner returns the id recorded for the file at path.
func (ix *Index) Owner(path string) (string, bool) {
	id, ok := ix.owners[path]
	return id, ok
}

// IDs returns indexed ids in the order they were first seen.
func (ix *Index) IDs() []string {
	return append([]string(nil), ix.order...)
}

// Len returns the number of distinct ids.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Skipped returns how many files were left out because they could not be
// read or carried a malformed block.
func (ix *Index) Skipped() int {
	return ix.skipped
}

// Paths returns the id -> path mapping.
func (ix *Index) Paths() map[string]string {
	out := make(map[string]string, len(ix.entries))
	for id, e := range ix.entries {
		out[id] = e.Path
	}
	return out
}

func (ix *Index) add(e Entry, logger *slog.Logger) {
	if prev, ok := ix.entries[e.Meta.ID]; ok {
		logger.Warn("index: duplicate id, keeping the later file",
			slog.String("id", e.Meta.ID),
			slog.String("path", e.Path),
			slog.String("previous", prev.Path))
		delete(ix.owners, prev.Path)
	} else {
		ix.order = append(ix.order, e.Meta.ID)
	}
	ix.entries[e.Meta.ID] = e
	ix.owners[e.Path] = e.Meta.ID
}

// Builder reads a script root through a storage provider.
type Builder struct {
	store   storage.Provider
	logger  *slog.Logger
	workers int
}

// NewBuilder creates a Builder. logger may be nil.
func NewBuilder(store storage.Provider, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		store:   store,
		logger:  logger,
		workers: runtime.GOMAXPROCS(0),
	}
}

// Files reads and decodes every eligible file. Results keep walk order;
// per-file failures are reported in File.Err rather than returned.
func (b *Builder) Files(ctx context.Context) ([]File, error) {
	infos, err := b.store.List("")
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}

	out := make([]File, len(infos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, info := range infos {
		i, info := i, info
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f := File{Path: info.Path}
			data, err := b.store.Read(info.Path)
			if err != nil {
				f.Err = err
				out[i] = f
				return nil
			}
			f.Content = string(data)
			f.Meta, f.Err = metadata.Decode(f.Content)
			out[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	return out, nil
}

// Build indexes every file that decodes to a non-empty id. Unreadable files
// and malformed blocks are logged and skipped; files without metadata are
// skipped silently.
func (b *Builder) Build(ctx context.Context) (*Index, error) {
	files, err := b.Files(ctx)
	if err != nil {
		return nil, err
	}
	ix := Empty()
	for _, f := range files {
		if f.Err != nil {
			b.logger.Warn("index: skipping file",
				slog.String("path", f.Path),
				slog.String("error", f.Err.Error()))
			ix.skipped++
			continue
		}
		if f.Meta == nil || f.Meta.ID == "" {
			continue
		}
		ix.add(Entry{Path: f.Path, Meta: *f.Meta, Content: f.Content}, b.logger)
	}
	b.logger.Debug("index: built",
		slog.Int("files", len(files)),
		slog.Int("ids", ix.Len()))
	return ix, nil
}

// Build opens root with filter and indexes it. A missing root yields an
// empty index rather than an error.
func Build(ctx context.Context, root string, filter storage.Filter, logger *slog.Logger) (*Index, error) {
	store, err := storage.NewFS(root, filter)
	if err != nil {
		if errors.Is(err, apperr.ErrMissingRoot) {
			return Empty(), nil
		}
		return nil, err
	}
	return NewBuilder(store, logger).Build(ctx)
}
