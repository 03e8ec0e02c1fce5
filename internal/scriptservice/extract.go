package scriptservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/flowscript/internal/apperr"
	"github.com/starford/flowscript/internal/checksum"
	"github.com/starford/flowscript/internal/flows"
	"github.com/starford/flowscript/internal/index"
	"github.com/starford/flowscript/internal/models"
	"github.com/starford/flowscript/internal/wrapper"
)

// Extract writes the script of function node id to its canonical file,
// moving an earlier extraction of the same id when the node's container or
// name changed. The file is always rewritten from the document.
func (s *Service) Extract(ctx context.Context, doc *flows.Document, id string) (*models.ExtractResult, error) {
	if id == "" {
		return nil, apperr.ErrMissingID
	}
	node, ok := doc.Node(id)
	if !ok || !node.IsFunction() {
		return nil, fmt.Errorf("scriptservice: function node %s: %w", id, apperr.ErrNotFound)
	}

	store, err := s.ensureStore()
	if err != nil {
		return nil, err
	}
	ix, err := index.NewBuilder(store, s.logger).Build(ctx)
	if err != nil {
		return nil, err
	}

	target := targetPath(doc, node, ix, store)
	content := []byte(wrapper.Wrap(node.ID, node.Name, node.Func, node.Z))
	res := &models.ExtractResult{ID: id, Path: target}

	existing, found := ix.Lookup(id)
	switch {
	case found && existing.Path != target:
		if err := store.Move(existing.Path, target); err != nil {
			return nil, err
		}
		s.pruneAfterMove(store, existing.Path)
		if err := store.Write(target, content); err != nil {
			return nil, err
		}
		res.FromPath = existing.Path
		res.Action = models.ExtractMoved
	case found && checksum.Equal([]byte(existing.Content), content):
		res.Action = models.ExtractUnchanged
	case found:
		if err := store.Write(target, content); err != nil {
			return nil, err
		}
		res.Action = models.ExtractUpdated
	default:
		if err := store.Write(target, content); err != nil {
			return nil, err
		}
		res.Action = models.ExtractCreated
	}

	s.logger.Info("extract: done",
		slog.String("id", id),
		slog.String("path", res.Path),
		slog.String("action", string(res.Action)),
		slog.String("checksum", checksum.Short(content)))
	return res, nil
}
