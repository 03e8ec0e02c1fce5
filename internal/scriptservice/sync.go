package scriptservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/flowscript/internal/flows"
	"github.com/starford/flowscript/internal/index"
	"github.com/starford/flowscript/internal/models"
	"github.com/starford/flowscript/internal/wrapper"
)

// Sync copies every annotated file's body, and its container id when set,
// back into the document. The document is saved only if a node changed.
func (s *Service) Sync(ctx context.Context, doc *flows.Document) (*models.SyncReport, error) {
	store, err := s.openStore()
	if err != nil {
		return nil, err
	}
	ix, err := index.NewBuilder(store, s.logger).Build(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.SyncReport{Files: ix.Len(), Warnings: ix.Skipped()}
	for _, id := range ix.IDs() {
		e, _ := ix.Lookup(id)
		node, ok := doc.Node(id)
		if !ok || !node.IsFunction() {
			s.logger.Warn("sync: no function node for file",
				slog.String("id", id),
				slog.String("path", e.Path))
			report.Missing = append(report.Missing, id)
			continue
		}

		bodyChanged, err := doc.SetFunc(id, wrapper.Unwrap(e.Content))
		if err != nil {
			return nil, fmt.Errorf("scriptservice: sync %s: %w", id, err)
		}
		zChanged := false
		if e.Meta.Z != "" {
			if zChanged, err = doc.SetZ(id, e.Meta.Z); err != nil {
				return nil, fmt.Errorf("scriptservice: sync %s: %w", id, err)
			}
		}

		if !bodyChanged && !zChanged {
			report.Unchanged++
			continue
		}
		report.Updated = append(report.Updated, id)
		s.logger.Info("sync: node updated",
			slog.String("id", id),
			slog.String("path", e.Path),
			slog.Bool("body", bodyChanged),
			slog.Bool("container", zChanged))
	}

	if doc.Dirty() && !s.dryRun {
		if err := doc.Save(); err != nil {
			return nil, err
		}
		report.Written = true
	}
	return report, nil
}
