package scriptservice

import (
	"context"
	"log/slog"
	"path"

	"github.com/starford/flowscript/internal/flows"
	"github.com/starford/flowscript/internal/index"
	"github.com/starford/flowscript/internal/metadata"
	"github.com/starford/flowscript/internal/models"
	"github.com/starford/flowscript/internal/wrapper"
)

// Migrate rewrites legacy-format files in the structured format and, when a
// document is given, moves every annotated file into its container folder.
// doc may be nil; it is then neither used to backfill container ids nor to
// relocate files.
func (s *Service) Migrate(ctx context.Context, doc *flows.Document) (*models.MigrateReport, error) {
	store, err := s.openStore()
	if err != nil {
		return nil, err
	}
	files, err := index.NewBuilder(store, s.logger).Files(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.MigrateReport{}
	for _, f := range files {
		report.Files++
		if f.Err != nil {
			s.logger.Warn("migrate: skipping file",
				slog.String("path", f.Path),
				slog.String("error", f.Err.Error()))
			report.Warnings++
			continue
		}
		if f.Meta == nil {
			continue
		}

		meta := *f.Meta
		var node models.Node
		var known bool
		if doc != nil {
			node, known = doc.Node(meta.ID)
			if known && meta.Z == "" {
				meta.Z = node.Z
			}
		}
		// An empty z is the top-level scope when the document says so or the
		// file already carries a structured z tag.
		if meta.Z == "" && !known && meta.Format == metadata.FormatLegacy {
			s.logger.Warn("migrate: no container id, leaving file as is",
				slog.String("path", f.Path),
				slog.String("id", meta.ID))
			report.Skipped++
			report.Warnings++
			continue
		}

		if meta.Format == metadata.FormatLegacy {
			name := meta.Name
			if name == "" && known {
				name = node.Name
			}
			content := wrapper.Wrap(meta.ID, name, wrapper.Unwrap(f.Content), meta.Z)
			if !s.dryRun {
				if err := store.Write(f.Path, []byte(content)); err != nil {
					s.logger.Warn("migrate: rewrite failed",
						slog.String("path", f.Path),
						slog.String("error", err.Error()))
					report.Warnings++
					continue
				}
			}
			report.Converted++
			s.logger.Info("migrate: converted", slog.String("path", f.Path), slog.String("id", meta.ID))
		}

		if doc == nil {
			continue
		}
		target := path.Join(ContainerDir(doc, meta.Z), path.Base(f.Path))
		if target == f.Path {
			continue
		}
		if store.Exists(target) {
			s.logger.Warn("migrate: target exists, not moving",
				slog.String("path", f.Path),
				slog.String("target", target))
			report.Skipped++
			report.Warnings++
			continue
		}
		if !s.dryRun {
			if err := store.Move(f.Path, target); err != nil {
				s.logger.Warn("migrate: move failed",
					slog.String("path", f.Path),
					slog.String("error", err.Error()))
				report.Warnings++
				continue
			}
			s.pruneAfterMove(store, f.Path)
		}
		report.Moved++
		s.logger.Info("migrate: moved", slog.String("from", f.Path), slog.String("to", target))
	}
	return report, nil
}
