package scriptservice

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/starford/flowscript/internal/complexity"
	"github.com/starford/flowscript/internal/flows"
	"github.com/starford/flowscript/internal/index"
	"github.com/starford/flowscript/internal/models"
)

// Scan ranks the document's function nodes by complexity, highest first,
// and marks those that already have a file under the root. Ties keep
// document order. A missing root means nothing is extracted yet.
func (s *Service) Scan(ctx context.Context, doc *flows.Document) ([]models.ScanEntry, error) {
	ix, err := index.Build(ctx, s.root, s.filter, s.logger)
	if err != nil {
		return nil, err
	}

	analyzer := complexity.NewAnalyzer()
	defer analyzer.Close()

	var entries []models.ScanEntry
	for _, n := range doc.Functions() {
		if strings.TrimSpace(n.Func) == "" {
			continue
		}
		m, err := analyzer.Analyze(ctx, n.Func)
		if err != nil {
			return nil, err
		}
		e := models.ScanEntry{
			ID:         n.ID,
			Name:       n.Name,
			Container:  doc.ContainerName(n.Z),
			LOC:        m.LOC,
			Complexity: m.Complexity,
		}
		if file, ok := ix.Lookup(n.ID); ok {
			e.Extracted = true
			e.Path = file.Path
		}
		entries = append(entries, e)
	}

	slices.SortStableFunc(entries, func(a, b models.ScanEntry) int {
		return cmp.Compare(b.Complexity, a.Complexity)
	})
	if s.scanLimit > 0 && len(entries) > s.scanLimit {
		entries = entries[:s.scanLimit]
	}
	return entries, nil
}
