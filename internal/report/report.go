// Package report renders run results for the console.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/starford/flowscript/internal/models"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Scan writes the ranked scan entries as a table.
func Scan(w io.Writer, entries []models.ScanEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No function nodes with code found.")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		extracted := "no"
		if e.Extracted {
			extracted = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.ID,
			e.Name,
			e.Container,
			strconv.Itoa(e.LOC),
			strconv.Itoa(e.Complexity),
			extracted,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("#", "ID", "NAME", "CONTAINER", "LOC", "COMPLEXITY", "EXTRACTED").
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Extract writes a one-line summary of an extraction.
func Extract(w io.Writer, res *models.ExtractResult) error {
	var err error
	switch res.Action {
	case models.ExtractMoved:
		_, err = fmt.Fprintf(w, "Moved %s: %s -> %s\n", res.ID, res.FromPath, res.Path)
	case models.ExtractUnchanged:
		_, err = fmt.Fprintf(w, "Up to date %s: %s\n", res.ID, res.Path)
	default:
		_, err = fmt.Fprintf(w, "Extracted %s to %s (%s)\n", res.ID, res.Path, res.Action)
	}
	return err
}

// Sync writes the summary of a sync pass.
func Sync(w io.Writer, r *models.SyncReport, dryRun bool) error {
	verb := "Updated"
	if dryRun {
		verb = "Would update"
	}
	_, err := fmt.Fprintf(w, "%s %d node(s) from %d file(s); %d unchanged, %d without a matching node, %d warning(s).\n",
		verb, len(r.Updated), r.Files, r.Unchanged, len(r.Missing), r.Warnings)
	if err != nil {
		return err
	}
	if r.Written {
		_, err = fmt.Fprintln(w, "Document saved.")
	} else if len(r.Updated) == 0 {
		_, err = fmt.Fprintln(w, "No changes to save.")
	}
	return err
}

// Migrate writes the summary of a migrate pass.
func Migrate(w io.Writer, r *models.MigrateReport, dryRun bool) error {
	prefix := ""
	if dryRun {
		prefix = "(dry run) "
	}
	_, err := fmt.Fprintf(w, "%sScanned %d file(s): %d converted, %d moved, %d skipped, %d warning(s).\n",
		prefix, r.Files, r.Converted, r.Moved, r.Skipped, r.Warnings)
	return err
}
