package production

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/comalice/formulax"
	"github.com/comalice/formulax/internal/batch"
	"github.com/comalice/formulax/internal/console"
	"github.com/comalice/formulax/internal/session"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failStyle   = cellStyle.Foreground(lipgloss.Color("#E06C75"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5C6370"))
)

// TableRenderer renders the catalog, session history and batch reports as
// bordered terminal tables.
type TableRenderer struct {
	precision int
}

// NewTableRenderer creates a renderer printing numbers with precision decimals.
func NewTableRenderer(precision int) *TableRenderer {
	return &TableRenderer{precision: precision}
}

func (r *TableRenderer) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// Catalog renders one row per formula.
func (r *TableRenderer) Catalog(fs []*formulax.Formula) string {
	rows := make([][]string, 0, len(fs))
	for _, f := range fs {
		rows = append(rows, []string{f.Name, strings.Join(f.Params, " "), f.Kind.String(), f.Description})
	}
	return r.newTable("FORMULA", "PARAMS", "KIND", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// History renders session records, oldest first.
func (r *TableRenderer) History(recs []session.Record) string {
	rows := make([][]string, 0, len(recs))
	failed := make(map[int]bool)
	for i, rec := range recs {
		out := rec.Err
		if rec.Failed() {
			failed[i] = true
		} else {
			out = console.FormatValue(nil, rec.Result, r.precision)
		}
		rows = append(rows, []string{rec.At.Format("2006-01-02 15:04:05"), rec.Formula, formatArgs(rec.Args), out})
	}
	return r.newTable("TIME", "FORMULA", "ARGS", "RESULT").
		Rows(rows...).
		StyleFunc(statusStyle(failed)).
		String()
}

// Report renders a batch report with a summary line.
func (r *TableRenderer) Report(rep *batch.Report) string {
	rows := make([][]string, 0, len(rep.Outcomes))
	failed := make(map[int]bool)
	for i, o := range rep.Outcomes {
		out := o.Err
		if o.Failed() {
			failed[i] = true
		} else if o.Result != nil {
			out = console.FormatValue(nil, *o.Result, r.precision)
		}
		rows = append(rows, []string{o.Item.ID, o.Item.Formula, formatArgs(o.Item.Args), out})
	}
	t := r.newTable("ID", "FORMULA", "ARGS", "RESULT").
		Rows(rows...).
		StyleFunc(statusStyle(failed))
	summary := fmt.Sprintf("%s (version %s, run %s): %d items, %d failed",
		rep.Job, rep.Version, rep.RunID, len(rep.Outcomes), rep.Failed)
	return summary + "\n" + t.String()
}

func statusStyle(failed map[int]bool) table.StyleFunc {
	return func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case failed[row]:
			return failStyle
		default:
			return cellStyle
		}
	}
}

func formatArgs(args []float64) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = formulax.FormatFloat(a, -1)
	}
	return strings.Join(parts, " ")
}

// ExportJSON serializes v as indented JSON.
func ExportJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// FormulaMarkdown documents a formula as Markdown. Aliases come from the
// registry, see formulax.Registry.Aliases.
func FormulaMarkdown(f *formulax.Formula, aliases []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", f.Name)
	if f.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", f.Description)
	}
	fmt.Fprintf(&b, "- **Kind:** %s\n", f.Kind)
	if len(f.Params) > 0 {
		fmt.Fprintf(&b, "- **Parameters:** `%s`\n", strings.Join(f.Params, "`, `"))
	}
	if f.Unit != "" {
		fmt.Fprintf(&b, "- **Unit:** %s\n", f.Unit)
	}
	if len(aliases) > 0 {
		fmt.Fprintf(&b, "- **Aliases:** %s\n", strings.Join(aliases, ", "))
	}
	if f.Prompt != "" {
		fmt.Fprintf(&b, "\n## Console\n\n> %s\n", f.Prompt)
	}
	return b.String()
}

// RenderMarkdown renders md for the terminal. Style "auto" (or empty) picks a
// style from the terminal; "notty" renders plain text.
func RenderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render(md)
}
