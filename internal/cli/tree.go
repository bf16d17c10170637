package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

type treeRow struct {
	Row      int          `json:"row"`
	Key      string       `json:"key"`
	Elem     outline.Elem `json:"elem"`
	Label    string       `json:"label"`
	Depth    int          `json:"depth"`
	Open     bool         `json:"open"`
	Children int          `json:"children"`
	Selected bool         `json:"selected,omitempty"`
	Rect     outline.Rect `json:"rect"`
}

// viewFor is the configured view plus the persisted open/closed and selection state.
func viewFor(app *App, st *store.ViewState) outline.View {
	v := app.cfg.OutlineView()
	if st == nil {
		return v
	}
	v.Closed = keySet(st.Closed)
	v.Selected = keySet(st.Selected)
	return v
}

func keySet(keys []string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = true
	}
	return out
}

func treeRows(tr *outline.Tree) []treeRow {
	rows := []treeRow{}
	for i, id := range tr.Visible() {
		n := tr.Node(id)
		rows = append(rows, treeRow{
			Row:      i,
			Key:      n.Elem.Key(),
			Elem:     n.Elem,
			Label:    n.Label,
			Depth:    n.Depth,
			Open:     n.Open,
			Children: len(n.Children),
			Selected: tr.IsSelected(id),
			Rect:     n.Rect,
		})
	}
	return rows
}

func renderTreeTable(w io.Writer, rows []treeRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Y", "Name", "Kind", "Key"})
	for _, r := range rows {
		glyph := "  "
		if r.Children > 0 {
			glyph = "▸ "
			if r.Open {
				glyph = "▾ "
			}
		}
		name := strings.Repeat("  ", r.Depth) + glyph + r.Label
		if r.Selected {
			name += " *"
		}
		t.AppendRow(table.Row{r.Row, fmt.Sprintf("%g", r.Rect.Top), name, r.Elem.Kind.String(), r.Key})
	}
	t.Render()
}

func newTreeCmd(app *App) *cobra.Command {
	var asTable bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the outliner rows with their pointer geometry",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := s.LoadViewState()
			if err != nil {
				return writeErr(cmd, err)
			}
			tr := outline.Build(db, viewFor(app, st))
			rows := treeRows(tr)

			if asTable {
				renderTreeTable(cmd.OutOrStdout(), rows)
				return nil
			}
			return writeOut(cmd, app, map[string]any{
				"data": rows,
				"meta": map[string]any{
					"count": len(rows),
					"view":  tr.View(),
				},
			})
		},
	}

	cmd.Flags().BoolVar(&asTable, "table", false, "Print a table instead of the JSON envelope")
	return cmd
}
