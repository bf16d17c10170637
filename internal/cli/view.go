package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

func newViewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open/close rows and set the selection (persisted next to the scene)",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the persisted view state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sceneStore(app)
			st, err := s.LoadViewState()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}

	// edit resolves refs against the current tree and applies fn to the state.
	edit := func(cmd *cobra.Command, refs []string, fn func(st *store.ViewState, keys []string)) error {
		db, s, err := loadDB(app)
		if err != nil {
			return writeErr(cmd, err)
		}
		st, err := s.LoadViewState()
		if err != nil {
			return writeErr(cmd, err)
		}
		tr := outline.Build(db, viewFor(app, st))
		var keys []string
		for _, ref := range refs {
			id, err := findRow(tr, ref)
			if err != nil {
				return writeErr(cmd, err)
			}
			keys = append(keys, tr.Elem(id).Key())
		}
		fn(st, keys)
		slices.Sort(st.Closed)
		st.Closed = slices.Compact(st.Closed)
		if err := s.SaveViewState(st); err != nil {
			return writeErr(cmd, err)
		}
		return writeOut(cmd, app, map[string]any{"data": st})
	}

	open := &cobra.Command{
		Use:   "open <row>...",
		Short: "Expand rows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, args, func(st *store.ViewState, keys []string) {
				st.Closed = slices.DeleteFunc(st.Closed, func(k string) bool { return slices.Contains(keys, k) })
			})
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close <row>...",
		Short: "Collapse rows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, args, func(st *store.ViewState, keys []string) {
				st.Closed = append(st.Closed, keys...)
			})
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select [row]...",
		Short: "Replace the selection (no rows clears it)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, args, func(st *store.ViewState, keys []string) {
				st.Selected = keys
			})
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget open/closed state and selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sceneStore(app)
			st := &store.ViewState{Version: 1}
			if err := s.SaveViewState(st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}

	cmd.AddCommand(show, open, closeCmd, selectCmd, reset)
	return cmd
}
