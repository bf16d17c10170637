package cli

import (
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive outliner (mouse or keyboard drag and drop)",
		Long: `Interactive outliner.

Drag rows with the mouse, or pick one up with d, move with ↑/↓, choose the band with
[ ] = and drop with enter. See "outliner docs tui" for all keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runTUI(app); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}
