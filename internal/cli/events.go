package cli

import (
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the drop journal",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded drops (oldest-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sceneStore(app)
			evs, err := s.Journal(app.cfg.JournalBackend()).Tail(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": evs,
				"meta": map[string]any{"count": len(evs), "limit": limit},
			})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")

	entityCmd := &cobra.Command{
		Use:   "entity <id>",
		Short: "List drops that touched an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sceneStore(app)
			evs, err := s.Journal(app.cfg.JournalBackend()).ForEntity(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": evs,
				"meta": map[string]any{"count": len(evs), "entityId": args[0]},
			})
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(entityCmd)
	return cmd
}
