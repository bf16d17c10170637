package cli

import (
	"fmt"
	"os"

	"outliner-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var (
		force bool
		empty bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample scene file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sceneStore(app)
			if _, err := s.Load(); err == nil && !force {
				return writeErr(cmd, fmt.Errorf("scene already exists at %s (pass --force to overwrite)", app.cfg.Scene))
			} else if err != nil && !os.IsNotExist(err) && !force {
				return writeErr(cmd, fmt.Errorf("existing scene at %s is unreadable (pass --force to overwrite): %w", app.cfg.Scene, err))
			}

			db := store.SampleDB()
			if empty {
				db = store.EmptyDB()
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"scene":   app.cfg.Scene,
					"journal": s.JournalPath(),
					"objects": len(db.Objects),
				},
				"_hints": []string{
					"outliner tree --table",
					"outliner docs drag",
				},
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing scene")
	cmd.Flags().BoolVar(&empty, "empty", false, "Write an empty scene instead of the sample")
	return cmd
}
