package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the scene file into backups/ (and manage old copies)",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Back up the scene file now",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sceneStore(app)
			p, err := s.Backup(time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if p == "" {
				return writeErr(cmd, errNotFound("scene", app.cfg.Scene))
			}
			removed, err := s.PruneBackups(app.cfg.Backup.Keep)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": p},
				"meta": map[string]any{"pruned": removed, "keep": app.cfg.Backup.Keep},
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List backups (oldest-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := sceneStore(app).Backups()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": paths,
				"meta": map[string]any{"count": len(paths)},
			})
		},
	}

	var keep int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("keep") {
				keep = app.cfg.Backup.Keep
			}
			removed, err := sceneStore(app).PruneBackups(keep)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"removed": removed, "keep": keep},
			})
		},
	}
	prune.Flags().IntVar(&keep, "keep", 0, "Backups to keep (default: backup.keep from config)")

	cmd.AddCommand(create, list, prune)
	return cmd
}
