package cli

import (
	"time"

	"github.com/spf13/cobra"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var (
		to        string
		html      bool
		overwrite bool
		events    int
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write a markdown (and HTML) report of the scene",
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

			var recent []model.Event
			if events > 0 {
				if j := journalFor(app, s); j != nil {
					recent, err = j.Tail(cmd.Context(), events)
					if err != nil {
						app.logger.Warn("read drop journal failed", "err", err)
					}
				}
			}

			res, err := publish.WriteScene(db, tr, to, publish.WriteOptions{
				RenderOptions: publish.RenderOptions{Events: recent, Now: time.Now()},
				HTML:          html,
				Overwrite:     overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res,
				"meta": map[string]any{"events": len(recent)},
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().BoolVar(&html, "html", false, "Also write an HTML page")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	cmd.Flags().IntVar(&events, "events", 20, "Recent drops to include (0 = none)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
