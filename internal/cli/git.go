package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"outliner-cli/internal/gitrepo"
)

func newGitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "git",
		Short: "Git state of the scene file (see --autocommit)",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether the scene lives in a git work tree and can be committed",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sceneStore(app)
			st, err := gitrepo.GetStatus(cmd.Context(), filepath.Dir(s.ScenePath()))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": st,
				"meta": map[string]any{
					"autocommit": app.cfg.Git.AutoCommit,
					"canCommit":  st.CanCommit(),
					"files":      s.VersionedFiles(app.cfg.JournalBackend()),
				},
			})
		},
	}

	commit := &cobra.Command{
		Use:   "commit",
		Short: "Commit the scene file now",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sceneStore(app)
			msg, _ := cmd.Flags().GetString("message")
			committed, err := gitrepo.CommitFiles(cmd.Context(), s.VersionedFiles(app.cfg.JournalBackend()), msg)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"committed": committed}})
		},
	}
	commit.Flags().StringP("message", "m", "", "Commit message (default: outliner: update (<time>))")

	cmd.AddCommand(status, commit)
	return cmd
}
