package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"outliner-cli/internal/config"
	"outliner-cli/internal/format"
	"outliner-cli/internal/gitrepo"
	"outliner-cli/internal/store"
	"outliner-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigFile string
	Dir        string
	PrettyJSON bool
	Format     string

	cfg    *config.Config
	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "outliner",
		Short:        "Scene outliner with drag-and-drop editing (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive outliner
  outliner

  # Write a sample scene and look at it
  outliner init
  outliner tree --table

  # Parent the cup to the camera (drop on the middle of the row)
  outliner drag --from ob-cup --to ob-camera

  # Move a modifier below another one
  outliner drag --from mod-bevel --to mod-solidify@after
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigFile, app.Dir, cmd.Flags())
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		app.Format = cfg.Format
		app.logger = cfg.Logger(cmd.ErrOrStderr())
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigFile, "config", envOr("OUTLINER_CONFIG", ""), "Config file (default: outliner.yaml in --dir)")
	pf.StringVar(&app.Dir, "dir", envOr("OUTLINER_DIR", "."), "Directory holding outliner.yaml and the default scene.json")
	pf.String("scene", "", "Scene file (.json|.yaml) or directory")
	pf.String("mode", "", "Display mode (view_layer|scenes)")
	pf.String("sort", "", "Object sorting (free|alpha)")
	pf.Float64("width", 0, "Outliner width in pointer units")
	pf.Float64("row-height", 0, "Row height in pointer units")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.Bool("journal", true, "Record applied drops in the journal")
	pf.String("journal-backend", "", "Journal backend (auto|sqlite|jsonl)")
	pf.Bool("backup", false, "Back up the scene file before saving a drop")
	pf.Bool("autocommit", false, "Commit the scene file to git after each saved drop")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.Format, "format", "", "Output format (json|edn|yaml)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newDragCmd(app))
	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newGitCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	opts := tui.Options{
		DB:      db,
		Store:   s,
		View:    app.cfg.OutlineView(),
		Journal: journalFor(app, s),
		Backup:  app.cfg.Backup.Enabled,
		Keep:    app.cfg.Backup.Keep,
		Logger:  app.logger,
	}
	if app.cfg.Git.AutoCommit {
		opts.Commit = gitrepo.NewDebouncedCommitter(s.VersionedFiles(app.cfg.JournalBackend()), 0, app.logger)
	}
	return tui.Run(opts)
}

func sceneStore(app *App) store.Store {
	return store.Store{Path: app.cfg.Scene}
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	s := sceneStore(app)
	db, err := s.Load()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, s, fmt.Errorf("no scene at %s (run `outliner init` or pass --scene)", app.cfg.Scene)
		}
		return nil, s, err
	}
	return db, s, nil
}

// journalFor returns nil when journaling is off.
func journalFor(app *App, s store.Store) store.EventLog {
	if !app.cfg.Journal.Enabled {
		return nil
	}
	return s.Journal(app.cfg.JournalBackend())
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
