// Package tui is the interactive outliner: the scene tree in the terminal, edited by
// dragging rows with the mouse or the keyboard.
package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"outliner-cli/internal/gitrepo"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

type Options struct {
	DB    *store.DB
	Store store.Store
	View  outline.View
	// Journal receives finished drops; nil disables journaling.
	Journal store.EventLog
	Backup  bool
	Keep    int
	Logger  *slog.Logger
	// Commit, when set, commits the scene to git a moment after drops settle.
	Commit *gitrepo.DebouncedCommitter
}

func Run(opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := watchScene(ctx, opts.Store.ScenePath(), opts.Logger, func() { p.Send(sceneChangedMsg{}) }); err != nil {
			opts.Logger.Warn("scene watcher disabled", "err", err)
		}
	}()

	_, err := p.Run()
	opts.Commit.Flush()
	return err
}
