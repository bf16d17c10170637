package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"outliner-cli/internal/drop"
	"outliner-cli/internal/gitrepo"
	"outliner-cli/internal/model"
	"outliner-cli/internal/notify"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

// pendingEvents holds journal entries until the scene is saved, so the journal never
// records a drop that did not reach disk.
type pendingEvents struct {
	events []model.Event
}

func (p *pendingEvents) Append(_ context.Context, ev model.Event) (model.Event, error) {
	p.events = append(p.events, ev)
	return ev, nil
}

type dragOptions struct {
	from    string
	to      string
	via     []string
	selects []string
	mods    drop.Mods
	dryRun  bool
	force   bool
}

func newDragCmd(app *App) *cobra.Command {
	var opts dragOptions

	cmd := &cobra.Command{
		Use:   "drag",
		Short: "Drag a row and drop it somewhere else in the outliner",
		Long: `Simulates one mouse gesture: pick up the row at --from, move through any --via
points and release at --to. Pointers are "x,y" or a row reference (key or entity id)
with an optional @before|@after|@into band. See: outliner docs drag`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrag(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "Pointer where the drag starts (required)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Pointer where the drag is released (required)")
	cmd.Flags().StringSliceVar(&opts.via, "via", nil, "Pointer positions visited before release")
	cmd.Flags().StringSliceVar(&opts.selects, "select", nil, "Rows to select before the drag (multi-drag)")
	cmd.Flags().BoolVar(&opts.mods.Shift, "shift", false, "Hold Shift")
	cmd.Flags().BoolVar(&opts.mods.Ctrl, "ctrl", false, "Hold Ctrl")
	cmd.Flags().BoolVar(&opts.mods.Alt, "alt", false, "Hold Alt")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report which drop applies at --to without changing anything")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Drop even when doctor reports errors")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runDrag(cmd *cobra.Command, app *App, opts dragOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, s, err := loadDB(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	if !opts.force && !opts.dryRun {
		if rep := store.Doctor(db); rep.HasErrors() {
			return writeErr(cmd, fmt.Errorf("%w: run `outliner doctor` (or pass --force)", store.ErrDoctorIssuesFound))
		}
	}
	st, err := s.LoadViewState()
	if err != nil {
		return writeErr(cmd, err)
	}
	view := viewFor(app, st)
	tr := outline.Build(db, view)

	if len(opts.selects) > 0 {
		sel := map[string]bool{}
		for _, ref := range opts.selects {
			id, err := findRow(tr, ref)
			if err != nil {
				return writeErr(cmd, err)
			}
			sel[tr.Elem(id).Key()] = true
		}
		view.Selected = sel
		tr = outline.Build(db, view)
	}

	rec := &notify.Recorder{}
	env := &drop.Env{
		DB:     db,
		Tree:   tr,
		Sink:   notify.Multi{rec, notify.LogSink{Logger: app.logger}},
		Logger: app.logger,
	}
	pending := &pendingEvents{}
	m := drop.NewManager(env, nil)
	m.Recorder = pending

	from, err := resolvePointer(tr, opts.from)
	if err != nil {
		return writeErr(cmd, err)
	}
	if !m.Begin(from) {
		return writeErr(cmd, errNoDrop)
	}
	for _, v := range opts.via {
		p, err := resolvePointer(tr, v)
		if err != nil {
			m.Cancel()
			return writeErr(cmd, err)
		}
		m.Move(drop.Event{Pos: p, Mods: opts.mods})
	}
	to, err := resolvePointer(tr, opts.to)
	if err != nil {
		m.Cancel()
		return writeErr(cmd, err)
	}
	ev := drop.Event{Pos: to, Mods: opts.mods}

	if opts.dryRun {
		out, kind, _ := m.Move(ev)
		sess := m.Session()
		highlight := overlayKeys(tr, m.Overlay())
		m.Cancel()
		return writeOut(cmd, app, map[string]any{
			"data": map[string]any{
				"kind":      kind,
				"outcome":   out,
				"session":   sess,
				"highlight": highlight,
			},
			"meta": map[string]any{"from": from, "to": to},
		})
	}

	res := m.Release(ctx, ev)
	meta := map[string]any{
		"from":          from,
		"to":            to,
		"notes":         rec.Notes,
		"relationsTags": rec.RelationsTags,
		"idTags":        rec.IDTags,
		"saved":         false,
	}
	if res.Status != drop.StatusFinished {
		if err := writeOut(cmd, app, map[string]any{"data": res, "meta": meta}); err != nil {
			return err
		}
		reason := ""
		if len(res.Reports) > 0 {
			reason = res.Reports[0].Message
		}
		return dropCancelledError{reason: reason}
	}

	if res.Changed {
		if app.cfg.Backup.Enabled {
			p, err := s.Backup(time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := s.PruneBackups(app.cfg.Backup.Keep); err != nil {
				app.logger.Warn("prune backups failed", "err", err)
			}
			meta["backup"] = p
		}
		if err := s.Save(db); err != nil {
			return writeErr(cmd, fmt.Errorf("save scene: %w", err))
		}
		meta["saved"] = true
	}

	if j := journalFor(app, s); j != nil && res.Changed {
		var ids []string
		for _, e := range pending.events {
			got, err := j.Append(ctx, e)
			if err != nil {
				app.logger.Warn("drop journal append failed", "err", err)
				continue
			}
			ids = append(ids, got.ID)
		}
		meta["events"] = ids
	}

	if res.Changed && app.cfg.Git.AutoCommit {
		files := s.VersionedFiles(app.cfg.JournalBackend())
		committed, err := gitrepo.CommitFiles(ctx, files, gitrepo.DropMessage(pending.events))
		if err != nil {
			app.logger.Warn("scene commit failed", "err", err)
		}
		meta["committed"] = committed
	}

	st.Selected = slices.Sorted(maps.Keys(tr.SelectionKeys()))
	if len(res.Expand) > 0 {
		st.Closed = slices.DeleteFunc(st.Closed, func(k string) bool { return slices.Contains(res.Expand, k) })
	}
	if err := s.SaveViewState(st); err != nil {
		app.logger.Warn("save view state failed", "err", err)
	}

	return writeOut(cmd, app, map[string]any{"data": res, "meta": meta})
}

// overlayKeys reports the highlight of each marked row by key.
func overlayKeys(tr *outline.Tree, o outline.Overlay) map[string][]string {
	out := map[string][]string{}
	for id, h := range o {
		var flags []string
		if h&outline.HighlightTarget != 0 {
			flags = append(flags, "target")
		}
		if h&outline.HighlightBefore != 0 {
			flags = append(flags, "before")
		}
		if h&outline.HighlightAfter != 0 {
			flags = append(flags, "after")
		}
		if h&outline.HighlightInto != 0 {
			flags = append(flags, "into")
		}
		out[tr.Elem(id).Key()] = flags
	}
	return out
}
