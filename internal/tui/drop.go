package tui

import (
	"context"
	"strings"
	"time"

	"outliner-cli/internal/drop"
	scene "outliner-cli/internal/model"
	"outliner-cli/internal/notify"
)

type pendingEvents struct {
	events []scene.Event
}

func (p *pendingEvents) Append(_ context.Context, ev scene.Event) (scene.Event, error) {
	p.events = append(p.events, ev)
	return ev, nil
}

func (p *pendingEvents) take() []scene.Event {
	out := p.events
	p.events = nil
	return out
}

// release ends the gesture and persists a drop that changed the scene: backup, save,
// then journal, so the journal only holds drops that reached disk.
func (m *model) release(ev drop.Event) {
	defer m.afterGesture()

	*m.rec = notify.Recorder{}
	res := m.mgr.Release(context.Background(), ev)
	m.lastResult = &res
	events := m.pending.take()

	if res.Status != drop.StatusFinished {
		msg := "drop cancelled"
		if len(res.Reports) > 0 {
			msg += ": " + res.Reports[0].Message
		}
		m.setWarn("%s", msg)
		return
	}

	if res.Changed {
		if m.opts.Backup {
			if _, err := m.store.Backup(time.Now()); err != nil {
				m.setWarn("backup failed: %v", err)
				return
			}
			if _, err := m.store.PruneBackups(m.opts.Keep); err != nil {
				m.log.Warn("prune backups failed", "err", err)
			}
		}
		if err := m.store.Save(m.db); err != nil {
			m.setWarn("save failed: %v", err)
			return
		}
		if m.opts.Journal != nil {
			for _, e := range events {
				if _, err := m.opts.Journal.Append(context.Background(), e); err != nil {
					m.log.Warn("drop journal append failed", "err", err)
				}
			}
		}
		m.opts.Commit.Notify(events)
	}

	key := m.cursorKey()
	for _, k := range res.Expand {
		delete(m.base.Closed, k)
	}
	m.syncSelection()
	m.rebuild()
	m.moveCursorToKey(key)
	m.saveViewState()

	kind := strings.TrimPrefix(res.Kind, "outliner.")
	switch {
	case len(res.Reports) > 0:
		m.setWarn("%s: %d applied; %s", kind, res.Applied(), res.Reports[0].Message)
	case !res.Changed:
		m.setStatus("%s: nothing changed", kind)
	default:
		m.setStatus("%s: %d applied", kind, res.Applied())
	}
}
