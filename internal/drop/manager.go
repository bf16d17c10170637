package drop

import (
	"context"
	"time"

	"outliner-cli/internal/drag"
	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
)

// Recorder receives every finished drop (the sqlite journal in the CLI).
type Recorder interface {
	Append(ctx context.Context, ev model.Event) (model.Event, error)
}

// Manager drives one gesture at a time: Begin picks up, Move validates, Release drops.
// It is not safe for concurrent use.
type Manager struct {
	Env      *Env
	Registry *Registry
	Recorder Recorder

	session *drag.Session
	active  Dropper
	outcome Outcome
	overlay outline.Overlay
	prev    outline.Overlay
}

func NewManager(env *Env, reg *Registry) *Manager {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Manager{Env: env, Registry: reg, overlay: outline.NewOverlay(), prev: outline.NewOverlay()}
}

// Begin starts a drag at p. It returns false when nothing draggable is there.
func (m *Manager) Begin(p outline.Point) bool {
	m.reset()
	s := drag.Start(m.Env.Tree, m.Env.DB, p)
	if s == nil {
		return false
	}
	m.session = s
	m.Env.logger().Debug("drag started", "session", s.ID, "elem", s.Elem.String(), "ids", len(s.IDs))
	return true
}

func (m *Manager) Session() *drag.Session { return m.session }

func (m *Manager) Dragging() bool { return m.session != nil }

// Overlay is the highlight state of the last Move.
func (m *Manager) Overlay() outline.Overlay { return m.overlay }

// Move revalidates at the new pointer position. kind is "" when no drop applies; redraw
// reports whether the highlight changed since the previous Move.
func (m *Manager) Move(ev Event) (out Outcome, kind string, redraw bool) {
	if m.session == nil {
		return reject(), "", false
	}
	m.prev = m.overlay.Clone()
	d, out, ok := m.Registry.Resolve(m.Env, m.session, ev, m.overlay)
	m.active, m.outcome = nil, out
	if ok {
		m.active = d
		kind = d.Name()
	}
	return out, kind, !m.overlay.Equal(m.prev)
}

// Release ends the gesture at ev and applies the drop, if one validates there.
func (m *Manager) Release(ctx context.Context, ev Event) Result {
	s := m.session
	defer m.reset()
	if s == nil {
		return cancelled("", "no drag in progress")
	}
	m.Move(ev)
	if m.active == nil {
		return cancelled("", "")
	}
	res := m.active.Apply(m.Env, s, ev)
	m.Env.logger().Info("drop applied",
		"kind", res.Kind,
		"status", res.Status,
		"changed", res.Changed,
		"applied", res.Applied(),
		"items", len(res.Items),
	)
	m.record(ctx, s, ev, res)
	return res
}

// Cancel drops the session without applying anything, e.g. when the pointer leaves the
// region or the payload disappears.
func (m *Manager) Cancel() {
	if m.session != nil {
		m.Env.logger().Debug("drag cancelled", "session", m.session.ID)
	}
	m.reset()
}

func (m *Manager) reset() {
	m.session = nil
	m.active = nil
	m.outcome = Outcome{}
	m.overlay.Clear()
	m.prev.Clear()
}

func (m *Manager) record(ctx context.Context, s *drag.Session, ev Event, res Result) {
	if m.Recorder == nil || res.Status != StatusFinished {
		return
	}
	var ids []string
	for _, id := range s.IDs {
		ids = append(ids, id.Elem.IDRef())
	}
	if t := s.TargetElem.IDRef(); t != "" {
		ids = append(ids, t)
	}
	rec := model.Event{
		SessionID: s.ID,
		TS:        time.Now().UTC(),
		Kind:      res.Kind,
		Status:    string(res.Status),
		EntityIDs: ids,
		Payload: map[string]any{
			"elem":    s.Elem,
			"target":  s.TargetElem,
			"insert":  s.Insert.String(),
			"action":  s.Action.String(),
			"mods":    ev.Mods,
			"changed": res.Changed,
			"items":   res.Items,
			"reports": res.Reports,
		},
	}
	if _, err := m.Recorder.Append(ctx, rec); err != nil {
		m.Env.logger().Warn("drop journal append failed", "err", err)
	}
}
