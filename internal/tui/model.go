package tui

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"outliner-cli/internal/drop"
	"outliner-cli/internal/notify"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

const (
	headerLines = 1
	footerLines = 2
)

// band is where within a row the keyboard pointer sits.
type band uint8

const (
	bandInto band = iota
	bandBefore
	bandAfter
)

func (b band) String() string {
	switch b {
	case bandBefore:
		return "before"
	case bandAfter:
		return "after"
	default:
		return "into"
	}
}

// offset is the pointer's position within a one-line row.
func (b band) offset() float64 {
	switch b {
	case bandBefore:
		return 0.1
	case bandAfter:
		return 0.9
	default:
		return 0.5
	}
}

type cell struct{ x, y int }

// sceneChangedMsg is sent by the file watcher.
type sceneChangedMsg struct{}

type model struct {
	opts  Options
	log   *slog.Logger
	store store.Store
	db    *store.DB

	// base is the configured view; the terminal geometry is applied by rebuild.
	base outline.View
	tree *outline.Tree
	mgr  *drop.Manager
	rec  *notify.Recorder
	// pending holds journal entries of the current drop until the scene is saved.
	pending *pendingEvents

	width  int
	height int
	cursor int
	offset int

	// Gesture state: press is where the left button went down, band and mods drive
	// keyboard drags.
	press      *outline.Point
	mouse      *cell
	band       band
	mods       drop.Mods
	lastKind   string
	lastOut    drop.Outcome
	lastResult *drop.Result

	reloadPending bool
	status        string
	statusWarn    bool

	keys     keyMap
	help     help.Model
	showHelp bool
	st       styles
}

func newModel(opts Options) model {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := model{
		opts:    opts,
		log:     log,
		store:   opts.Store,
		db:      opts.DB,
		base:    opts.View,
		rec:     &notify.Recorder{},
		pending: &pendingEvents{},
		width:   80,
		height:  24,
		keys:    defaultKeyMap(),
		help:    help.New(),
		st:      newStyles(),
	}
	if m.base.Closed == nil {
		m.base.Closed = map[string]bool{}
	}
	if m.base.Selected == nil {
		m.base.Selected = map[string]bool{}
	}
	cursorKey := ""
	if vs, err := m.store.LoadViewState(); err == nil && vs != nil {
		if vs.Mode != "" {
			m.base.Mode = outline.ViewMode(vs.Mode)
		}
		if vs.Sort != "" {
			m.base.Sort = outline.SortMode(vs.Sort)
		}
		for _, k := range vs.Closed {
			m.base.Closed[k] = true
		}
		for _, k := range vs.Selected {
			m.base.Selected[k] = true
		}
		cursorKey = vs.Cursor
	}

	env := &drop.Env{
		DB:     m.db,
		Sink:   notify.Multi{m.rec, notify.LogSink{Logger: log}},
		Logger: log,
	}
	m.mgr = drop.NewManager(env, nil)
	m.mgr.Recorder = m.pending
	m.rebuild()
	m.moveCursorToKey(cursorKey)
	return m
}

func (m model) Init() tea.Cmd { return nil }

// termView maps the configured view onto the terminal: one line per row, two cells per
// icon column, so pointer coordinates are cell coordinates.
func (m *model) termView() outline.View {
	v := m.base
	v.RowHeight = 1
	v.UnitX = 2
	v.Indent = 2
	v.Width = float64(max(m.width, 10))
	return v
}

func (m *model) rebuild() {
	m.tree = outline.Build(m.db, m.termView())
	m.mgr.Env.DB = m.db
	m.mgr.Env.Tree = m.tree
	m.clampCursor()
}

func (m *model) visible() []outline.NodeID { return m.tree.Visible() }

func (m *model) cursorNode() (outline.NodeID, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return outline.NoNode, false
	}
	return vis[m.cursor], true
}

func (m *model) cursorKey() string {
	if id, ok := m.cursorNode(); ok {
		return m.tree.Elem(id).Key()
	}
	return ""
}

func (m *model) moveCursorToKey(key string) {
	if key == "" {
		return
	}
	for i, id := range m.visible() {
		if m.tree.Elem(id).Key() == key {
			m.cursor = i
			m.ensureCursorVisible()
			return
		}
	}
}

func (m *model) bodyHeight() int {
	return max(m.height-headerLines-footerLines, 1)
}

func (m *model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *model) ensureCursorVisible() {
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// pointAt maps a terminal cell to tree coordinates. Cells above or below the rows map
// outside the tree, which the hit-tester treats as before the first / after the last root.
func (m *model) pointAt(x, y int, b band) outline.Point {
	line := y - headerLines + m.offset
	return outline.Point{X: float64(x) + 0.5, Y: float64(line) + b.offset()}
}

// rowPoint is a pointer over the name column of visible row i.
func (m *model) rowPoint(i int, b band) outline.Point {
	vis := m.visible()
	if i < 0 || i >= len(vis) {
		return outline.Point{X: 0.5, Y: float64(i) + b.offset()}
	}
	n := m.tree.Node(vis[i])
	return outline.Point{X: n.Rect.XStart + m.tree.View().UnitX + 1.5, Y: n.Rect.Top + b.offset()}
}

func (m *model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusWarn = false
}

func (m *model) setWarn(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusWarn = true
}

func (m *model) syncSelection() {
	m.base.Selected = m.tree.SelectionKeys()
}

func (m *model) viewState() *store.ViewState {
	return &store.ViewState{
		Version:  1,
		Mode:     string(m.base.Mode),
		Sort:     string(m.base.Sort),
		Closed:   slices.Sorted(maps.Keys(trueKeys(m.base.Closed))),
		Selected: slices.Sorted(maps.Keys(trueKeys(m.base.Selected))),
		Cursor:   m.cursorKey(),
	}
}

func trueKeys(in map[string]bool) map[string]bool {
	out := map[string]bool{}
	for k, v := range in {
		if v {
			out[k] = true
		}
	}
	return out
}

func (m *model) saveViewState() {
	if err := m.store.SaveViewState(m.viewState()); err != nil {
		m.log.Warn("save view state failed", "err", err)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.mgr.Dragging() {
			m.mgr.Cancel()
			m.setWarn("drag cancelled (window resized)")
		}
		m.rebuild()
		return m, nil

	case sceneChangedMsg:
		if m.mgr.Dragging() {
			m.reloadPending = true
			return m, nil
		}
		m.reload()
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) reload() {
	m.reloadPending = false
	db, err := m.store.Load()
	if err != nil {
		m.setWarn("reload failed: %v", err)
		return
	}
	key := m.cursorKey()
	m.db = db
	m.rebuild()
	m.moveCursorToKey(key)
	m.log.Debug("scene reloaded")
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mgr.Dragging() {
		m.handleDragKey(msg)
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveViewState()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
	case key.Matches(msg, m.keys.Select):
		if k := m.cursorKey(); k != "" {
			m.base.Selected = map[string]bool{k: true}
			m.rebuild()
		}
	case key.Matches(msg, m.keys.AddSelect):
		if k := m.cursorKey(); k != "" {
			if m.base.Selected[k] {
				delete(m.base.Selected, k)
			} else {
				m.base.Selected[k] = true
			}
			m.rebuild()
		}
	case key.Matches(msg, m.keys.Toggle):
		m.toggleOpen()
	case key.Matches(msg, m.keys.Mode):
		key := m.cursorKey()
		if m.base.Mode == outline.ScenesMode {
			m.base.Mode = outline.ViewLayerMode
		} else {
			m.base.Mode = outline.ScenesMode
		}
		m.rebuild()
		m.moveCursorToKey(key)
		m.setStatus("view mode: %s", m.base.Mode)
	case key.Matches(msg, m.keys.Sort):
		key := m.cursorKey()
		if m.base.Sort == outline.SortAlpha {
			m.base.Sort = outline.SortFree
		} else {
			m.base.Sort = outline.SortAlpha
		}
		m.rebuild()
		m.moveCursorToKey(key)
		m.setStatus("sort: %s", m.base.Sort)
	case key.Matches(msg, m.keys.Drag):
		m.band, m.mods = bandInto, drop.Mods{}
		if !m.mgr.Begin(m.rowPoint(m.cursor, bandInto)) {
			m.setWarn("nothing to drag here")
			return m, nil
		}
		m.mouse = nil
		m.syncSelection()
		m.movePointer()
	}
	return m, nil
}

func (m *model) toggleOpen() {
	id, ok := m.cursorNode()
	if !ok || len(m.tree.Node(id).Children) == 0 {
		return
	}
	k := m.tree.Elem(id).Key()
	if m.base.Closed[k] {
		delete(m.base.Closed, k)
	} else {
		m.base.Closed[k] = true
	}
	m.rebuild()
	m.moveCursorToKey(k)
}

func (m *model) handleDragKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.mgr.Cancel()
		m.setStatus("drag cancelled")
		m.afterGesture()
		return
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
		m.mouse = nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		m.mouse = nil
	case key.Matches(msg, m.keys.Before):
		m.band = bandBefore
	case key.Matches(msg, m.keys.After):
		m.band = bandAfter
	case key.Matches(msg, m.keys.Into):
		m.band = bandInto
	case key.Matches(msg, m.keys.Shift):
		m.mods.Shift = !m.mods.Shift
	case key.Matches(msg, m.keys.Ctrl):
		m.mods.Ctrl = !m.mods.Ctrl
	case key.Matches(msg, m.keys.Alt):
		m.mods.Alt = !m.mods.Alt
	case key.Matches(msg, m.keys.Drop):
		m.release(drop.Event{Pos: m.pointer(), Mods: m.mods})
		return
	default:
		return
	}
	m.movePointer()
}

func (m *model) movePointer() {
	m.lastOut, m.lastKind, _ = m.mgr.Move(drop.Event{Pos: m.pointer(), Mods: m.mods})
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	ev := tea.MouseEvent(msg)
	mods := drop.Mods{Shift: ev.Shift, Ctrl: ev.Ctrl, Alt: ev.Alt}
	switch ev.Action {
	case tea.MouseActionPress:
		switch ev.Button {
		case tea.MouseButtonWheelUp:
			m.scroll(-1)
			return
		case tea.MouseButtonWheelDown:
			m.scroll(1)
			return
		case tea.MouseButtonLeft:
		default:
			return
		}
		if m.mgr.Dragging() {
			return
		}
		p := m.pointAt(ev.X, ev.Y, bandInto)
		id, ok := m.tree.FindNodeAt(p.Y)
		if !ok {
			return
		}
		m.cursor = slices.Index(m.visible(), id)
		if m.tree.InCloseToggle(id, p.X) {
			m.toggleOpen()
			return
		}
		m.press = &p

	case tea.MouseActionMotion:
		if ev.Button != tea.MouseButtonLeft {
			return
		}
		if !m.mgr.Dragging() {
			if m.press == nil {
				return
			}
			start := *m.press
			m.press = nil
			if !m.mgr.Begin(start) {
				return
			}
			m.syncSelection()
		}
		m.mouse = &cell{x: ev.X, y: ev.Y}
		m.mods = mods
		m.movePointer()

	case tea.MouseActionRelease:
		if m.mgr.Dragging() {
			m.mouse = &cell{x: ev.X, y: ev.Y}
			m.mods = mods
			m.release(drop.Event{Pos: m.pointer(), Mods: m.mods})
			return
		}
		if m.press != nil {
			// A click without motion selects the row.
			m.press = nil
			if k := m.cursorKey(); k != "" {
				if mods.Ctrl || mods.Shift {
					m.base.Selected[k] = !m.base.Selected[k]
				} else {
					m.base.Selected = map[string]bool{k: true}
				}
				m.rebuild()
			}
		}
	}
}

// pointer is the drag pointer: the last mouse cell during mouse drags, the cursor row
// otherwise. Mouse cells carry no sub-row position, so the band decides where in the row
// the pointer sits in both cases.
func (m *model) pointer() outline.Point {
	if m.mouse != nil {
		return m.pointAt(m.mouse.x, m.mouse.y, m.band)
	}
	return m.rowPoint(m.cursor, m.band)
}

func (m *model) scroll(delta int) {
	maxOffset := max(len(m.visible())-m.bodyHeight(), 0)
	m.offset = min(max(m.offset+delta, 0), maxOffset)
}

// afterGesture applies a reload deferred by the drag.
func (m *model) afterGesture() {
	m.band, m.mods = bandInto, drop.Mods{}
	m.mouse, m.press = nil, nil
	m.lastKind, m.lastOut = "", drop.Outcome{}
	if m.reloadPending {
		m.reload()
	}
}
