package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"outliner-cli/internal/outline"
)

func (m model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Outliner · %s · %s", m.base.Mode, m.base.Sort)
	if sc, ok := m.db.ActiveScene(); ok {
		title = fmt.Sprintf("%s · %s", sc.Name, title)
	}
	b.WriteString(m.st.title.Render(ansi.Truncate(title, m.width, "…")))
	b.WriteByte('\n')

	vis := m.visible()
	h := m.bodyHeight()
	hl := m.mgr.Overlay()
	for line := 0; line < h; line++ {
		i := m.offset + line
		if i < len(vis) {
			b.WriteString(m.renderRow(vis[i], i == m.cursor, hl[vis[i]]))
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.renderStatus())
	b.WriteByte('\n')
	if m.mgr.Dragging() {
		b.WriteString(m.help.View(dragKeyMap{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

// renderRow lays a row out on the same grid the hit-tester uses: Indent cells per level,
// then the disclosure toggle column, then the icon and name.
func (m model) renderRow(id outline.NodeID, isCursor bool, h outline.Highlight) string {
	n := m.tree.Node(id)
	toggle := "  "
	if len(n.Children) > 0 {
		toggle = "▸ "
		if n.Open {
			toggle = "▾ "
		}
	}
	line := strings.Repeat(" ", n.Depth*2) + toggle + kindIcon(n.Elem.Kind) + " " + n.Label

	var suffix string
	switch {
	case h&outline.HighlightBefore != 0:
		suffix = " ↑"
	case h&outline.HighlightAfter != 0:
		suffix = " ↓"
	}
	line = ansi.Truncate(line, max(m.width-ansi.StringWidth(suffix), 1), "…")

	st := m.st.row
	switch {
	case h&(outline.HighlightTarget|outline.HighlightInto) != 0:
		st = m.st.target
	case isCursor:
		st = m.st.cursor
	case m.linked(n.Elem):
		st = m.st.linked
	}
	if m.tree.IsSelected(id) {
		st = st.Bold(true)
	}
	out := st.Render(line)
	if suffix != "" {
		out += m.st.insert.Render(suffix)
	}
	return out
}

func (m model) linked(e outline.Elem) bool {
	switch e.Kind {
	case outline.ElemObject:
		ob, ok := m.db.FindObject(e.ID)
		return ok && ob.Linked
	case outline.ElemCollection:
		c, ok := m.db.FindCollection(e.ID)
		return ok && c.Linked
	case outline.ElemMaterial:
		ma, ok := m.db.FindMaterial(e.ID)
		return ok && ma.Linked
	}
	return false
}

func (m model) renderStatus() string {
	if s := m.mgr.Session(); s != nil {
		// The band and modifiers come before the tooltip so truncation only ever eats the
		// tooltip.
		parts := []string{fmt.Sprintf("drag %s (%d)", s.Elem.Kind, len(s.IDs))}
		if m.lastKind != "" {
			parts = append(parts, strings.TrimPrefix(m.lastKind, "outliner."))
		} else {
			parts = append(parts, "no drop here")
		}
		parts = append(parts, "["+m.band.String()+"]")
		if mods := m.modsLabel(); mods != "" {
			parts = append(parts, mods)
		}
		line := strings.Join(parts, " · ")
		if m.lastKind != "" && m.lastOut.Tooltip != "" {
			line += " · " + m.lastOut.Tooltip
		}
		return m.st.insert.Render(ansi.Truncate(line, m.width, "…"))
	}
	if m.status == "" {
		return ""
	}
	st := m.st.status
	if m.statusWarn {
		st = m.st.warn
	}
	return st.Render(ansi.Truncate(m.status, m.width, "…"))
}

func (m model) modsLabel() string {
	var mods []string
	if m.mods.Shift {
		mods = append(mods, "shift")
	}
	if m.mods.Ctrl {
		mods = append(mods, "ctrl")
	}
	if m.mods.Alt {
		mods = append(mods, "alt")
	}
	return strings.Join(mods, "+")
}
