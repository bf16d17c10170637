package outline

import "fmt"

type InsertType uint8

const (
	InsertNone InsertType = iota
	InsertBefore
	InsertAfter
	InsertInto
)

func (i InsertType) String() string {
	switch i {
	case InsertBefore:
		return "before"
	case InsertAfter:
		return "after"
	case InsertInto:
		return "into"
	case InsertNone:
		return "none"
	default:
		return fmt.Sprintf("insert(%d)", uint8(i))
	}
}

func (i InsertType) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *InsertType) UnmarshalText(b []byte) error {
	for _, t := range []InsertType{InsertNone, InsertBefore, InsertAfter, InsertInto} {
		if t.String() == string(b) {
			*i = t
			return nil
		}
	}
	return fmt.Errorf("unknown insert type %q", b)
}

// FindNodeAt returns the visible row whose span [Top, Bottom) contains y.
func (t *Tree) FindNodeAt(y float64) (NodeID, bool) {
	if t == nil {
		return NoNode, false
	}
	for _, id := range t.visible {
		r := t.nodes[id].Rect
		if y >= r.Top && y < r.Bottom {
			return id, true
		}
		if r.Top > y {
			break
		}
	}
	return NoNode, false
}

// FindInsertionPoint maps a pointer position to a row and where to insert relative to it.
//
// The hovered row is split into three bands: the top quarter inserts Before it (Before its
// first child when the row is open), the bottom quarter inserts After it, and the middle
// inserts Into it. Above the first row resolves to Before the first root and below the last
// row to After the last root.
func (t *Tree) FindInsertionPoint(p Point) (NodeID, InsertType, bool) {
	if t == nil || len(t.visible) == 0 {
		return NoNode, InsertNone, false
	}
	if id, ok := t.FindNodeAt(p.Y); ok {
		n := &t.nodes[id]
		margin := t.view.RowHeight / 4
		switch {
		case p.Y < n.Rect.Top+margin:
			if n.IsOpenWithChildren() {
				return n.Children[0], InsertBefore, true
			}
			return id, InsertBefore, true
		case p.Y > n.Rect.Top+3*margin:
			return id, InsertAfter, true
		default:
			return id, InsertInto, true
		}
	}

	first := t.nodes[t.visible[0]]
	if p.Y < first.Rect.Top {
		return t.roots[0], InsertBefore, true
	}
	last := t.nodes[t.visible[len(t.visible)-1]]
	if p.Y >= last.Rect.Bottom {
		return t.roots[len(t.roots)-1], InsertAfter, true
	}
	return NoNode, InsertNone, false
}

// FindDropzone returns the row under p when p is over its name column. With children
// false only root rows are candidates; otherwise open subtrees are searched too.
func (t *Tree) FindDropzone(p Point, children bool) (NodeID, bool) {
	if t == nil {
		return NoNode, false
	}
	var find func(ids []NodeID) (NodeID, bool)
	find = func(ids []NodeID) (NodeID, bool) {
		for _, id := range ids {
			n := &t.nodes[id]
			if !n.Visible {
				continue
			}
			if p.Y >= n.Rect.Top && p.Y < n.Rect.Bottom && n.InNameColumn(p.X, t.view.UnitX) {
				return id, true
			}
			if children && n.IsOpenWithChildren() {
				if hit, ok := find(n.Children); ok {
					return hit, true
				}
			}
		}
		return NoNode, false
	}
	return find(t.roots)
}

// InNameColumn is Node.InNameColumn with the tree's icon width.
func (t *Tree) InNameColumn(id NodeID, x float64) bool {
	n := t.Node(id)
	return n != nil && n.InNameColumn(x, t.view.UnitX)
}

func (t *Tree) InCloseToggle(id NodeID, x float64) bool {
	n := t.Node(id)
	return n != nil && n.InCloseToggle(x, t.view.UnitX)
}
