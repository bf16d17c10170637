package outline

import (
	"maps"
	"slices"
)

// Highlight is the drop feedback drawn on a row.
type Highlight uint8

const (
	HighlightTarget Highlight = 1 << iota
	HighlightBefore
	HighlightAfter
	HighlightInto
)

// Overlay is the highlight state of one validation pass. It is rebuilt from scratch on every
// pointer move and never stored on the tree.
type Overlay map[NodeID]Highlight

func NewOverlay() Overlay { return Overlay{} }

func (o Overlay) Clear() { clear(o) }

// MarkTarget highlights a dropzone row.
func (o Overlay) MarkTarget(id NodeID) {
	if id != NoNode {
		o[id] |= HighlightTarget
	}
}

// MarkInsert flags the row with the insertion position.
func (o Overlay) MarkInsert(id NodeID, insert InsertType) {
	if id == NoNode {
		return
	}
	switch insert {
	case InsertBefore:
		o[id] |= HighlightBefore
	case InsertAfter:
		o[id] |= HighlightAfter
	case InsertInto:
		o[id] |= HighlightInto
	}
}

func (o Overlay) Clone() Overlay { return maps.Clone(o) }

func (o Overlay) Equal(other Overlay) bool { return maps.Equal(o, other) }

// Changed lists rows whose highlight differs from prev, in ascending order.
func (o Overlay) Changed(prev Overlay) []NodeID {
	var out []NodeID
	for id, h := range o {
		if prev[id] != h {
			out = append(out, id)
		}
	}
	for id := range prev {
		if _, ok := o[id]; !ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
