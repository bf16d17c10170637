package cli

import (
	"fmt"
	"strconv"
	"strings"

	"outliner-cli/internal/outline"
)

// Pointer positions on the command line are either raw coordinates ("x,y") or a row
// reference with an optional band suffix: "ob-cube", "coll-a@before", "mod-bevel@after".
// A reference is a row key (kind:owner:bone:id) or an entity id; ids match the first
// visible row showing that entity. Without a suffix the pointer lands in the middle of
// the row's name column, which resolves to Into.

type band string

const (
	bandInto   band = "into"
	bandBefore band = "before"
	bandAfter  band = "after"
)

func parseXY(s string) (outline.Point, bool) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return outline.Point{}, false
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return outline.Point{}, false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return outline.Point{}, false
	}
	return outline.Point{X: x, Y: y}, true
}

// findRow resolves a row reference to a visible row.
func findRow(tr *outline.Tree, ref string) (outline.NodeID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return outline.NoNode, fmt.Errorf("empty row reference")
	}
	if strings.Contains(ref, ":") {
		for _, id := range tr.Visible() {
			if tr.Elem(id).Key() == ref {
				return id, nil
			}
		}
		return outline.NoNode, errNotFound("row", ref)
	}
	for _, id := range tr.Visible() {
		if tr.Elem(id).ID == ref {
			return id, nil
		}
	}
	return outline.NoNode, errNotFound("visible row", ref)
}

// rowPoint is a pointer over the row's name column, in the given band.
func rowPoint(tr *outline.Tree, id outline.NodeID, b band) outline.Point {
	n := tr.Node(id)
	v := tr.View()
	p := outline.Point{X: n.Rect.XStart + 2*v.UnitX + 1}
	switch b {
	case bandBefore:
		p.Y = n.Rect.Top + 1
	case bandAfter:
		p.Y = n.Rect.Bottom - 1
	default:
		p.Y = n.Rect.Top + v.RowHeight/2
	}
	if p.X >= n.Rect.XEnd {
		p.X = (n.Rect.XStart + n.Rect.XEnd) / 2
	}
	return p
}

// resolvePointer turns a command-line pointer into tree coordinates.
func resolvePointer(tr *outline.Tree, s string) (outline.Point, error) {
	if p, ok := parseXY(s); ok {
		return p, nil
	}
	ref, suffix, _ := strings.Cut(s, "@")
	b := bandInto
	switch band(strings.ToLower(strings.TrimSpace(suffix))) {
	case "", bandInto:
	case bandBefore:
		b = bandBefore
	case bandAfter:
		b = bandAfter
	default:
		return outline.Point{}, fmt.Errorf("invalid pointer band %q (want before|after|into)", suffix)
	}
	id, err := findRow(tr, ref)
	if err != nil {
		return outline.Point{}, err
	}
	return rowPoint(tr, id, b), nil
}
