package outline

import (
	"cmp"
	"slices"
	"strings"

	"outliner-cli/internal/model"
	"outliner-cli/internal/store"
)

type ViewMode string

const (
	ViewLayerMode ViewMode = "view_layer"
	ScenesMode    ViewMode = "scenes"
)

type SortMode string

const (
	SortFree  SortMode = "free"
	SortAlpha SortMode = "alpha"
)

// View holds the display options a tree is built with.
type View struct {
	Mode ViewMode `json:"mode"`
	Sort SortMode `json:"sort"`

	RowHeight float64 `json:"rowHeight"`
	// UnitX is the width of one icon column (disclosure triangle, type icon).
	UnitX  float64 `json:"unitX"`
	Indent float64 `json:"indent"`
	Width  float64 `json:"width"`

	// Closed and Selected are keyed by Elem.Key().
	Closed   map[string]bool `json:"closed,omitempty"`
	Selected map[string]bool `json:"selected,omitempty"`

	// ObjectChildren nests child objects under their parent when both share a collection.
	ObjectChildren bool `json:"objectChildren"`
}

func DefaultView() View {
	return View{
		Mode:           ViewLayerMode,
		Sort:           SortFree,
		RowHeight:      20,
		UnitX:          20,
		Indent:         20,
		Width:          300,
		ObjectChildren: true,
	}
}

// FreeOrdering reports whether rows may be reordered Before/After by drag.
func (v View) FreeOrdering() bool {
	return v.Sort == "" || v.Sort == SortFree
}

type builder struct {
	db   *store.DB
	view View
	t    *Tree
}

// Build turns the scene graph into a laid-out tree. The result only depends on db and v.
func Build(db *store.DB, v View) *Tree {
	def := DefaultView()
	if v.RowHeight <= 0 {
		v.RowHeight = def.RowHeight
	}
	if v.Width <= 0 {
		v.Width = def.Width
	}
	b := &builder{
		db:   db,
		view: v,
		t: &Tree{
			byKey:    map[string]NodeID{},
			selected: map[NodeID]bool{},
			masters:  map[string]string{},
			view:     v,
		},
	}
	switch v.Mode {
	case ScenesMode:
		for i := range db.Scenes {
			sc := &db.Scenes[i]
			id := b.add(NoNode, Elem{Kind: ElemScene, ID: sc.ID}, sc.Name)
			b.t.masters[sc.ID] = sc.MasterCollection.ID
			b.addCollection(id, &sc.MasterCollection)
		}
	default:
		if sc, ok := db.ActiveScene(); ok {
			b.t.masters[sc.ID] = sc.MasterCollection.ID
			b.addCollection(NoNode, &sc.MasterCollection)
		}
	}
	b.t.layout()
	return b.t
}

func (b *builder) add(parent NodeID, e Elem, label string) NodeID {
	t := b.t
	id := NodeID(len(t.nodes))
	n := Node{
		ID:     id,
		Parent: parent,
		Elem:   e,
		Label:  label,
		Open:   !b.view.Closed[e.Key()],
	}
	if p := t.Node(parent); p != nil {
		n.Depth = p.Depth + 1
		n.Index = len(p.Children)
		p.Children = append(p.Children, id)
	} else {
		n.Index = len(t.roots)
		t.roots = append(t.roots, id)
	}
	t.nodes = append(t.nodes, n)
	key := e.Key()
	if _, dup := t.byKey[key]; !dup {
		t.byKey[key] = id
	}
	if b.view.Selected[key] {
		t.selected[id] = true
	}
	return id
}

func (b *builder) addCollection(parent NodeID, c *model.Collection) {
	id := b.add(parent, Elem{Kind: ElemCollection, ID: c.ID}, c.Name)
	for _, chID := range c.Children {
		if ch, ok := b.db.FindCollection(chID); ok {
			b.addCollection(id, ch)
		}
	}
	var top []*model.Object
	for _, obID := range c.Objects {
		ob, ok := b.db.FindObject(obID)
		if !ok {
			continue
		}
		if b.view.ObjectChildren && ob.ParentID != nil && slices.Contains(c.Objects, *ob.ParentID) {
			continue
		}
		top = append(top, ob)
	}
	for _, ob := range b.sortObjects(top) {
		b.addObject(id, ob, c, 0)
	}
}

func (b *builder) sortObjects(obs []*model.Object) []*model.Object {
	if b.view.FreeOrdering() {
		return obs
	}
	out := slices.Clone(obs)
	slices.SortStableFunc(out, func(a, c *model.Object) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(c.Name))
	})
	return out
}

func (b *builder) addObject(parent NodeID, ob *model.Object, in *model.Collection, depth int) {
	id := b.add(parent, Elem{Kind: ElemObject, ID: ob.ID}, ob.Name)

	if len(ob.Pose) > 0 {
		pose := b.add(id, Elem{Kind: ElemPoseBase, Owner: ob.ID}, "Pose")
		for _, pchan := range ob.Pose {
			bone := b.add(pose, Elem{Kind: ElemPoseChannel, ID: pchan.Name, Owner: ob.ID, Bone: pchan.Name}, pchan.Name)
			b.addStack(bone, ob.ID, pchan.Name, ElemConstraintBase, ElemConstraint, pchan.Constraints, "Constraints")
		}
	}
	b.addStack(id, ob.ID, "", ElemModifierBase, ElemModifier, ob.Modifiers, "Modifiers")
	b.addStack(id, ob.ID, "", ElemEffectBase, ElemEffect, ob.Effects, "Effects")
	b.addStack(id, ob.ID, "", ElemConstraintBase, ElemConstraint, ob.Constraints, "Constraints")
	for _, maID := range ob.Materials {
		if ma, ok := b.db.FindMaterial(maID); ok {
			b.add(id, Elem{Kind: ElemMaterial, ID: ma.ID, Owner: ob.ID}, ma.Name)
		}
	}

	// Bounded by the object count so a corrupt parent chain cannot recurse forever.
	if !b.view.ObjectChildren || depth > len(b.db.Objects) {
		return
	}
	var kids []*model.Object
	for _, ch := range b.db.ObjectChildren(ob.ID) {
		if slices.Contains(in.Objects, ch.ID) {
			kids = append(kids, ch)
		}
	}
	for _, ch := range b.sortObjects(kids) {
		b.addObject(id, ch, in, depth+1)
	}
}

func (b *builder) addStack(parent NodeID, owner, bone string, baseKind, itemKind ElemKind, ids []string, label string) {
	if len(ids) == 0 {
		return
	}
	base := b.add(parent, Elem{Kind: baseKind, Owner: owner, Bone: bone}, label)
	for _, itemID := range ids {
		name := itemID
		if it, ok := b.db.FindStackItem(itemID); ok {
			name = it.Name
		}
		b.add(base, Elem{Kind: itemKind, ID: itemID, Owner: owner, Bone: bone}, name)
	}
}

// layout stacks visible rows top-down from y=0.
func (t *Tree) layout() {
	v := t.view
	t.visible = t.visible[:0]
	y := 0.0
	var place func(ids []NodeID)
	place = func(ids []NodeID) {
		for _, id := range ids {
			n := &t.nodes[id]
			n.Visible = true
			n.Rect = Rect{
				Top:    y,
				Bottom: y + v.RowHeight,
				XStart: float64(n.Depth) * v.Indent,
				XEnd:   v.Width,
			}
			y += v.RowHeight
			t.visible = append(t.visible, id)
			if n.Open {
				place(n.Children)
			}
		}
	}
	place(t.roots)
}
