// Package outline is the view model of the scene outliner: an arena of rows built from the
// scene graph, laid out top-down, plus hit-testing and ancestor lookups over it.
package outline

import (
	"fmt"
	"strings"
)

type NodeID int

const NoNode NodeID = -1

type ElemKind uint8

const (
	ElemNone ElemKind = iota
	ElemScene
	ElemCollection
	ElemObject
	ElemMaterial
	ElemModifierBase
	ElemModifier
	ElemConstraintBase
	ElemConstraint
	ElemEffectBase
	ElemEffect
	ElemPoseBase
	ElemPoseChannel
)

var elemKindNames = map[ElemKind]string{
	ElemNone:           "none",
	ElemScene:          "scene",
	ElemCollection:     "collection",
	ElemObject:         "object",
	ElemMaterial:       "material",
	ElemModifierBase:   "modifier_base",
	ElemModifier:       "modifier",
	ElemConstraintBase: "constraint_base",
	ElemConstraint:     "constraint",
	ElemEffectBase:     "effect_base",
	ElemEffect:         "effect",
	ElemPoseBase:       "pose_base",
	ElemPoseChannel:    "pose_channel",
}

func (k ElemKind) String() string {
	if s, ok := elemKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("elem(%d)", uint8(k))
}

func (k ElemKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ElemKind) UnmarshalText(b []byte) error {
	for kind, name := range elemKindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown element kind %q", b)
}

// IsStackBase reports category header rows (Modifiers, Constraints, Effects).
func (k ElemKind) IsStackBase() bool {
	return k == ElemModifierBase || k == ElemConstraintBase || k == ElemEffectBase
}

// IsStackItem reports single modifier/constraint/effect rows.
func (k ElemKind) IsStackItem() bool {
	return k == ElemModifier || k == ElemConstraint || k == ElemEffect
}

// Elem references the entity a row stands for.
//
// ID is the entity itself (scene, collection, object, material, stack item). Owner is the
// object a sub-row belongs to, Bone the pose channel for bone rows and bone constraints.
type Elem struct {
	Kind  ElemKind `json:"kind"`
	ID    string   `json:"id,omitempty"`
	Owner string   `json:"owner,omitempty"`
	Bone  string   `json:"bone,omitempty"`
}

// Key is stable across rebuilds; it keys open/closed and selection state.
func (e Elem) Key() string {
	return strings.Join([]string{e.Kind.String(), e.Owner, e.Bone, e.ID}, ":")
}

// IDKind is the kind of the data-block the row belongs to: object sub-rows (stacks, pose,
// materials shown under an object) report their owning object, except material rows which
// report the material.
func (e Elem) IDKind() ElemKind {
	switch e.Kind {
	case ElemModifierBase, ElemModifier, ElemConstraintBase, ElemConstraint,
		ElemEffectBase, ElemEffect, ElemPoseBase, ElemPoseChannel:
		return ElemObject
	default:
		return e.Kind
	}
}

// IDRef is the data-block ID matching IDKind.
func (e Elem) IDRef() string {
	if e.IDKind() == ElemObject && e.Kind != ElemObject {
		return e.Owner
	}
	return e.ID
}

func (e Elem) String() string {
	switch {
	case e.Bone != "":
		return fmt.Sprintf("%s(%s/%s %s)", e.Kind, e.Owner, e.Bone, e.ID)
	case e.Owner != "":
		return fmt.Sprintf("%s(%s %s)", e.Kind, e.Owner, e.ID)
	default:
		return fmt.Sprintf("%s(%s)", e.Kind, e.ID)
	}
}

type Rect struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	XStart float64 `json:"xStart"`
	XEnd   float64 `json:"xEnd"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Node struct {
	ID       NodeID   `json:"id"`
	Parent   NodeID   `json:"parent"`
	Children []NodeID `json:"children,omitempty"`
	Elem     Elem     `json:"elem"`
	Label    string   `json:"label"`
	Rect     Rect     `json:"rect"`
	Depth    int      `json:"depth"`
	// Index is the ordinal among siblings.
	Index   int  `json:"index"`
	Open    bool `json:"open"`
	Visible bool `json:"visible"`
}

// IsOpenWithChildren reports an expanded row that shows at least one child.
func (n *Node) IsOpenWithChildren() bool {
	return n.Open && len(n.Children) > 0
}

// InNameColumn reports whether x is over the row's name (right of the first icon).
func (n *Node) InNameColumn(x float64, unitX float64) bool {
	return x > n.Rect.XStart+unitX && x < n.Rect.XEnd
}

// InCloseToggle reports whether x is over the disclosure triangle.
func (n *Node) InCloseToggle(x float64, unitX float64) bool {
	return x > n.Rect.XStart && x < n.Rect.XStart+unitX
}

// Tree is rebuilt from the scene graph on every refresh and is read-only during a drag,
// apart from the selection set.
type Tree struct {
	nodes    []Node
	roots    []NodeID
	visible  []NodeID
	byKey    map[string]NodeID
	selected map[NodeID]bool
	// masters maps scene IDs to their master collection.
	masters map[string]string
	view    View
}

func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) View() View { return t.view }

func (t *Tree) Roots() []NodeID { return t.roots }

// Visible returns the laid-out rows, top to bottom.
func (t *Tree) Visible() []NodeID { return t.visible }

// Node returns nil for NoNode or out-of-range IDs.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil || id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

func (t *Tree) Elem(id NodeID) Elem {
	if n := t.Node(id); n != nil {
		return n.Elem
	}
	return Elem{}
}

// Find returns the row for elem (the first one, when an entity is shown more than once).
func (t *Tree) Find(e Elem) (NodeID, bool) {
	id, ok := t.byKey[e.Key()]
	return id, ok
}

// FindID returns the first row of the given kind showing entity id, in tree order.
func (t *Tree) FindID(kind ElemKind, id string) (NodeID, bool) {
	for i := range t.nodes {
		if t.nodes[i].Elem.Kind == kind && t.nodes[i].Elem.ID == id {
			return NodeID(i), true
		}
	}
	return NoNode, false
}

// Siblings returns the list the node belongs to (roots for top-level rows).
func (t *Tree) Siblings(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	if p := t.Node(n.Parent); p != nil {
		return p.Children
	}
	return t.roots
}

func (t *Tree) PrevSibling(id NodeID) NodeID {
	n := t.Node(id)
	if n == nil || n.Index == 0 {
		return NoNode
	}
	return t.Siblings(id)[n.Index-1]
}

func (t *Tree) NextSibling(id NodeID) NodeID {
	n := t.Node(id)
	if n == nil {
		return NoNode
	}
	sibs := t.Siblings(id)
	if n.Index+1 >= len(sibs) {
		return NoNode
	}
	return sibs[n.Index+1]
}

func (t *Tree) FirstChild(id NodeID) NodeID {
	n := t.Node(id)
	if n == nil || len(n.Children) == 0 {
		return NoNode
	}
	return n.Children[0]
}

func (t *Tree) IsSelected(id NodeID) bool { return t.selected[id] }

// SelectOnly replaces the selection with a single row.
func (t *Tree) SelectOnly(id NodeID) {
	t.selected = map[NodeID]bool{}
	if t.Node(id) != nil {
		t.selected[id] = true
	}
}

// Selected returns the selected rows in tree order (depth first, hidden rows included).
func (t *Tree) Selected() []NodeID {
	var out []NodeID
	t.Walk(func(id NodeID) bool {
		if t.selected[id] {
			out = append(out, id)
		}
		return true
	})
	return out
}

// SelectionKeys exports the selection so it survives the next rebuild.
func (t *Tree) SelectionKeys() map[string]bool {
	out := map[string]bool{}
	for id := range t.selected {
		out[t.nodes[id].Elem.Key()] = true
	}
	return out
}

// Walk visits every node depth first, including closed subtrees. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(fn func(id NodeID) bool) {
	var walk func(ids []NodeID)
	walk = func(ids []NodeID) {
		for _, id := range ids {
			if fn(id) {
				walk(t.nodes[id].Children)
			}
		}
	}
	walk(t.roots)
}
