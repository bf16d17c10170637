// Package drag holds the state of one drag gesture in the outliner, from pickup to drop.
package drag

import (
	"fmt"

	"github.com/google/uuid"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

// Action is what a stack drop does with the dragged item(s).
type Action uint8

const (
	ActionNone Action = iota
	ActionReorder
	ActionCopy
	ActionLink
)

func (a Action) String() string {
	switch a {
	case ActionReorder:
		return "reorder"
	case ActionCopy:
		return "copy"
	case ActionLink:
		return "link"
	case ActionNone:
		return "none"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// DragID is one dragged entity and the collection it was picked up from.
type DragID struct {
	Elem       outline.Elem `json:"elem"`
	FromParent string       `json:"fromParent,omitempty"`
}

// Session is created when a drag starts, updated by drop validation on every pointer move
// and consumed by the drop that ends the gesture.
type Session struct {
	ID string `json:"id"`

	// Elem is the row the pointer picked up.
	Elem outline.Elem `json:"elem"`
	IDs  []DragID     `json:"ids"`

	// Stack payloads: the owning object and, for bone constraints, the bone.
	OwnerObject string `json:"ownerObject,omitempty"`
	OwnerBone   string `json:"ownerBone,omitempty"`

	DragIndex int            `json:"dragIndex"`
	DragNode  outline.NodeID `json:"dragNode"`

	// Resolved by the last successful validation.
	Action     Action             `json:"action"`
	Target     outline.NodeID     `json:"target"`
	TargetElem outline.Elem       `json:"targetElem"`
	Insert     outline.InsertType `json:"insert"`
}

// Kind is the element kind of the picked-up row.
func (s *Session) Kind() outline.ElemKind {
	if s == nil {
		return outline.ElemNone
	}
	return s.Elem.Kind
}

// IsStack reports a modifier/constraint/effect payload, single item or category header.
func (s *Session) IsStack() bool {
	k := s.Kind()
	return k.IsStackItem() || k.IsStackBase()
}

// StackKind maps a stack payload to the list it lives in.
func (s *Session) StackKind() (model.StackKind, bool) {
	return StackKindOf(s.Kind())
}

func StackKindOf(k outline.ElemKind) (model.StackKind, bool) {
	switch k {
	case outline.ElemModifier, outline.ElemModifierBase:
		return model.StackModifier, true
	case outline.ElemConstraint, outline.ElemConstraintBase:
		return model.StackConstraint, true
	case outline.ElemEffect, outline.ElemEffectBase:
		return model.StackEffect, true
	default:
		return "", false
	}
}

// Objects returns the dragged object IDs, in pickup order.
func (s *Session) Objects() []DragID {
	return s.idsOfKind(outline.ElemObject)
}

func (s *Session) Collections() []DragID {
	return s.idsOfKind(outline.ElemCollection)
}

func (s *Session) idsOfKind(k outline.ElemKind) []DragID {
	if s == nil {
		return nil
	}
	var out []DragID
	for _, id := range s.IDs {
		if id.Elem.Kind == k {
			out = append(out, id)
		}
	}
	return out
}

// First returns the first dragged entity.
func (s *Session) First() (DragID, bool) {
	if s == nil || len(s.IDs) == 0 {
		return DragID{}, false
	}
	return s.IDs[0], true
}

// ResetTarget forgets the target of a previous validation pass.
func (s *Session) ResetTarget() {
	s.Action = ActionNone
	s.Target = outline.NoNode
	s.TargetElem = outline.Elem{}
	s.Insert = outline.InsertNone
}

func draggable(k outline.ElemKind) bool {
	switch k {
	case outline.ElemScene, outline.ElemCollection, outline.ElemObject, outline.ElemMaterial:
		return true
	default:
		return k.IsStackItem() || k.IsStackBase()
	}
}

// Start picks up the row under p. It returns nil when nothing draggable is there or the
// pointer is on the row's disclosure toggle.
//
// Picking up an object or collection drags the whole selection of that kind; the row is
// selected first if it was not. Collections whose ancestor collection is also selected are
// carried by that ancestor and are not added on their own.
func Start(tr *outline.Tree, db *store.DB, p outline.Point) *Session {
	id, ok := tr.FindNodeAt(p.Y)
	if !ok {
		return nil
	}
	n := tr.Node(id)
	if !draggable(n.Elem.Kind) || tr.InCloseToggle(id, p.X) {
		return nil
	}
	if n.Elem.Kind == outline.ElemCollection {
		if db.IsMasterCollection(n.Elem.ID) {
			return nil
		}
	}

	s := &Session{
		ID:        uuid.NewString(),
		Elem:      n.Elem,
		DragIndex: n.Index,
		DragNode:  id,
		Target:    outline.NoNode,
	}

	switch k := n.Elem.Kind; {
	case k.IsStackItem() || k.IsStackBase():
		s.OwnerObject = n.Elem.Owner
		if bone, ok := tr.BoneAncestor(id); ok {
			s.OwnerBone = tr.Elem(bone).Bone
		}
		s.IDs = []DragID{{Elem: n.Elem}}

	case k == outline.ElemObject || k == outline.ElemCollection:
		if !tr.IsSelected(id) {
			tr.SelectOnly(id)
		}
		for _, sel := range tr.Selected() {
			e := tr.Elem(sel)
			if e.Kind != k {
				continue
			}
			if k == outline.ElemCollection && selectedCollectionAbove(tr, sel) {
				continue
			}
			s.IDs = append(s.IDs, DragID{Elem: e, FromParent: fromParent(tr, db, sel)})
		}

	default:
		s.IDs = []DragID{{Elem: n.Elem, FromParent: n.Elem.Owner}}
	}
	return s
}

func selectedCollectionAbove(tr *outline.Tree, id outline.NodeID) bool {
	_, found := tr.NearestAncestor(tr.ParentOf(id), func(n *outline.Node) bool {
		return n.Elem.Kind == outline.ElemCollection && tr.IsSelected(n.ID)
	})
	return found
}

// fromParent is the nearest collection above the row, or the active scene's master
// collection for root rows.
func fromParent(tr *outline.Tree, db *store.DB, id outline.NodeID) string {
	parent := tr.ParentOf(id)
	if parent == outline.NoNode {
		if sc, ok := db.ActiveScene(); ok {
			return sc.MasterCollection.ID
		}
		return ""
	}
	collID, _, _ := tr.CollectionAncestor(parent)
	return collID
}
