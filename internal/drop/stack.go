package drop

import (
	"slices"

	"outliner-cli/internal/drag"
	"outliner-cli/internal/model"
	"outliner-cli/internal/mutate"
	"outliner-cli/internal/notify"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/perm"
	"outliner-cli/internal/store"
)

// StackDrop handles modifiers, constraints and effects: reorder within the owner's list,
// copy a single item to another owner, or link a whole category to another owner.
type StackDrop struct{}

func (StackDrop) Name() string { return KindUIStackDrop }

func (StackDrop) Validate(env *Env, s *drag.Session, ev Event, hl outline.Overlay) Outcome {
	if !s.IsStack() {
		return reject()
	}
	kind, _ := s.StackKind()
	tr := env.Tree
	target, insert, ok := tr.FindInsertionPoint(ev.Pos)
	if !ok {
		return reject()
	}
	te := tr.Elem(target)
	if te == s.Elem {
		return reject()
	}

	objNode, hasOb := tr.ObjectAncestor(target)
	boneNode, hasBone := tr.BoneAncestor(target)
	// Only constraints live on bones; other kinds go to the armature object.
	if kind != model.StackConstraint {
		hasBone = false
	}
	if hasBone {
		hasOb = false
	}
	otherBone := hasBone && !sameBone(tr.Elem(boneNode), s)
	otherOb := hasOb && tr.Elem(objNode).ID != s.OwnerObject

	var (
		action  drag.Action
		dest    outline.NodeID
		tooltip string
	)
	switch {
	case s.Kind().IsStackBase():
		switch {
		case otherBone:
			action, dest, tooltip = drag.ActionLink, boneNode, "Link all to bone"
		case otherOb:
			action, dest, tooltip = drag.ActionLink, objNode, "Link all to object"
		default:
			return reject()
		}
		insert = outline.InsertInto
	case otherBone:
		action, dest, tooltip = drag.ActionCopy, boneNode, "Copy to bone"
		insert = outline.InsertInto
	case otherOb:
		action, dest, tooltip = drag.ActionCopy, objNode, "Copy to object"
		insert = outline.InsertInto
	case te.Kind == s.Kind() && te.Owner == s.OwnerObject && te.Bone == s.OwnerBone:
		if insert == outline.InsertInto {
			return reject()
		}
		action, dest, tooltip = drag.ActionReorder, target, "Reorder"
	default:
		return reject()
	}

	dst := stackOwnerOf(tr.Elem(dest))
	if !perm.CanEditStackOwner(env.DB, dst.ObjectID) {
		return reject()
	}
	if kind == model.StackModifier && !sameModifierFamily(env.DB, s.OwnerObject, dst.ObjectID) {
		return reject()
	}

	hl.MarkInsert(dest, insert)
	s.Action = action
	s.Target = dest
	s.TargetElem = tr.Elem(dest)
	s.Insert = insert
	return Outcome{OK: true, Insert: insert, Tooltip: tooltip, Target: dest, Action: action}
}

func sameBone(bone outline.Elem, s *drag.Session) bool {
	return bone.Owner == s.OwnerObject && bone.Bone == s.OwnerBone
}

// stackOwnerOf maps a destination row (object, bone or a row inside an owner) to the list
// owner it addresses.
func stackOwnerOf(e outline.Elem) mutate.StackOwner {
	switch e.Kind {
	case outline.ElemObject:
		return mutate.StackOwner{ObjectID: e.ID}
	default:
		return mutate.StackOwner{ObjectID: e.Owner, Bone: e.Bone}
	}
}

// sameModifierFamily reports whether both objects take the same modifier family
// (grease pencil or regular).
func sameModifierFamily(db *store.DB, a, b string) bool {
	oa, ok := db.FindObject(a)
	if !ok {
		return false
	}
	ob, ok := db.FindObject(b)
	if !ok {
		return false
	}
	return (oa.Type == model.ObjectGPencil) == (ob.Type == model.ObjectGPencil)
}

// InsertIndex is the list position a reordered item moves to. When moving down the anchor
// is the row before the target for Before drops; when moving up, the row after the target
// for After drops. Without an anchor the item goes to the front.
func InsertIndex(tr *outline.Tree, dragIndex int, target outline.NodeID, insert outline.InsertType, list []string) int {
	n := tr.Node(target)
	if n == nil {
		return 0
	}
	anchor := target
	if dragIndex < n.Index {
		if insert == outline.InsertBefore {
			anchor = tr.PrevSibling(target)
		}
	} else if insert == outline.InsertAfter {
		anchor = tr.NextSibling(target)
	}
	if anchor == outline.NoNode {
		return 0
	}
	if i := slices.Index(list, tr.Elem(anchor).ID); i >= 0 {
		return i
	}
	return 0
}

func (StackDrop) Apply(env *Env, s *drag.Session, ev Event) Result {
	kind, ok := s.StackKind()
	if !ok {
		return cancelled(KindUIStackDrop, "")
	}
	src := mutate.StackOwner{ObjectID: s.OwnerObject, Bone: s.OwnerBone}
	res := Result{Kind: KindUIStackDrop, Status: StatusFinished}

	var (
		touched string
		err     error
	)
	switch s.Action {
	case drag.ActionLink:
		dst := stackOwnerOf(s.TargetElem)
		touched = dst.ObjectID
		var mres mutate.Result
		mres, err = mutate.LinkStack(env.DB, dst, src, kind)
		if err == nil {
			res.applied(s.Elem, mres)
		}
	case drag.ActionCopy:
		dst := stackOwnerOf(s.TargetElem)
		touched = dst.ObjectID
		var (
			newID string
			mres  mutate.Result
		)
		newID, mres, err = mutate.CopyStackItem(env.DB, dst, s.Elem.ID)
		if err == nil {
			res.applied(s.Elem, mres)
			res.Items[len(res.Items)-1].NewID = newID
		}
	case drag.ActionReorder:
		touched = src.ObjectID
		list, ok := env.DB.StackList(src.ObjectID, src.Bone, kind)
		if !ok {
			return cancelled(KindUIStackDrop, "stack owner no longer exists")
		}
		index := InsertIndex(env.Tree, s.DragIndex, s.Target, s.Insert, *list)
		var mres mutate.Result
		mres, err = mutate.MoveStackItemToIndex(env.DB, src, kind, s.Elem.ID, index)
		if err == nil {
			res.applied(s.Elem, mres)
		}
	default:
		return cancelled(KindUIStackDrop, "")
	}
	if err != nil {
		env.logger().Debug("stack drop skipped", "action", s.Action, "item", s.Elem.ID, "err", err)
		res.skip(s.Elem, skipReason(err))
		return res
	}

	if res.Changed {
		b := notify.NewBatch()
		stackNotes(b, kind, s.Action, touched)
		flush(env, b)
	}
	return res
}

func stackNotes(b *notify.Batch, kind model.StackKind, action drag.Action, objectID string) {
	switch kind {
	case model.StackModifier:
		if action == drag.ActionReorder {
			b.TagID(objectID, notify.RecalcGeometry)
		} else {
			b.TagID(objectID, notify.RecalcTransform|notify.RecalcGeometry|notify.RecalcAnimation)
		}
		b.Add(notify.CategoryObject, notify.TopicModifier, objectID)
	case model.StackConstraint:
		if action != drag.ActionReorder {
			b.TagRelations()
		}
		b.TagID(objectID, notify.RecalcTransform)
		b.Add(notify.CategoryObject, notify.TopicConstraint, objectID)
	case model.StackEffect:
		b.TagID(objectID, notify.RecalcGeometry)
		b.Add(notify.CategoryObject, notify.TopicEffect, objectID)
	}
}
