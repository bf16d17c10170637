package drop

import (
	"outliner-cli/internal/drag"
	"outliner-cli/internal/model"
	"outliner-cli/internal/mutate"
	"outliner-cli/internal/notify"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/perm"
	"outliner-cli/internal/store"
)

// ParentDrop parents the dragged objects to the object row under the pointer (Into), or
// moves them next to it in its collection (Before/After).
type ParentDrop struct{}

func (ParentDrop) Name() string { return KindParentDrop }

func (ParentDrop) Validate(env *Env, s *drag.Session, ev Event, hl outline.Overlay) Outcome {
	objs := s.Objects()
	if len(objs) == 0 {
		return reject()
	}
	child, ok := env.DB.FindObject(objs[0].Elem.ID)
	if !ok {
		return reject()
	}
	tr := env.Tree
	target, insert, ok := tr.FindInsertionPoint(ev.Pos)
	if !ok {
		return reject()
	}
	v := env.view()
	if !v.FreeOrdering() || v.Mode != outline.ViewLayerMode {
		insert = outline.InsertInto
	}
	if !parentDropAllowed(env, target, ev.Pos.X, child) {
		return reject()
	}

	tooltip := "Drop to set parent (Alt keeps transforms)"
	if insert != outline.InsertInto {
		tooltip = "Reorder object"
	}
	hl.MarkInsert(target, insert)
	hl.MarkInsert(target, outline.InsertInto)

	s.Target = target
	s.TargetElem = tr.Elem(target)
	s.Insert = insert
	return Outcome{OK: true, Insert: insert, Tooltip: tooltip, Target: target}
}

func parentDropAllowed(env *Env, target outline.NodeID, x float64, child *model.Object) bool {
	tr := env.Tree
	if !tr.InNameColumn(target, x) {
		return false
	}
	e := tr.Elem(target)
	if e.Kind != outline.ElemObject {
		return false
	}
	parentID := e.ID
	if parentID == child.ID {
		return false
	}
	if env.DB.IsObjectDescendant(parentID, child.ID) {
		return false
	}
	if child.ParentID != nil && *child.ParentID == parentID {
		return false
	}
	sc, ok := sceneOfRow(env, target)
	if !ok {
		return false
	}
	return env.DB.ViewLayerHasBase(sc, child.ID)
}

// sceneOfRow is the scene row above the row, or the active scene when the view shows no
// scene rows.
func sceneOfRow(env *Env, id outline.NodeID) (*model.Scene, bool) {
	if at, ok := env.Tree.SceneAncestor(id); ok {
		return env.DB.FindScene(env.Tree.Elem(at).ID)
	}
	return env.DB.ActiveScene()
}

func (ParentDrop) Apply(env *Env, s *drag.Session, ev Event) Result {
	e := s.TargetElem
	if e.Kind != outline.ElemObject {
		return cancelled(KindParentDrop, "")
	}
	if _, ok := env.DB.FindObject(e.ID); !ok {
		return cancelled(KindParentDrop, "drop target no longer exists")
	}
	if s.Insert == outline.InsertInto {
		return setParents(env, s, e.ID, ev.Mods.Alt)
	}
	return moveObjectsNextTo(env, s)
}

func setParents(env *Env, s *drag.Session, parentID string, keepTransform bool) Result {
	log := env.logger()
	res := Result{Kind: KindParentDrop, Status: StatusFinished}
	b := notify.NewBatch()
	for _, id := range s.Objects() {
		ob, ok := env.DB.FindObject(id.Elem.ID)
		if !ok {
			res.skip(id.Elem, "not found")
			continue
		}
		if !perm.CanEditObject(ob) {
			res.skip(id.Elem, "read-only")
			res.report(LevelInfo, linkedObjectsReport)
			continue
		}
		mres, err := mutate.SetParent(env.DB, ob.ID, parentID, keepTransform)
		if err != nil {
			log.Debug("set parent skipped", "object", ob.ID, "parent", parentID, "err", err)
			res.skip(id.Elem, skipReason(err))
			continue
		}
		res.applied(id.Elem, mres)
	}
	if res.Changed {
		b.TagRelations()
		b.Add(notify.CategoryObject, notify.TopicTransform, "")
		b.Add(notify.CategoryObject, notify.TopicParent, "")
	}
	flush(env, b)
	return res
}

// moveObjectsNextTo moves the dragged objects into the target object's collection and
// places them after it.
func moveObjectsNextTo(env *Env, s *drag.Session) Result {
	anchor := s.TargetElem.ID
	to, ok := targetObjectCollection(env, s.Target, anchor)
	if !ok {
		return cancelled(KindParentDrop, "no collection to move into")
	}
	res := Result{Kind: KindParentDrop, Status: StatusFinished}
	b := notify.NewBatch()
	for _, id := range s.Objects() {
		ob, ok := env.DB.FindObject(id.Elem.ID)
		if !ok {
			res.skip(id.Elem, "not found")
			continue
		}
		if !perm.CanEditObject(ob) {
			res.skip(id.Elem, "read-only")
			continue
		}
		moved, err := mutate.CollectionObjectMove(env.DB, to, movableFrom(env.DB, id.FromParent), ob.ID)
		if err != nil {
			res.skip(id.Elem, skipReason(err))
			continue
		}
		placed, err := mutate.CollectionObjectMoveAfter(env.DB, to, anchor, ob.ID)
		if err != nil {
			res.skip(id.Elem, skipReason(err))
			continue
		}
		moved.Changed = moved.Changed || placed.Changed
		res.applied(id.Elem, moved)
	}
	if res.Changed {
		b.TagRelations()
		b.Add(notify.CategoryObject, notify.TopicTransform, "")
		b.Add(notify.CategoryObject, notify.TopicParent, "")
		b.Add(notify.CategoryScene, notify.TopicLayer, "")
	}
	flush(env, b)
	return res
}

// targetObjectCollection is the collection row above the target object row, falling back
// to the first collection linking the object.
func targetObjectCollection(env *Env, target outline.NodeID, objectID string) (string, bool) {
	if id, _, ok := env.Tree.CollectionAncestor(env.Tree.ParentOf(target)); ok {
		return id, true
	}
	if cs := env.DB.ObjectCollections(objectID); len(cs) > 0 {
		return cs[0].ID, true
	}
	return "", false
}

// movableFrom returns the collection to unlink from, or "" when the source can't be edited
// (the move then only links).
func movableFrom(db *store.DB, id string) string {
	if id == "" {
		return ""
	}
	c, ok := db.FindCollection(id)
	if !ok || !perm.CanMoveFrom(c) {
		return ""
	}
	return id
}

// ParentClear unparents the dragged objects when they are dropped on empty space or on a
// row that can't take them as children.
type ParentClear struct{}

func (ParentClear) Name() string { return KindParentClear }

func (ParentClear) Validate(env *Env, s *drag.Session, ev Event, hl outline.Overlay) Outcome {
	objs := s.Objects()
	if len(objs) == 0 {
		return reject()
	}
	ob, ok := env.DB.FindObject(objs[0].Elem.ID)
	if !ok || ob.ParentID == nil {
		return reject()
	}
	ok = true
	target, hovered := env.Tree.FindDropzone(ev.Pos, true)
	if hovered {
		e := env.Tree.Elem(target)
		switch e.IDKind() {
		case outline.ElemNone:
		case outline.ElemObject:
			ok = e.Kind == outline.ElemModifierBase || e.Kind == outline.ElemConstraintBase
		case outline.ElemCollection:
			ok = ev.Mods.Shift
		}
	}
	if !ok {
		return reject()
	}
	if hovered {
		hl.MarkTarget(target)
		s.Target = target
		s.TargetElem = env.Tree.Elem(target)
	}
	return Outcome{OK: true, Tooltip: "Drop to clear parent (Alt keeps transforms)", Target: s.Target}
}

func (ParentClear) Apply(env *Env, s *drag.Session, ev Event) Result {
	res := Result{Kind: KindParentClear, Status: StatusFinished}
	b := notify.NewBatch()
	for _, id := range s.Objects() {
		ob, ok := env.DB.FindObject(id.Elem.ID)
		if !ok {
			res.skip(id.Elem, "not found")
			continue
		}
		if !perm.CanEditObject(ob) {
			res.skip(id.Elem, "read-only")
			res.report(LevelInfo, linkedObjectsReport)
			continue
		}
		mres, err := mutate.ClearParent(env.DB, ob.ID, ev.Mods.Alt)
		if err != nil {
			res.skip(id.Elem, skipReason(err))
			continue
		}
		res.applied(id.Elem, mres)
	}
	if res.Changed {
		b.TagRelations()
		b.Add(notify.CategoryObject, notify.TopicTransform, "")
		b.Add(notify.CategoryObject, notify.TopicParent, "")
	}
	flush(env, b)
	return res
}
