package drop

import (
	"outliner-cli/internal/drag"
	"outliner-cli/internal/mutate"
	"outliner-cli/internal/notify"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/perm"
)

// CollectionDrop moves (or with Ctrl, links) objects and collections into a collection, or
// places collections before/after a sibling collection.
type CollectionDrop struct{}

func (CollectionDrop) Name() string { return KindCollectionDrop }

// collectionTarget is where a collection drop would land.
type collectionTarget struct {
	row    outline.NodeID
	to     string
	insert outline.InsertType
	from   string
}

func (CollectionDrop) Validate(env *Env, s *drag.Session, ev Event, hl outline.Overlay) Outcome {
	// Shift is parenting; leave it to the parent kinds.
	if ev.Mods.Shift {
		return reject()
	}
	ct, ok := resolveCollectionTarget(env, s, ev)
	if !ok {
		return reject()
	}
	tr := env.Tree

	var tooltip string
	if ct.from == "" {
		ct.insert = outline.InsertInto
		tooltip = "Link inside Collection"
	} else {
		switch ct.insert {
		case outline.InsertBefore:
			tooltip = "Move before collection"
			if tr.IsCollectionRow(tr.PrevSibling(ct.row)) {
				tooltip = "Move between collections"
			}
		case outline.InsertAfter:
			tooltip = "Move after collection"
			if tr.IsCollectionRow(tr.NextSibling(ct.row)) {
				tooltip = "Move between collections"
			}
		default:
			tooltip = "Move inside collection (Ctrl to link, Shift to parent)"
		}
	}
	hl.MarkInsert(ct.row, ct.insert)
	s.Target = ct.row
	s.TargetElem = tr.Elem(ct.row)
	s.Insert = ct.insert
	return Outcome{OK: true, Insert: ct.insert, Tooltip: tooltip, Target: ct.row}
}

func resolveCollectionTarget(env *Env, s *drag.Session, ev Event) (collectionTarget, bool) {
	first, ok := s.First()
	if !ok {
		return collectionTarget{}, false
	}
	if k := first.Elem.Kind; k != outline.ElemObject && k != outline.ElemCollection {
		return collectionTarget{}, false
	}
	tr := env.Tree
	hovered, insert, ok := tr.FindInsertionPoint(ev.Pos)
	if !ok {
		return collectionTarget{}, false
	}
	toID, row, ok := tr.CollectionAncestor(hovered)
	if !ok {
		return collectionTarget{}, false
	}
	to, ok := env.DB.FindCollection(toID)
	if !ok || !perm.CanEditCollection(to) {
		return collectionTarget{}, false
	}
	v := env.view()
	if !v.FreeOrdering() || row != hovered || env.DB.IsMasterCollection(to.ID) {
		insert = outline.InsertInto
	}

	from := ""
	if !ev.Mods.Ctrl && v.Mode != outline.ScenesMode {
		from = movableFrom(env.DB, first.FromParent)
	}

	if first.Elem.Kind == outline.ElemCollection {
		if first.Elem.ID == toID {
			return collectionTarget{}, false
		}
	} else {
		insert = outline.InsertInto
	}

	// A collection can't go into itself or below itself, whichever collection ends up
	// receiving it.
	dest := toID
	if insert != outline.InsertInto {
		parentID, ok := parentCollectionOfRow(tr, row)
		if !ok {
			return collectionTarget{}, false
		}
		dest = parentID
		parent, ok := env.DB.FindCollection(dest)
		if !ok || !perm.CanEditCollection(parent) {
			return collectionTarget{}, false
		}
	}
	for _, c := range s.Collections() {
		if c.Elem.ID == toID || c.Elem.ID == dest ||
			env.DB.CollectionContains(c.Elem.ID, toID) || env.DB.CollectionContains(c.Elem.ID, dest) {
			return collectionTarget{}, false
		}
	}
	return collectionTarget{row: row, to: toID, insert: insert, from: from}, true
}

// parentCollectionOfRow is the collection shown by the row's direct parent (a scene row
// stands for its master collection).
func parentCollectionOfRow(tr *outline.Tree, row outline.NodeID) (string, bool) {
	parent := tr.ParentOf(row)
	id, at, ok := tr.CollectionAncestor(parent)
	if !ok || at != parent {
		return "", false
	}
	return id, true
}

func (CollectionDrop) Apply(env *Env, s *drag.Session, ev Event) Result {
	tr := env.Tree
	to := s.TargetElem.ID
	if s.TargetElem.Kind == outline.ElemScene {
		to, _ = tr.MasterOf(s.TargetElem.ID)
	}
	relative := ""
	after := false
	if s.Insert == outline.InsertBefore || s.Insert == outline.InsertAfter {
		relative = to
		after = s.Insert == outline.InsertAfter
		parentID, ok := parentCollectionOfRow(tr, s.Target)
		if !ok {
			return cancelled(KindCollectionDrop, "no parent collection")
		}
		to = parentID
	}
	if _, ok := env.DB.FindCollection(to); !ok {
		return cancelled(KindCollectionDrop, "target collection no longer exists")
	}

	res := Result{Kind: KindCollectionDrop, Status: StatusFinished}
	if mutate.CollectionIsEmpty(env.DB, to) {
		res.Expand = append(res.Expand, s.TargetElem.Key())
	}
	linking := ev.Mods.Ctrl || env.view().Mode == outline.ScenesMode

	b := notify.NewBatch()
	for _, id := range s.IDs {
		from := ""
		if !linking {
			from = movableFrom(env.DB, id.FromParent)
		}
		var (
			mres mutate.Result
			err  error
		)
		switch id.Elem.Kind {
		case outline.ElemObject:
			if from != "" {
				mres, err = mutate.CollectionObjectMove(env.DB, to, from, id.Elem.ID)
			} else {
				mres, err = mutate.CollectionObjectAdd(env.DB, to, id.Elem.ID)
			}
		case outline.ElemCollection:
			if id.Elem.ID == from {
				res.skip(id.Elem, "unchanged")
				continue
			}
			mres, err = mutate.CollectionMove(env.DB, to, from, relative, after, id.Elem.ID)
		default:
			res.skip(id.Elem, "not movable")
			continue
		}
		if err != nil {
			env.logger().Debug("collection drop skipped", "entity", id.Elem.ID, "to", to, "err", err)
			res.skip(id.Elem, skipReason(err))
			continue
		}
		res.applied(id.Elem, mres)
		if mres.Changed && from != "" {
			b.TagID(from, notify.RecalcCopyOnWrite)
		}
	}
	if res.Changed {
		b.TagID(to, notify.RecalcCopyOnWrite)
		b.TagRelations()
		b.Add(notify.CategoryScene, notify.TopicLayer, env.DB.ActiveSceneID)
	}
	flush(env, b)
	return res
}
