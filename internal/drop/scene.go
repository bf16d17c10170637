package drop

import (
	"outliner-cli/internal/drag"
	"outliner-cli/internal/mutate"
	"outliner-cli/internal/notify"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/perm"
)

// SceneDrop links dragged objects into a scene row's scene.
type SceneDrop struct{}

func (SceneDrop) Name() string { return KindSceneDrop }

func (SceneDrop) Validate(env *Env, s *drag.Session, ev Event, hl outline.Overlay) Outcome {
	objs := s.Objects()
	if len(objs) == 0 {
		return reject()
	}
	target, ok := env.Tree.FindDropzone(ev.Pos, true)
	if !ok {
		return reject()
	}
	e := env.Tree.Elem(target)
	if e.Kind != outline.ElemScene {
		return reject()
	}
	sc, ok := env.DB.FindScene(e.ID)
	if !ok || !perm.CanEditScene(sc) {
		return reject()
	}
	if env.DB.SceneHasObject(sc, objs[0].Elem.ID) {
		return reject()
	}
	hl.MarkTarget(target)
	s.Target = target
	s.TargetElem = e
	s.Insert = outline.InsertInto
	return Outcome{OK: true, Insert: outline.InsertInto, Tooltip: "Link object to scene", Target: target}
}

func (SceneDrop) Apply(env *Env, s *drag.Session, ev Event) Result {
	sceneID := s.TargetElem.ID
	sc, ok := env.DB.FindScene(sceneID)
	if !ok || !perm.CanEditScene(sc) {
		return cancelled(KindSceneDrop, "scene can't be edited")
	}
	// Inactive scenes get the object in their master collection, the active one in the
	// active collection.
	collID := sc.MasterCollection.ID
	if sc.ID == env.DB.ActiveSceneID {
		if c, ok := env.DB.ActiveCollection(); ok && (c.ID == collID || env.DB.CollectionContains(collID, c.ID)) {
			collID = c.ID
		}
	}

	res := Result{Kind: KindSceneDrop, Status: StatusFinished}
	b := notify.NewBatch()
	for _, id := range s.Objects() {
		mres, err := mutate.SceneLinkObject(env.DB, sceneID, collID, id.Elem.ID)
		if err != nil {
			res.skip(id.Elem, skipReason(err))
			continue
		}
		res.applied(id.Elem, mres)
	}
	if res.Changed {
		b.TagRelations()
		b.TagID(sceneID, notify.RecalcSelect)
		b.Add(notify.CategoryScene, notify.TopicObjectSelect, sceneID)
	}
	flush(env, b)
	return res
}

// MaterialDrop assigns a dragged material to the object row under the pointer.
type MaterialDrop struct{}

func (MaterialDrop) Name() string { return KindMaterialDrop }

func (MaterialDrop) Validate(env *Env, s *drag.Session, ev Event, hl outline.Overlay) Outcome {
	if s.Kind() != outline.ElemMaterial {
		return reject()
	}
	ma, ok := env.DB.FindMaterial(s.Elem.ID)
	if !ok {
		return reject()
	}
	target, ok := env.Tree.FindDropzone(ev.Pos, true)
	if !ok {
		return reject()
	}
	e := env.Tree.Elem(target)
	if e.Kind != outline.ElemObject {
		return reject()
	}
	ob, ok := env.DB.FindObject(e.ID)
	if !ok || !perm.CanEditObject(ob) || !mutate.MaterialFits(ma, ob) {
		return reject()
	}
	hl.MarkTarget(target)
	s.Target = target
	s.TargetElem = e
	s.Insert = outline.InsertInto
	return Outcome{OK: true, Insert: outline.InsertInto, Tooltip: "Drop material on object", Target: target}
}

func (MaterialDrop) Apply(env *Env, s *drag.Session, ev Event) Result {
	res := Result{Kind: KindMaterialDrop, Status: StatusFinished}
	mres, err := mutate.AssignMaterial(env.DB, s.TargetElem.ID, s.Elem.ID)
	if err != nil {
		return cancelled(KindMaterialDrop, err.Error())
	}
	res.applied(s.Elem, mres)
	b := notify.NewBatch()
	if res.Changed {
		b.Add(notify.CategorySpace, notify.TopicView3D, "")
		b.Add(notify.CategoryMaterial, notify.TopicShadingLinks, s.Elem.ID)
	}
	flush(env, b)
	return res
}
