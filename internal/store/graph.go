package store

import (
	"slices"

	"outliner-cli/internal/model"
)

// IsObjectDescendant reports whether id has ancestorID somewhere up its parent chain.
// The walk is bounded by the object count, so a corrupt (cyclic) chain terminates.
func (db *DB) IsObjectDescendant(id, ancestorID string) bool {
	if id == "" || ancestorID == "" {
		return false
	}
	cur, ok := db.FindObject(id)
	for steps := 0; ok && steps <= len(db.Objects); steps++ {
		if cur.ParentID == nil {
			return false
		}
		if *cur.ParentID == ancestorID {
			return true
		}
		cur, ok = db.FindObject(*cur.ParentID)
	}
	return false
}

// ObjectChildren returns the objects directly parented to id, in DB order.
func (db *DB) ObjectChildren(id string) []*model.Object {
	var out []*model.Object
	for i := range db.Objects {
		if p := db.Objects[i].ParentID; p != nil && *p == id {
			out = append(out, &db.Objects[i])
		}
	}
	return out
}

// WorldLocation sums locations along the parent chain.
func (db *DB) WorldLocation(id string) [3]float64 {
	var w [3]float64
	cur, ok := db.FindObject(id)
	for steps := 0; ok && steps <= len(db.Objects); steps++ {
		for i := range w {
			w[i] += cur.Location[i]
		}
		if cur.ParentID == nil {
			break
		}
		cur, ok = db.FindObject(*cur.ParentID)
	}
	return w
}

// CollectionContains reports whether descendantID is a (transitive) child collection of ancestorID.
func (db *DB) CollectionContains(ancestorID, descendantID string) bool {
	seen := map[string]bool{}
	var walk func(id string) bool
	walk = func(id string) bool {
		if seen[id] {
			return false
		}
		seen[id] = true
		c, ok := db.FindCollection(id)
		if !ok {
			return false
		}
		for _, ch := range c.Children {
			if ch == descendantID || walk(ch) {
				return true
			}
		}
		return false
	}
	return walk(ancestorID)
}

// CollectionParents returns every collection (masters included) listing id as a child.
func (db *DB) CollectionParents(id string) []*model.Collection {
	var out []*model.Collection
	for i := range db.Scenes {
		if slices.Contains(db.Scenes[i].MasterCollection.Children, id) {
			out = append(out, &db.Scenes[i].MasterCollection)
		}
	}
	for i := range db.Collections {
		if slices.Contains(db.Collections[i].Children, id) {
			out = append(out, &db.Collections[i])
		}
	}
	return out
}

// IsMasterCollection reports whether id is a scene's master collection. The scene owning
// it decides, so a file that lost the isMaster flag still protects its masters.
func (db *DB) IsMasterCollection(id string) bool {
	for i := range db.Scenes {
		if db.Scenes[i].MasterCollection.ID == id {
			return true
		}
	}
	c, ok := db.FindCollection(id)
	return ok && c.IsMaster
}

// ObjectCollections returns every collection (masters included) that links the object.
func (db *DB) ObjectCollections(id string) []*model.Collection {
	var out []*model.Collection
	for i := range db.Scenes {
		if slices.Contains(db.Scenes[i].MasterCollection.Objects, id) {
			out = append(out, &db.Scenes[i].MasterCollection)
		}
	}
	for i := range db.Collections {
		if slices.Contains(db.Collections[i].Objects, id) {
			out = append(out, &db.Collections[i])
		}
	}
	return out
}

// reachableObjects collects objects linked from root or its children, skipping excluded collections.
func (db *DB) reachableObjects(root *model.Collection, excluded []string) map[string]bool {
	out := map[string]bool{}
	seen := map[string]bool{}
	var walk func(c *model.Collection)
	walk = func(c *model.Collection) {
		if c == nil || seen[c.ID] || slices.Contains(excluded, c.ID) {
			return
		}
		seen[c.ID] = true
		for _, ob := range c.Objects {
			out[ob] = true
		}
		for _, ch := range c.Children {
			if cc, ok := db.FindCollection(ch); ok {
				walk(cc)
			}
		}
	}
	walk(root)
	return out
}

// SceneHasObject reports whether the object is linked anywhere in the scene's collection hierarchy.
func (db *DB) SceneHasObject(sc *model.Scene, objectID string) bool {
	if sc == nil {
		return false
	}
	return db.reachableObjects(&sc.MasterCollection, nil)[objectID]
}

// ViewLayerHasBase reports whether the object has a base in any of the scene's view layers.
// A scene without explicit view layers behaves as a single layer excluding nothing.
func (db *DB) ViewLayerHasBase(sc *model.Scene, objectID string) bool {
	if sc == nil {
		return false
	}
	if len(sc.ViewLayers) == 0 {
		return db.SceneHasObject(sc, objectID)
	}
	for _, vl := range sc.ViewLayers {
		if db.reachableObjects(&sc.MasterCollection, vl.Excluded)[objectID] {
			return true
		}
	}
	return false
}

// StackList returns the owner's list for a stack kind. A non-empty bone selects the
// pose channel's constraint list.
func (db *DB) StackList(objectID, bone string, kind model.StackKind) (*[]string, bool) {
	ob, ok := db.FindObject(objectID)
	if !ok {
		return nil, false
	}
	if bone != "" {
		if kind != model.StackConstraint {
			return nil, false
		}
		pchan, ok := db.FindBone(objectID, bone)
		if !ok {
			return nil, false
		}
		return &pchan.Constraints, true
	}
	switch kind {
	case model.StackModifier:
		return &ob.Modifiers, true
	case model.StackConstraint:
		return &ob.Constraints, true
	case model.StackEffect:
		return &ob.Effects, true
	default:
		return nil, false
	}
}
