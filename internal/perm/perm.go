package perm

import (
	"outliner-cli/internal/model"
	"outliner-cli/internal/store"
)

// CanEditObject reports whether the object itself (parent, stacks, material slots) may be mutated.
// Library-linked objects are read-only.
func CanEditObject(ob *model.Object) bool {
	return ob != nil && !ob.Linked
}

// CanEditCollection enforces the collection rules:
// - linked collections are read-only;
// - library overrides can't have their hierarchy edited from the outliner.
func CanEditCollection(c *model.Collection) bool {
	if c == nil {
		return false
	}
	return !c.Linked && !c.Override
}

// CanEditScene reports whether objects may be linked into the scene.
func CanEditScene(sc *model.Scene) bool {
	return sc != nil && !sc.Linked
}

// CanEditStackOwner reports whether the owner (object, or its bone) of a stack list may be edited.
func CanEditStackOwner(db *store.DB, objectID string) bool {
	if db == nil {
		return false
	}
	ob, ok := db.FindObject(objectID)
	if !ok {
		return false
	}
	return CanEditObject(ob)
}

// CanMoveFrom reports whether a collection can act as the source of a move.
// A read-only source means the move degrades to a link (the entity stays where it was).
func CanMoveFrom(c *model.Collection) bool {
	return c != nil && !c.Linked
}
