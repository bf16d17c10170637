package mutate

import (
	"strings"

	"outliner-cli/internal/perm"
	"outliner-cli/internal/store"
)

// SetParent parents childID to parentID. With keepTransform the child's world location is
// preserved, otherwise its local location is kept (and it moves along with the new parent).
//
// Callers are responsible for tagging relations and notifying.
func SetParent(db *store.DB, childID, parentID string, keepTransform bool) (Result, error) {
	childID = strings.TrimSpace(childID)
	parentID = strings.TrimSpace(parentID)
	if db == nil || childID == "" || parentID == "" {
		return Result{}, nil
	}

	child, ok := db.FindObject(childID)
	if !ok {
		return Result{}, NotFoundError{Kind: "object", ID: childID}
	}
	if _, ok := db.FindObject(parentID); !ok {
		return Result{}, NotFoundError{Kind: "object", ID: parentID}
	}
	if !perm.CanEditObject(child) {
		return Result{}, ReadOnlyError{Kind: "object", ID: childID}
	}
	if childID == parentID || db.IsObjectDescendant(parentID, childID) {
		return Result{}, CycleError{Kind: "object", ID: childID, ParentID: parentID}
	}
	if child.ParentID != nil && *child.ParentID == parentID {
		return Result{}, nil
	}

	if keepTransform {
		world := db.WorldLocation(childID)
		parentWorld := db.WorldLocation(parentID)
		for i := range child.Location {
			child.Location[i] = world[i] - parentWorld[i]
		}
	}
	p := parentID
	child.ParentID = &p
	return Result{
		Changed:      true,
		EventPayload: map[string]any{"parent": parentID, "keepTransform": keepTransform},
	}, nil
}

// ClearParent removes the object's parent. With keepTransform the world location is baked
// into the local location.
func ClearParent(db *store.DB, id string, keepTransform bool) (Result, error) {
	id = strings.TrimSpace(id)
	if db == nil || id == "" {
		return Result{}, nil
	}
	ob, ok := db.FindObject(id)
	if !ok {
		return Result{}, NotFoundError{Kind: "object", ID: id}
	}
	if !perm.CanEditObject(ob) {
		return Result{}, ReadOnlyError{Kind: "object", ID: id}
	}
	if ob.ParentID == nil {
		return Result{}, nil
	}
	prev := *ob.ParentID
	if keepTransform {
		ob.Location = db.WorldLocation(id)
	}
	ob.ParentID = nil
	return Result{
		Changed:      true,
		EventPayload: map[string]any{"previousParent": prev, "keepTransform": keepTransform},
	}, nil
}
