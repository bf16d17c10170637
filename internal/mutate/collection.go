package mutate

import (
	"slices"
	"strings"

	"outliner-cli/internal/model"
	"outliner-cli/internal/perm"
	"outliner-cli/internal/store"
)

// CollectionObjectAdd links the object into the collection (appended).
func CollectionObjectAdd(db *store.DB, toID, objectID string) (Result, error) {
	to, err := editableCollection(db, toID)
	if err != nil {
		return Result{}, err
	}
	if _, ok := db.FindObject(objectID); !ok {
		return Result{}, NotFoundError{Kind: "object", ID: objectID}
	}
	if slices.Contains(to.Objects, objectID) {
		return Result{}, nil
	}
	to.Objects = append(to.Objects, objectID)
	return Result{Changed: true, EventPayload: map[string]any{"to": to.ID}}, nil
}

// CollectionObjectMove links the object into toID and unlinks it from fromID.
// An empty fromID (or one that doesn't hold the object) only links.
// The object always ends up in toID: both collections are checked before anything changes.
func CollectionObjectMove(db *store.DB, toID, fromID, objectID string) (Result, error) {
	toID = strings.TrimSpace(toID)
	fromID = strings.TrimSpace(fromID)
	if toID == fromID {
		return Result{}, nil
	}
	to, err := editableCollection(db, toID)
	if err != nil {
		return Result{}, err
	}
	var from *model.Collection
	if fromID != "" {
		c, ok := db.FindCollection(fromID)
		if !ok {
			return Result{}, NotFoundError{Kind: "collection", ID: fromID}
		}
		if !perm.CanMoveFrom(c) {
			return Result{}, ReadOnlyError{Kind: "collection", ID: fromID}
		}
		from = c
	}
	if _, ok := db.FindObject(objectID); !ok {
		return Result{}, NotFoundError{Kind: "object", ID: objectID}
	}

	changed := false
	if !slices.Contains(to.Objects, objectID) {
		to.Objects = append(to.Objects, objectID)
		changed = true
	}
	if from != nil {
		if i := slices.Index(from.Objects, objectID); i >= 0 {
			from.Objects = slices.Delete(from.Objects, i, i+1)
			changed = true
		}
	}
	if !changed {
		return Result{}, nil
	}
	return Result{Changed: true, EventPayload: map[string]any{"to": toID, "from": fromID}}, nil
}

// CollectionObjectMoveAfter repositions objectID right after anchorID inside the collection.
// Nothing happens when either isn't linked there.
func CollectionObjectMoveAfter(db *store.DB, collectionID, anchorID, objectID string) (Result, error) {
	c, err := editableCollection(db, collectionID)
	if err != nil {
		return Result{}, err
	}
	if anchorID == objectID {
		return Result{}, nil
	}
	cur := slices.Index(c.Objects, objectID)
	if cur < 0 || !slices.Contains(c.Objects, anchorID) {
		return Result{}, nil
	}
	rest := slices.Delete(slices.Clone(c.Objects), cur, cur+1)
	at := slices.Index(rest, anchorID) + 1
	next := slices.Insert(rest, at, objectID)
	if slices.Equal(next, c.Objects) {
		return Result{}, nil
	}
	c.Objects = next
	return Result{Changed: true, EventPayload: map[string]any{"after": anchorID}}, nil
}

// CollectionMove moves collectionID under toID, unlinking it from fromID (if set). With a
// relativeID the moved collection is placed before (or after) that sibling in toID.
// Master collections can't be moved, and toID must not be the collection or one of its descendants.
func CollectionMove(db *store.DB, toID, fromID, relativeID string, after bool, collectionID string) (Result, error) {
	to, err := editableCollection(db, toID)
	if err != nil {
		return Result{}, err
	}
	coll, ok := db.FindCollection(collectionID)
	if !ok {
		return Result{}, NotFoundError{Kind: "collection", ID: collectionID}
	}
	if db.IsMasterCollection(coll.ID) {
		return Result{}, ReadOnlyError{Kind: "master collection", ID: collectionID}
	}
	if toID == collectionID || db.CollectionContains(collectionID, toID) {
		return Result{}, CycleError{Kind: "collection", ID: collectionID, ParentID: toID}
	}
	var from *model.Collection
	if fromID != "" && fromID != toID {
		c, ok := db.FindCollection(fromID)
		if !ok {
			return Result{}, NotFoundError{Kind: "collection", ID: fromID}
		}
		if !perm.CanMoveFrom(c) {
			return Result{}, ReadOnlyError{Kind: "collection", ID: fromID}
		}
		from = c
	}

	before := slices.Clone(to.Children)
	if from != nil {
		if i := slices.Index(from.Children, collectionID); i >= 0 {
			from.Children = slices.Delete(from.Children, i, i+1)
		}
	}
	children := slices.DeleteFunc(slices.Clone(to.Children), func(id string) bool { return id == collectionID })
	at := len(children)
	if relativeID != "" && relativeID != collectionID {
		if i := slices.Index(children, relativeID); i >= 0 {
			at = i
			if after {
				at = i + 1
			}
		}
	}
	to.Children = slices.Insert(children, at, collectionID)

	if from == nil && slices.Equal(before, to.Children) {
		return Result{}, nil
	}
	return Result{
		Changed: true,
		EventPayload: map[string]any{
			"to":       toID,
			"from":     fromID,
			"relative": relativeID,
			"after":    after,
		},
	}, nil
}

// CollectionIsEmpty reports whether the collection has neither objects nor children.
func CollectionIsEmpty(db *store.DB, id string) bool {
	c, ok := db.FindCollection(id)
	return ok && len(c.Objects) == 0 && len(c.Children) == 0
}

func editableCollection(db *store.DB, id string) (*model.Collection, error) {
	id = strings.TrimSpace(id)
	if db == nil || id == "" {
		return nil, NotFoundError{Kind: "collection", ID: id}
	}
	c, ok := db.FindCollection(id)
	if !ok {
		return nil, NotFoundError{Kind: "collection", ID: id}
	}
	if !perm.CanEditCollection(c) {
		return nil, ReadOnlyError{Kind: "collection", ID: id}
	}
	return c, nil
}
