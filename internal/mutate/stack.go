package mutate

import (
	"maps"
	"slices"
	"strings"

	"outliner-cli/internal/model"
	"outliner-cli/internal/perm"
	"outliner-cli/internal/store"
)

// StackOwner addresses a modifier/constraint/effect list: an object, or one of its bones
// (constraints only).
type StackOwner struct {
	ObjectID string
	Bone     string
}

func (o StackOwner) String() string {
	if o.Bone == "" {
		return o.ObjectID
	}
	return o.ObjectID + "/" + o.Bone
}

func stackIDPrefix(kind model.StackKind) string {
	switch kind {
	case model.StackModifier:
		return "mod"
	case model.StackConstraint:
		return "con"
	default:
		return "fx"
	}
}

func editableStack(db *store.DB, owner StackOwner, kind model.StackKind) (*[]string, error) {
	if db == nil {
		return nil, NotFoundError{Kind: "object", ID: owner.ObjectID}
	}
	ob, ok := db.FindObject(owner.ObjectID)
	if !ok {
		return nil, NotFoundError{Kind: "object", ID: owner.ObjectID}
	}
	if !perm.CanEditObject(ob) {
		return nil, ReadOnlyError{Kind: "object", ID: owner.ObjectID}
	}
	list, ok := db.StackList(owner.ObjectID, owner.Bone, kind)
	if !ok {
		return nil, NotFoundError{Kind: string(kind) + " stack", ID: owner.String()}
	}
	return list, nil
}

// modifierFits reports whether a modifier can live on the object: grease pencil modifiers only
// on grease pencil objects and vice versa. Constraints and effects fit anywhere.
func modifierFits(db *store.DB, it *model.StackItem, objectID string) bool {
	if it.Kind != model.StackModifier {
		return true
	}
	ob, ok := db.FindObject(objectID)
	if !ok {
		return false
	}
	return it.GPencil == (ob.Type == model.ObjectGPencil)
}

// MoveStackItemToIndex removes itemID from the owner's list and reinserts it at index
// (clamped to the list bounds).
func MoveStackItemToIndex(db *store.DB, owner StackOwner, kind model.StackKind, itemID string, index int) (Result, error) {
	list, err := editableStack(db, owner, kind)
	if err != nil {
		return Result{}, err
	}
	cur := slices.Index(*list, itemID)
	if cur < 0 {
		return Result{}, ErrNotInContainer
	}
	if index < 0 {
		index = 0
	}
	if index > len(*list)-1 {
		index = len(*list) - 1
	}
	if index == cur {
		return Result{}, nil
	}
	rest := slices.Delete(slices.Clone(*list), cur, cur+1)
	*list = slices.Insert(rest, index, itemID)
	return Result{Changed: true, EventPayload: map[string]any{"from": cur, "to": index}}, nil
}

// CopyStackItem appends an independent duplicate of itemID to the destination list and
// returns the new item's ID.
func CopyStackItem(db *store.DB, dst StackOwner, itemID string) (string, Result, error) {
	if db == nil {
		return "", Result{}, nil
	}
	src, ok := db.FindStackItem(itemID)
	if !ok {
		return "", Result{}, NotFoundError{Kind: "stack item", ID: itemID}
	}
	kind := src.Kind
	list, err := editableStack(db, dst, kind)
	if err != nil {
		return "", Result{}, err
	}
	if !modifierFits(db, src, dst.ObjectID) {
		return "", Result{}, IncompatibleError{What: "grease pencil and regular modifiers don't mix"}
	}
	id, err := db.NewID(stackIDPrefix(kind))
	if err != nil {
		return "", Result{}, err
	}
	clone := *src
	clone.ID = id
	clone.Settings = maps.Clone(src.Settings)
	// Appending may move the table; src is not used past this point.
	db.StackItems = append(db.StackItems, clone)
	*list = append(*list, id)
	return id, Result{Changed: true, EventPayload: map[string]any{"source": itemID, "copy": id, "owner": dst.String()}}, nil
}

// LinkStack makes dst reference the same items as src for the given kind, replacing dst's list.
// Items that can't live on dst (grease pencil mismatch) are left out.
func LinkStack(db *store.DB, dst, src StackOwner, kind model.StackKind) (Result, error) {
	if db == nil {
		return Result{}, nil
	}
	if dst == src {
		return Result{}, nil
	}
	srcList, ok := db.StackList(src.ObjectID, src.Bone, kind)
	if !ok {
		return Result{}, NotFoundError{Kind: string(kind) + " stack", ID: src.String()}
	}
	dstList, err := editableStack(db, dst, kind)
	if err != nil {
		return Result{}, err
	}
	next := make([]string, 0, len(*srcList))
	for _, id := range *srcList {
		it, ok := db.FindStackItem(id)
		if !ok || !modifierFits(db, it, dst.ObjectID) {
			continue
		}
		next = append(next, id)
	}
	if slices.Equal(next, *dstList) {
		return Result{}, nil
	}
	*dstList = next
	return Result{Changed: true, EventPayload: map[string]any{"source": src.String(), "owner": dst.String(), "items": next}}, nil
}

// OwnerOfStackItem finds the list holding itemID, preferring the hinted owner.
func OwnerOfStackItem(db *store.DB, hint StackOwner, kind model.StackKind, itemID string) (StackOwner, bool) {
	itemID = strings.TrimSpace(itemID)
	if list, ok := db.StackList(hint.ObjectID, hint.Bone, kind); ok && slices.Contains(*list, itemID) {
		return hint, true
	}
	return StackOwner{}, false
}
