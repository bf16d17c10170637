package mutate

import (
	"slices"
	"strings"

	"outliner-cli/internal/model"
	"outliner-cli/internal/perm"
	"outliner-cli/internal/store"
)

// AssignMaterial appends a new material slot holding materialID.
// Grease pencil style materials only go onto grease pencil objects.
func AssignMaterial(db *store.DB, objectID, materialID string) (Result, error) {
	objectID = strings.TrimSpace(objectID)
	materialID = strings.TrimSpace(materialID)
	if db == nil || objectID == "" || materialID == "" {
		return Result{}, nil
	}
	ob, ok := db.FindObject(objectID)
	if !ok {
		return Result{}, NotFoundError{Kind: "object", ID: objectID}
	}
	ma, ok := db.FindMaterial(materialID)
	if !ok {
		return Result{}, NotFoundError{Kind: "material", ID: materialID}
	}
	if !perm.CanEditObject(ob) {
		return Result{}, ReadOnlyError{Kind: "object", ID: objectID}
	}
	if !MaterialFits(ma, ob) {
		return Result{}, IncompatibleError{What: "grease pencil material on a non grease pencil object"}
	}
	ob.Materials = append(ob.Materials, materialID)
	return Result{
		Changed:      true,
		EventPayload: map[string]any{"material": materialID, "slot": len(ob.Materials)},
	}, nil
}

func MaterialFits(ma *model.Material, ob *model.Object) bool {
	if ma == nil || ob == nil {
		return false
	}
	return !ma.GPStyle || ob.Type == model.ObjectGPencil
}

// SceneLinkObject links the object into collectionID (which must belong to the scene) and
// selects its base.
func SceneLinkObject(db *store.DB, sceneID, collectionID, objectID string) (Result, error) {
	if db == nil {
		return Result{}, nil
	}
	sc, ok := db.FindScene(sceneID)
	if !ok {
		return Result{}, NotFoundError{Kind: "scene", ID: sceneID}
	}
	if !perm.CanEditScene(sc) {
		return Result{}, ReadOnlyError{Kind: "scene", ID: sceneID}
	}
	if db.SceneHasObject(sc, objectID) {
		return Result{}, nil
	}
	res, err := CollectionObjectAdd(db, collectionID, objectID)
	if err != nil {
		return Result{}, err
	}
	// CollectionObjectAdd may have touched a master collection inside db.Scenes; re-resolve.
	sc, _ = db.FindScene(sceneID)
	if !slices.Contains(sc.Selected, objectID) {
		sc.Selected = append(sc.Selected, objectID)
	}
	res.Changed = true
	res.EventPayload = map[string]any{"scene": sceneID, "collection": collectionID}
	return res, nil
}
