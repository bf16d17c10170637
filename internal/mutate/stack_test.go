package mutate

import (
	"errors"
	"slices"
	"testing"

	"outliner-cli/internal/model"
	"outliner-cli/internal/testutil"
)

func TestMoveStackItemToIndex(t *testing.T) {
	db := testutil.Scene()
	owner := StackOwner{ObjectID: "ob-cube"}

	res, err := MoveStackItemToIndex(db, owner, model.StackModifier, "mod-subsurf", 2)
	if err != nil {
		t.Fatalf("MoveStackItemToIndex error: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected changed=true")
	}
	ob, _ := db.FindObject("ob-cube")
	if want := []string{"mod-bevel", "mod-array", "mod-subsurf"}; !slices.Equal(ob.Modifiers, want) {
		t.Fatalf("expected %v; got %v", want, ob.Modifiers)
	}

	// Same position is a no-op.
	res2, err := MoveStackItemToIndex(db, owner, model.StackModifier, "mod-subsurf", 2)
	if err != nil {
		t.Fatalf("no-op error: %v", err)
	}
	if res2.Changed {
		t.Fatalf("expected changed=false")
	}

	if _, err := MoveStackItemToIndex(db, owner, model.StackModifier, "mod-gp-thick", 0); !errors.Is(err, ErrNotInContainer) {
		t.Fatalf("expected ErrNotInContainer; got %v", err)
	}
}

func TestCopyStackItem_IndependentDuplicate(t *testing.T) {
	db := testutil.Scene()

	id, res, err := CopyStackItem(db, StackOwner{ObjectID: "ob-sphere"}, "mod-bevel")
	if err != nil {
		t.Fatalf("CopyStackItem error: %v", err)
	}
	if !res.Changed || id == "" || id == "mod-bevel" {
		t.Fatalf("expected a new item; got id=%q changed=%v", id, res.Changed)
	}
	sphere, _ := db.FindObject("ob-sphere")
	if !slices.Equal(sphere.Modifiers, []string{id}) {
		t.Fatalf("expected sphere modifiers [%s]; got %v", id, sphere.Modifiers)
	}
	cube, _ := db.FindObject("ob-cube")
	if len(cube.Modifiers) != 3 {
		t.Fatalf("source stack changed: %v", cube.Modifiers)
	}

	cp, _ := db.FindStackItem(id)
	cp.Settings["width"] = 0.5
	orig, _ := db.FindStackItem("mod-bevel")
	if orig.Settings["width"] != 0.1 {
		t.Fatalf("copy shares settings with the original")
	}
}

func TestCopyStackItem_ConstraintToBone(t *testing.T) {
	db := testutil.Scene()
	id, _, err := CopyStackItem(db, StackOwner{ObjectID: "ob-rig", Bone: "head"}, "con-track")
	if err != nil {
		t.Fatalf("CopyStackItem error: %v", err)
	}
	head, _ := db.FindBone("ob-rig", "head")
	if !slices.Equal(head.Constraints, []string{id}) {
		t.Fatalf("expected head constraints [%s]; got %v", id, head.Constraints)
	}
}

func TestCopyStackItem_GreasePencilMismatch(t *testing.T) {
	db := testutil.Scene()
	_, _, err := CopyStackItem(db, StackOwner{ObjectID: "ob-cube"}, "mod-gp-thick")
	var inc IncompatibleError
	if !errors.As(err, &inc) {
		t.Fatalf("expected IncompatibleError; got %v", err)
	}
}

func TestLinkStack_SharesDefinitions(t *testing.T) {
	db := testutil.Scene()
	src := StackOwner{ObjectID: "ob-cube"}
	dst := StackOwner{ObjectID: "ob-sphere"}

	if _, err := LinkStack(db, dst, src, model.StackModifier); err != nil {
		t.Fatalf("LinkStack error: %v", err)
	}
	sphere, _ := db.FindObject("ob-sphere")
	cube, _ := db.FindObject("ob-cube")
	if !slices.Equal(sphere.Modifiers, cube.Modifiers) {
		t.Fatalf("expected shared list %v; got %v", cube.Modifiers, sphere.Modifiers)
	}

	it, _ := db.FindStackItem(sphere.Modifiers[0])
	it.Settings["levels"] = 4
	viaCube, _ := db.FindStackItem(cube.Modifiers[0])
	if viaCube.Settings["levels"] != 4 {
		t.Fatalf("expected edit visible from both owners")
	}
}

func TestLinkStack_LinkedDestinationIsReadOnly(t *testing.T) {
	db := testutil.Scene()
	_, err := LinkStack(db, StackOwner{ObjectID: "ob-lib"}, StackOwner{ObjectID: "ob-cube"}, model.StackModifier)
	var ro ReadOnlyError
	if !errors.As(err, &ro) {
		t.Fatalf("expected ReadOnlyError; got %v", err)
	}
	lib, _ := db.FindObject("ob-lib")
	if len(lib.Modifiers) != 0 {
		t.Fatalf("linked object was mutated: %v", lib.Modifiers)
	}
}

func TestAssignMaterial(t *testing.T) {
	db := testutil.Scene()
	if _, err := AssignMaterial(db, "ob-sphere", "mat-red"); err != nil {
		t.Fatalf("AssignMaterial error: %v", err)
	}
	sphere, _ := db.FindObject("ob-sphere")
	if !slices.Equal(sphere.Materials, []string{"mat-red"}) {
		t.Fatalf("expected [mat-red]; got %v", sphere.Materials)
	}
	if _, err := AssignMaterial(db, "ob-sphere", "mat-gp"); err == nil {
		t.Fatalf("expected grease pencil material to be rejected on a mesh")
	}
	if _, err := AssignMaterial(db, "ob-gp", "mat-gp"); err != nil {
		t.Fatalf("AssignMaterial gp error: %v", err)
	}
}

func TestSceneLinkObject(t *testing.T) {
	db := testutil.Scene()
	if _, err := SceneLinkObject(db, "sc-alt", "coll-master-alt", "ob-cube"); err != nil {
		t.Fatalf("SceneLinkObject error: %v", err)
	}
	alt, _ := db.FindScene("sc-alt")
	if !db.SceneHasObject(alt, "ob-cube") {
		t.Fatalf("expected ob-cube in sc-alt")
	}
	if !slices.Contains(alt.Selected, "ob-cube") {
		t.Fatalf("expected ob-cube selected in sc-alt")
	}
	res, err := SceneLinkObject(db, "sc-alt", "coll-master-alt", "ob-cube")
	if err != nil || res.Changed {
		t.Fatalf("expected no-op; got changed=%v err=%v", res.Changed, err)
	}
}
