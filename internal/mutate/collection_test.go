package mutate

import (
	"errors"
	"slices"
	"testing"

	"outliner-cli/internal/testutil"
)

func TestCollectionObjectMove_ExactlyOneContainer(t *testing.T) {
	db := testutil.Scene()

	res, err := CollectionObjectMove(db, "coll-a1", "coll-a", "ob-cube")
	if err != nil {
		t.Fatalf("CollectionObjectMove error: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected changed=true")
	}
	got := db.ObjectCollections("ob-cube")
	if len(got) != 1 || got[0].ID != "coll-a1" {
		t.Fatalf("expected ob-cube only in coll-a1; got %d collections", len(got))
	}
}

func TestCollectionObjectMove_LinkedTargetLeavesSourceUntouched(t *testing.T) {
	db := testutil.Scene()
	_, err := CollectionObjectMove(db, "coll-lib", "coll-a", "ob-cube")
	var ro ReadOnlyError
	if !errors.As(err, &ro) {
		t.Fatalf("expected ReadOnlyError; got %v", err)
	}
	a, _ := db.FindCollection("coll-a")
	if !slices.Contains(a.Objects, "ob-cube") {
		t.Fatalf("source collection lost the object")
	}
}

func TestCollectionObjectMoveAfter(t *testing.T) {
	db := testutil.Scene()
	if _, err := CollectionObjectMoveAfter(db, "coll-a", "ob-rig", "ob-cube"); err != nil {
		t.Fatalf("CollectionObjectMoveAfter error: %v", err)
	}
	a, _ := db.FindCollection("coll-a")
	if want := []string{"ob-child", "ob-rig", "ob-cube"}; !slices.Equal(a.Objects, want) {
		t.Fatalf("expected %v; got %v", want, a.Objects)
	}
}

func TestCollectionMove_RelativePlacement(t *testing.T) {
	db := testutil.Scene()
	// Move coll-a1 out of coll-a, right before coll-b in the master collection.
	if _, err := CollectionMove(db, "coll-master-main", "coll-a", "coll-b", false, "coll-a1"); err != nil {
		t.Fatalf("CollectionMove error: %v", err)
	}
	master, _ := db.FindCollection("coll-master-main")
	if want := []string{"coll-a", "coll-a1", "coll-b"}; !slices.Equal(master.Children, want) {
		t.Fatalf("expected %v; got %v", want, master.Children)
	}
	a, _ := db.FindCollection("coll-a")
	if len(a.Children) != 0 {
		t.Fatalf("expected coll-a to have no children; got %v", a.Children)
	}
	if n := len(db.CollectionParents("coll-a1")); n != 1 {
		t.Fatalf("expected exactly one parent; got %d", n)
	}
}

func TestCollectionMove_RejectsSelfAndDescendants(t *testing.T) {
	db := testutil.Scene()
	for _, to := range []string{"coll-a", "coll-a1"} {
		_, err := CollectionMove(db, to, "coll-master-main", "", false, "coll-a")
		var cyc CycleError
		if !errors.As(err, &cyc) {
			t.Fatalf("expected CycleError moving coll-a into %s; got %v", to, err)
		}
	}
	master, _ := db.FindCollection("coll-master-main")
	if !slices.Contains(master.Children, "coll-a") {
		t.Fatalf("coll-a was detached by a rejected move")
	}
}

func TestCollectionMove_MasterIsNotMovable(t *testing.T) {
	db := testutil.Scene()
	if _, err := CollectionMove(db, "coll-b", "", "", false, "coll-master-main"); err == nil {
		t.Fatalf("expected error")
	}
}
