package store

import (
	"strings"
	"testing"

	"outliner-cli/internal/model"
)

func TestNewRandomID_PrefixAndLength(t *testing.T) {
	id, err := newRandomID("mod")
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	if !strings.HasPrefix(id, "mod-") {
		t.Fatalf("expected mod prefix, got %q", id)
	}
	suffix := strings.TrimPrefix(id, "mod-")
	if got, want := len(suffix), 8; got != want {
		t.Fatalf("expected id suffix len %d, got %d (%q)", want, got, suffix)
	}
}

func TestNewID_AvoidsExistingIDs(t *testing.T) {
	db := &DB{
		ActiveSceneID: "sc-main",
		Scenes: []model.Scene{{
			ID:               "sc-main",
			MasterCollection: model.Collection{ID: "coll-master-main", IsMaster: true},
		}},
		StackItems: []model.StackItem{{ID: "con-track", Kind: model.StackConstraint}},
	}
	for i := 0; i < 50; i++ {
		id, err := db.NewID("con")
		if err != nil {
			t.Fatalf("NewID: %v", err)
		}
		if db.idExists(id) {
			t.Fatalf("NewID returned an existing id %q", id)
		}
	}
	if !db.idExists("coll-master-main") {
		t.Fatalf("expected master collections to count as existing ids")
	}
}
