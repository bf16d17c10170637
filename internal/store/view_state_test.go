package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestViewState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Path: filepath.Join(dir, "scene.json")}

	// Missing file => default state.
	st0, err := s.LoadViewState()
	if err != nil {
		t.Fatalf("LoadViewState: %v", err)
	}
	if st0 == nil || st0.Version != 1 {
		t.Fatalf("expected default Version=1; got %#v", st0)
	}

	want := &ViewState{
		Version:  1,
		Mode:     "scenes",
		Sort:     "alpha",
		Closed:   []string{"collection:::coll-a"},
		Selected: []string{"object:::ob-cube", "object:::ob-cam"},
		Cursor:   "object:::ob-cam",
	}
	if err := s.SaveViewState(want); err != nil {
		t.Fatalf("SaveViewState: %v", err)
	}
	got, err := s.LoadViewState()
	if err != nil {
		t.Fatalf("LoadViewState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestViewState_CorruptFileIsIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Path: filepath.Join(dir, "scene.json")}
	if err := os.WriteFile(filepath.Join(dir, viewStateFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := s.LoadViewState()
	if err != nil {
		t.Fatalf("LoadViewState: %v", err)
	}
	if st.Version != 1 || len(st.Closed) != 0 {
		t.Fatalf("expected default state, got %#v", st)
	}
}
