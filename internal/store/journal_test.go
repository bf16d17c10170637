package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"outliner-cli/internal/model"
)

func journals(t *testing.T) map[string]EventLog {
	dir := t.TempDir()
	return map[string]EventLog{
		"sqlite": Journal{Path: filepath.Join(dir, "journal.sqlite")},
		"jsonl":  JSONLJournal{Path: filepath.Join(dir, "journal.jsonl")},
	}
}

func TestJournal_AppendTailForEntity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, j := range journals(t) {
		t.Run(name, func(t *testing.T) {
			evs, err := j.Tail(ctx, 0)
			if err != nil {
				t.Fatalf("Tail (empty): %v", err)
			}
			if len(evs) != 0 {
				t.Fatalf("expected empty journal, got %d events", len(evs))
			}

			inputs := []model.Event{
				{SessionID: "s1", Kind: "outliner.parent_drop", Status: "finished", EntityIDs: []string{"ob-a", "ob-b"}, Payload: map[string]any{"insert": "into"}},
				{SessionID: "s2", Kind: "outliner.collection_drop", Status: "finished", EntityIDs: []string{"ob-a", "coll-x"}},
				{SessionID: "s3", Kind: "outliner.material_drop", Status: "finished", EntityIDs: []string{"mat-red", "ob-c"}},
			}
			for _, in := range inputs {
				got, err := j.Append(ctx, in)
				if err != nil {
					t.Fatalf("Append: %v", err)
				}
				if got.ID == "" || got.TS.IsZero() {
					t.Fatalf("expected id and ts to be filled, got %#v", got)
				}
			}

			tail, err := j.Tail(ctx, 2)
			if err != nil {
				t.Fatalf("Tail: %v", err)
			}
			if len(tail) != 2 || tail[0].SessionID != "s2" || tail[1].SessionID != "s3" {
				t.Fatalf("unexpected tail: %#v", tail)
			}

			forA, err := j.ForEntity(ctx, "ob-a")
			if err != nil {
				t.Fatalf("ForEntity: %v", err)
			}
			if len(forA) != 2 || forA[0].Kind != "outliner.parent_drop" || forA[1].Kind != "outliner.collection_drop" {
				t.Fatalf("unexpected events for ob-a: %#v", forA)
			}
			payload, ok := forA[0].Payload.(map[string]any)
			if !ok || payload["insert"] != "into" {
				t.Fatalf("payload did not survive: %#v", forA[0].Payload)
			}
		})
	}
}

func TestStore_JournalBackendAutoDetect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Path: filepath.Join(dir, "scene.json")}
	if _, ok := s.Journal(JournalBackendAuto).(Journal); !ok {
		t.Fatalf("expected sqlite journal by default")
	}
	if _, ok := s.Journal(JournalBackendJSONL).(JSONLJournal); !ok {
		t.Fatalf("expected explicit jsonl journal")
	}

	if err := os.WriteFile(filepath.Join(dir, "journal.jsonl"), []byte("\n"), 0o644); err != nil {
		t.Fatalf("write journal: %v", err)
	}
	if _, ok := s.Journal(JournalBackendAuto).(JSONLJournal); !ok {
		t.Fatalf("expected existing jsonl journal to be picked up")
	}
	if _, ok := s.Journal(JournalBackendSQLite).(Journal); !ok {
		t.Fatalf("explicit sqlite wins over detection")
	}
}

func TestParseJournalBackend(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]JournalBackend{"": JournalBackendAuto, "SQLite": JournalBackendSQLite, " jsonl ": JournalBackendJSONL} {
		got, err := ParseJournalBackend(in)
		if err != nil || got != want {
			t.Fatalf("ParseJournalBackend(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseJournalBackend("git"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
