package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"outliner-cli/internal/store"
	"outliner-cli/internal/testutil"
)

func TestBackup_CopyAndPrune(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := store.Store{Path: filepath.Join(dir, "scene.json")}

	// Nothing saved yet.
	p, err := s.Backup(time.Now())
	if err != nil || p != "" {
		t.Fatalf("expected no backup for a missing scene, got %q %v", p, err)
	}

	if err := s.Save(testutil.Scene()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var made []string
	for i := 0; i < 3; i++ {
		p, err := s.Backup(base.Add(time.Duration(i) * time.Minute))
		if err != nil {
			t.Fatalf("Backup: %v", err)
		}
		made = append(made, p)
	}
	want, _ := os.ReadFile(filepath.Join(dir, "scene.json"))
	got, err := os.ReadFile(made[0])
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("backup content differs from scene")
	}

	removed, err := s.PruneBackups(2)
	if err != nil {
		t.Fatalf("PruneBackups: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	left, err := s.Backups()
	if err != nil {
		t.Fatalf("Backups: %v", err)
	}
	if len(left) != 2 || left[0] != made[1] || left[1] != made[2] {
		t.Fatalf("expected the two newest backups, got %v", left)
	}
}
