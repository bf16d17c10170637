package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"outliner-cli/internal/model"
)

const journalJSONLFileName = "journal.jsonl"

// EventLog is where finished drops are recorded.
type EventLog interface {
	Append(ctx context.Context, ev model.Event) (model.Event, error)
	// Tail returns the last n events, oldest first. n <= 0 returns everything.
	Tail(ctx context.Context, n int) ([]model.Event, error)
	// ForEntity returns the events touching entityID, oldest first.
	ForEntity(ctx context.Context, entityID string) ([]model.Event, error)
}

type JournalBackend string

const (
	JournalBackendAuto   JournalBackend = "auto"
	JournalBackendSQLite JournalBackend = "sqlite"
	JournalBackendJSONL  JournalBackend = "jsonl"
)

func ParseJournalBackend(s string) (JournalBackend, error) {
	switch b := JournalBackend(strings.ToLower(strings.TrimSpace(s))); b {
	case "", JournalBackendAuto:
		return JournalBackendAuto, nil
	case JournalBackendSQLite, JournalBackendJSONL:
		return b, nil
	default:
		return "", fmt.Errorf("unknown journal backend %q (want auto|sqlite|jsonl)", s)
	}
}

func (s Store) journalJSONLPath() string {
	return filepath.Join(filepath.Dir(s.ScenePath()), journalJSONLFileName)
}

// journalBackend resolves auto: an existing JSONL journal next to the scene wins,
// otherwise sqlite.
func (s Store) journalBackend(b JournalBackend) JournalBackend {
	if b == JournalBackendSQLite || b == JournalBackendJSONL {
		return b
	}
	if _, err := os.Stat(s.journalJSONLPath()); err == nil {
		return JournalBackendJSONL
	}
	return JournalBackendSQLite
}

// Journal opens the drop journal stored next to the scene file.
func (s Store) Journal(b JournalBackend) EventLog {
	if s.journalBackend(b) == JournalBackendJSONL {
		return JSONLJournal{Path: s.journalJSONLPath()}
	}
	return Journal{Path: s.JournalPath()}
}

// VersionedFiles are the files worth committing after a drop: the scene and, for the
// JSONL backend, the journal. The sqlite journal is binary and stays out of version control.
func (s Store) VersionedFiles(b JournalBackend) []string {
	files := []string{s.ScenePath()}
	if s.journalBackend(b) == JournalBackendJSONL {
		files = append(files, s.journalJSONLPath())
	}
	return files
}
