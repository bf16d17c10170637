package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"outliner-cli/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Journal is an append-only sqlite log of finished drops.
type Journal struct {
	Path string
}

func (j Journal) open(ctx context.Context) (*sql.DB, error) {
	path := strings.TrimSpace(j.Path)
	if path == "" {
		return nil, errors.New("missing journal path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS drops (
			event_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			entity_ids_json TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			issued_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_drops_issued ON drops(issued_at_unixms);`,
		`CREATE TABLE IF NOT EXISTS drop_entities (
			event_id TEXT NOT NULL REFERENCES drops(event_id) ON DELETE CASCADE,
			entity_id TEXT NOT NULL,
			PRIMARY KEY(event_id, entity_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_drop_entities_entity ON drop_entities(entity_id);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Append stores ev, filling in ID and TS when unset.
func (j Journal) Append(ctx context.Context, ev model.Event) (model.Event, error) {
	if strings.TrimSpace(ev.ID) == "" {
		ev.ID = uuid.NewString()
	}
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	if ev.EntityIDs == nil {
		ev.EntityIDs = []string{}
	}
	idsJSON, err := json.Marshal(ev.EntityIDs)
	if err != nil {
		return model.Event{}, err
	}
	payloadJSON, err := json.Marshal(ev.Payload)
	if err != nil {
		return model.Event{}, err
	}

	db, err := j.open(ctx)
	if err != nil {
		return model.Event{}, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return model.Event{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO drops(event_id, session_id, kind, status, entity_ids_json, payload_json, issued_at_unixms)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.SessionID, ev.Kind, ev.Status, string(idsJSON), string(payloadJSON), ev.TS.UnixMilli()); err != nil {
		return model.Event{}, err
	}
	for _, id := range ev.EntityIDs {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO drop_entities(event_id, entity_id) VALUES(?, ?)`, ev.ID, id); err != nil {
			return model.Event{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// Tail returns the last n events, oldest first. n <= 0 returns everything.
func (j Journal) Tail(ctx context.Context, n int) ([]model.Event, error) {
	db, err := j.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, session_id, kind, status, entity_ids_json, payload_json, issued_at_unixms
		FROM drops ORDER BY issued_at_unixms DESC, rowid DESC`
	var rows *sql.Rows
	if n > 0 {
		rows, err = db.QueryContext(ctx, q+` LIMIT ?`, n)
	} else {
		rows, err = db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	evs, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	for i, k := 0, len(evs)-1; i < k; i, k = i+1, k-1 {
		evs[i], evs[k] = evs[k], evs[i]
	}
	return evs, nil
}

// ForEntity returns the events touching entityID, oldest first.
func (j Journal) ForEntity(ctx context.Context, entityID string) ([]model.Event, error) {
	db, err := j.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT d.event_id, d.session_id, d.kind, d.status, d.entity_ids_json, d.payload_json, d.issued_at_unixms
		FROM drops d JOIN drop_entities e ON e.event_id = d.event_id
		WHERE e.entity_id = ?
		ORDER BY d.issued_at_unixms ASC, d.rowid ASC`, strings.TrimSpace(entityID))
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	defer rows.Close()
	var out []model.Event
	for rows.Next() {
		var (
			ev          model.Event
			idsJSON     string
			payloadJSON string
			ms          int64
		)
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Kind, &ev.Status, &idsJSON, &payloadJSON, &ms); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(idsJSON), &ev.EntityIDs); err != nil {
			return nil, err
		}
		var payload any
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			return nil, err
		}
		ev.Payload = payload
		ev.TS = time.UnixMilli(ms).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}
