package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"outliner-cli/internal/model"
)

// JSONLJournal is a line-per-event journal. It is easier to diff and commit than the
// sqlite one, at the cost of a full scan per query.
type JSONLJournal struct {
	Path string
}

func (j JSONLJournal) Append(ctx context.Context, ev model.Event) (model.Event, error) {
	if err := ctx.Err(); err != nil {
		return model.Event{}, err
	}
	path := strings.TrimSpace(j.Path)
	if path == "" {
		return model.Event{}, errors.New("missing journal path")
	}
	if strings.TrimSpace(ev.ID) == "" {
		ev.ID = uuid.NewString()
	}
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	if ev.EntityIDs == nil {
		ev.EntityIDs = []string{}
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return model.Event{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.Event{}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return model.Event{}, err
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		_ = f.Close()
		return model.Event{}, err
	}
	if err := f.Close(); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

func (j JSONLJournal) Tail(ctx context.Context, n int) ([]model.Event, error) {
	evs, err := j.readAll(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(evs) > n {
		evs = evs[len(evs)-n:]
	}
	return evs, nil
}

func (j JSONLJournal) ForEntity(ctx context.Context, entityID string) ([]model.Event, error) {
	evs, err := j.readAll(ctx)
	if err != nil {
		return nil, err
	}
	entityID = strings.TrimSpace(entityID)
	out := []model.Event{}
	for _, ev := range evs {
		if slices.Contains(ev.EntityIDs, entityID) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// readAll returns every event in file order. A missing file is an empty journal.
func (j JSONLJournal) readAll(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(j.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Event{}, nil
		}
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	out := []model.Event{}
	lineNo := 0
	for sc.Scan() {
		lineNo++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var ev model.Event
		if err := json.Unmarshal(b, &ev); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", j.Path, lineNo, err)
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
