package gitrepo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"outliner-cli/internal/model"
)

// DebouncedCommitter batches drops made in quick succession (the TUI) into one commit.
type DebouncedCommitter struct {
	files    []string
	debounce time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	events  []model.Event
	running bool

	// commit is CommitFiles; tests replace it.
	commit func(ctx context.Context, files []string, message string) (bool, error)
}

func NewDebouncedCommitter(files []string, debounce time.Duration, log *slog.Logger) *DebouncedCommitter {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &DebouncedCommitter{files: files, debounce: debounce, log: log, commit: CommitFiles}
}

// Notify schedules a commit covering events.
func (d *DebouncedCommitter) Notify(events []model.Event) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, events...)
	if d.timer == nil {
		d.timer = time.AfterFunc(d.debounce, d.onTimer)
		return
	}
	d.timer.Reset(d.debounce)
}

// Flush commits pending drops now; used on exit.
func (d *DebouncedCommitter) Flush() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.onTimer()
}

func (d *DebouncedCommitter) onTimer() {
	d.mu.Lock()
	if d.running {
		if d.timer != nil {
			d.timer.Reset(d.debounce)
		}
		d.mu.Unlock()
		return
	}
	if len(d.events) == 0 {
		d.mu.Unlock()
		return
	}
	events := d.events
	d.events = nil
	d.running = true
	d.mu.Unlock()

	committed, err := d.commit(context.Background(), d.files, DropMessage(events))
	if err != nil {
		d.log.Warn("scene commit failed", "err", err)
	} else if committed {
		d.log.Debug("scene committed", "drops", len(events))
	}

	d.mu.Lock()
	d.running = false
	if len(d.events) > 0 && d.timer != nil {
		d.timer.Reset(d.debounce)
	}
	d.mu.Unlock()
}
