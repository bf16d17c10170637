package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const viewStateFileName = "outliner_view.json"

// ViewState is the outliner display state kept next to the scene file so the tree
// reopens the way it was left. Loading is best effort: a missing or corrupt file yields
// the zero state.
type ViewState struct {
	Version int `json:"version"`

	// Mode is view_layer|scenes, Sort is free|alpha.
	Mode string `json:"mode,omitempty"`
	Sort string `json:"sort,omitempty"`

	// Closed and Selected hold row keys.
	Closed   []string `json:"closed,omitempty"`
	Selected []string `json:"selected,omitempty"`

	// Cursor is the key of the row the TUI cursor was on.
	Cursor string `json:"cursor,omitempty"`
}

func (s Store) viewStatePath() string {
	return filepath.Join(filepath.Dir(s.ScenePath()), viewStateFileName)
}

func (s Store) LoadViewState() (*ViewState, error) {
	b, err := os.ReadFile(s.viewStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ViewState{Version: 1}, nil
		}
		return nil, err
	}
	var st ViewState
	if err := json.Unmarshal(b, &st); err != nil {
		return &ViewState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveViewState(st *ViewState) error {
	if st == nil {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := s.viewStatePath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, ".outliner-view-*.tmp", path, b, 0o644)
}
