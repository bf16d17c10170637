package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupDirName = "backups"

func (s Store) backupDir() string {
	return filepath.Join(filepath.Dir(s.ScenePath()), backupDirName)
}

// Backup copies the current scene file into the backups directory and returns the copy's
// path. A scene that was never saved has nothing to back up and returns "".
func (s Store) Backup(now time.Time) (string, error) {
	src := s.ScenePath()
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	name := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(base, ext), now.UTC().Format("20060102T150405.000"), ext)
	dest := filepath.Join(s.backupDir(), name)
	if err := CopyFile(src, dest); err != nil {
		return "", fmt.Errorf("backup %s: %w", src, err)
	}
	return dest, nil
}

// Backups lists backup files, oldest first.
func (s Store) Backups() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	out := []string{}
	for _, ent := range entries {
		if ent.IsDir() || strings.HasPrefix(ent.Name(), ".") {
			continue
		}
		out = append(out, filepath.Join(s.backupDir(), ent.Name()))
	}
	// Names embed a sortable timestamp.
	sort.Strings(out)
	return out, nil
}

// PruneBackups keeps the newest keep backups. keep <= 0 keeps everything.
func (s Store) PruneBackups(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	all, err := s.Backups()
	if err != nil {
		return 0, err
	}
	removed := 0
	for len(all) > keep {
		if err := os.Remove(all[0]); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
		all = all[1:]
		removed++
	}
	return removed, nil
}
