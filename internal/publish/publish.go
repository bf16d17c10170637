package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

type WriteOptions struct {
	RenderOptions
	HTML      bool
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteScene writes <scene-id>.md (and .html) into toDir.
func WriteScene(db *store.DB, tr *outline.Tree, toDir string, opt WriteOptions) (WriteResult, error) {
	if db == nil {
		return WriteResult{}, errors.New("missing db")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md, err := RenderSceneMarkdown(db, tr, opt.RenderOptions)
	if err != nil {
		return WriteResult{}, err
	}
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	base := filepath.Join(toDir, db.ActiveSceneID)
	mdPath := base + ".md"
	if err := writeFile(mdPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	written := []string{mdPath}

	if opt.HTML {
		title := db.ActiveSceneID
		if sc, ok := db.ActiveScene(); ok {
			title = sc.Name
		}
		page, err := RenderHTML(title, md)
		if err != nil {
			return WriteResult{}, err
		}
		htmlPath := base + ".html"
		if err := writeFile(htmlPath, page, opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, htmlPath)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
