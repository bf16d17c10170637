package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CommitFiles commits exactly the given files (those that exist) with message, leaving
// anything else the user has staged alone. committed is false outside a repo or when the
// files are unchanged.
func CommitFiles(ctx context.Context, files []string, message string) (committed bool, err error) {
	if len(files) == 0 {
		return false, nil
	}
	dir := filepath.Dir(filepath.Clean(files[0]))

	st, err := GetStatus(ctx, dir)
	if err != nil {
		return false, err
	}
	if !st.IsRepo {
		return false, nil
	}
	if !st.CanCommit() {
		return false, errors.New("git repo has an in-progress merge/rebase; resolve first")
	}

	rels, err := relPaths(st.Root, files)
	if err != nil {
		return false, err
	}
	if len(rels) == 0 {
		return false, nil
	}

	if _, err := git(ctx, st.Root, append([]string{"add", "--"}, rels...)...); err != nil {
		return false, err
	}
	out, err := git(ctx, st.Root, append([]string{"diff", "--cached", "--name-only", "--"}, rels...)...)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(out) == "" {
		return false, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = "outliner: update (" + time.Now().UTC().Format(time.RFC3339) + ")"
	}
	if _, err := git(ctx, st.Root, append([]string{"commit", "-m", msg, "--only", "--"}, rels...)...); err != nil {
		return false, err
	}
	return true, nil
}

// relPaths makes existing files relative to the repo root. Temp dirs on macOS sit behind
// /var -> /private/var, and git reports the resolved root, so both sides are resolved.
func relPaths(root string, files []string) ([]string, error) {
	if v, err := filepath.EvalSymlinks(root); err == nil {
		root = v
	}
	var out []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		if v, err := filepath.EvalSymlinks(abs); err == nil {
			abs = v
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(rel, "..") {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out, nil
}
