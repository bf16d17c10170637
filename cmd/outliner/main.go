package main

import (
	"os"
	"path/filepath"
	"strings"

	"outliner-cli/internal/cli"
)

func isSceneFile(s string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(s))) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// rewriteSceneArg makes `outliner <scene-file>` open the TUI on that file. Cobra treats the
// first positional token as a subcommand, so argv is rewritten before parsing. Persistent
// flags may come first (`outliner --dir x scene.json`), so the first positional is searched.
func rewriteSceneArg(argv []string) []string {
	valueFlags := map[string]bool{
		"--config":          true,
		"--dir":             true,
		"--scene":           true,
		"--mode":            true,
		"--sort":            true,
		"--width":           true,
		"--row-height":      true,
		"--log-level":       true,
		"--journal-backend": true,
		"--format":          true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "" || strings.Contains(a, "="):
			continue
		case a == "--":
			return argv
		case strings.HasPrefix(a, "-"):
			if valueFlags[a] {
				i++
			}
			continue
		}
		if !isSceneFile(a) {
			return argv
		}
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "--scene", a, "tui")
		return append(out, argv[i+1:]...)
	}
	return argv
}

func main() {
	os.Args = rewriteSceneArg(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
