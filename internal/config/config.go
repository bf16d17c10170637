// Package config loads outliner settings from defaults, an optional outliner.yaml, the
// environment and command-line flags.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

const (
	EnvPrefix      = "OUTLINER_"
	DefaultScene   = "scene.json"
	DefaultLevel   = "warn"
	DefaultFormat  = "json"
	DefaultBackups = 10
)

var configFileNames = []string{"outliner.yaml", "outliner.yml"}

type ViewConfig struct {
	Mode           string  `koanf:"mode" json:"mode"`
	Sort           string  `koanf:"sort" json:"sort"`
	RowHeight      float64 `koanf:"row_height" json:"rowHeight"`
	UnitX          float64 `koanf:"unit_x" json:"unitX"`
	Indent         float64 `koanf:"indent" json:"indent"`
	Width          float64 `koanf:"width" json:"width"`
	ObjectChildren bool    `koanf:"object_children" json:"objectChildren"`
}

type JournalConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled"`
	Backend string `koanf:"backend" json:"backend"`
}

type BackupConfig struct {
	Enabled bool `koanf:"enabled" json:"enabled"`
	Keep    int  `koanf:"keep" json:"keep"`
}

// GitConfig: with AutoCommit on, every saved drop is committed when the scene lives in
// a git work tree.
type GitConfig struct {
	AutoCommit bool `koanf:"autocommit" json:"autocommit"`
}

type Config struct {
	Scene    string        `koanf:"scene" json:"scene"`
	Format   string        `koanf:"format" json:"format"`
	LogLevel string        `koanf:"log_level" json:"logLevel"`
	View     ViewConfig    `koanf:"view" json:"view"`
	Journal  JournalConfig `koanf:"journal" json:"journal"`
	Backup   BackupConfig  `koanf:"backup" json:"backup"`
	Git      GitConfig     `koanf:"git" json:"git"`

	// File is the config file that was read, if any.
	File string `koanf:"-" json:"file,omitempty"`
}

func defaults() map[string]any {
	v := outline.DefaultView()
	return map[string]any{
		"scene":                "",
		"format":               DefaultFormat,
		"log_level":            DefaultLevel,
		"view.mode":            string(v.Mode),
		"view.sort":            string(v.Sort),
		"view.row_height":      v.RowHeight,
		"view.unit_x":          v.UnitX,
		"view.indent":          v.Indent,
		"view.width":           v.Width,
		"view.object_children": v.ObjectChildren,
		"journal.enabled":      true,
		"journal.backend":      string(store.JournalBackendAuto),
		"backup.enabled":       false,
		"backup.keep":          DefaultBackups,
		"git.autocommit":       false,
	}
}

// flagKeys maps flags whose names don't follow the key layout.
var flagKeys = map[string]string{
	"mode":            "view.mode",
	"sort":            "view.sort",
	"width":           "view.width",
	"row-height":      "view.row_height",
	"journal":         "journal.enabled",
	"journal-backend": "journal.backend",
	"backup":          "backup.enabled",
	"autocommit":      "git.autocommit",
}

// findConfigFile: explicit path, then outliner.yaml/yml in dir.
func findConfigFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads configuration. Precedence (highest first): flags, OUTLINER_* env vars, the
// config file, defaults. Only flags the user set count. dir is where outliner.yaml is
// looked up when cfgFile is empty; a relative scene path in the file resolves against
// the file's directory.
func Load(cfgFile, dir string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile, dir)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
		if s := k.String("scene"); s != "" && !filepath.IsAbs(s) {
			if err := k.Set("scene", filepath.Join(filepath.Dir(used), s)); err != nil {
				return nil, err
			}
		}
	}

	// OUTLINER_VIEW__ROW_HEIGHT -> view.row_height; a double underscore separates levels.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if cfg.Scene == "" {
		cfg.Scene = filepath.Join(dir, DefaultScene)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch outline.ViewMode(c.View.Mode) {
	case outline.ViewLayerMode, outline.ScenesMode:
	default:
		return fmt.Errorf("invalid view.mode %q (want view_layer|scenes)", c.View.Mode)
	}
	switch outline.SortMode(c.View.Sort) {
	case outline.SortFree, outline.SortAlpha:
	default:
		return fmt.Errorf("invalid view.sort %q (want free|alpha)", c.View.Sort)
	}
	if c.View.RowHeight <= 0 || c.View.UnitX <= 0 || c.View.Width <= 0 || c.View.Indent < 0 {
		return fmt.Errorf("view dimensions must be positive")
	}
	switch c.Format {
	case "json", "edn", "yaml":
	default:
		return fmt.Errorf("invalid format %q (want json|edn|yaml)", c.Format)
	}
	if _, err := store.ParseJournalBackend(c.Journal.Backend); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// OutlineView is the tree geometry and display options, without per-row state.
func (c *Config) OutlineView() outline.View {
	return outline.View{
		Mode:           outline.ViewMode(c.View.Mode),
		Sort:           outline.SortMode(c.View.Sort),
		RowHeight:      c.View.RowHeight,
		UnitX:          c.View.UnitX,
		Indent:         c.View.Indent,
		Width:          c.View.Width,
		ObjectChildren: c.View.ObjectChildren,
	}
}

func (c *Config) JournalBackend() store.JournalBackend {
	b, _ := store.ParseJournalBackend(c.Journal.Backend)
	return b
}

func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return l, nil
}

// Logger returns a text logger at the configured level writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
