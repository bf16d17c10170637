package docs

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

var (
	rendererMu sync.Mutex
	// Cache renderers by style + wrap width. Fixed styles avoid the terminal background
	// query WithAutoStyle makes, which can block on some terminals.
	renderers = map[string]*glamour.TermRenderer{}
)

// Style picks the markdown style: OUTLINER_MD_STYLE (dark|light|notty) or dark.
func Style() string {
	switch s := strings.ToLower(strings.TrimSpace(os.Getenv("OUTLINER_MD_STYLE"))); s {
	case styles.LightStyle, styles.NoTTYStyle, styles.DarkStyle:
		return s
	}
	return styles.DarkStyle
}

func styleConfig(name string) ansi.StyleConfig {
	switch name {
	case styles.LightStyle:
		return styles.LightStyleConfig
	case styles.NoTTYStyle:
		return styles.NoTTYStyleConfig
	default:
		return styles.DarkStyleConfig
	}
}

// Render renders markdown for a terminal of the given width. On failure it returns the
// markdown unchanged.
func Render(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	if style == "" {
		style = Style()
	}

	key := style + ":" + strconv.Itoa(width)
	rendererMu.Lock()
	r := renderers[key]
	rendererMu.Unlock()

	if r == nil {
		cfg := styleConfig(style)
		zero := uint(0)
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		rendererMu.Lock()
		// Re-check in case a concurrent caller filled it.
		if existing := renderers[key]; existing != nil {
			r = existing
		} else {
			renderers[key] = rr
			r = rr
		}
		rendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
