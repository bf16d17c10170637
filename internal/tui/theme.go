package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"outliner-cli/internal/outline"
)

// The outliner must stay readable on light and dark backgrounds: colors are adaptive and
// faint text is only used on dark terminals.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg   lipgloss.TerminalColor = ac("255", "235")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorWarn       lipgloss.TerminalColor = ac("160", "203")
	colorLinked     lipgloss.TerminalColor = ac("30", "73")
)

type styles struct {
	title    lipgloss.Style
	row      lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	target   lipgloss.Style
	insert   lipgloss.Style
	linked   lipgloss.Style
	status   lipgloss.Style
	warn     lipgloss.Style
	muted    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		row:      lipgloss.NewStyle(),
		cursor:   lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg),
		selected: lipgloss.NewStyle().Bold(true),
		target:   lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg),
		insert:   lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		linked:   lipgloss.NewStyle().Foreground(colorLinked),
		status:   faintIfDark(lipgloss.NewStyle().Foreground(colorMuted)),
		warn:     lipgloss.NewStyle().Foreground(colorWarn),
		muted:    faintIfDark(lipgloss.NewStyle().Foreground(colorMuted)),
	}
}

var kindIcons = map[outline.ElemKind]string{
	outline.ElemScene:          "◇",
	outline.ElemCollection:     "▤",
	outline.ElemObject:         "○",
	outline.ElemMaterial:       "◐",
	outline.ElemModifierBase:   "~",
	outline.ElemModifier:       "~",
	outline.ElemConstraintBase: "⊸",
	outline.ElemConstraint:     "⊸",
	outline.ElemEffectBase:     "*",
	outline.ElemEffect:         "*",
	outline.ElemPoseBase:       "ψ",
	outline.ElemPoseChannel:    "¦",
}

func kindIcon(k outline.ElemKind) string {
	if s, ok := kindIcons[k]; ok {
		return s
	}
	return "?"
}

// applyColorProfilePreference only honors NO_COLOR and otherwise follows the terminal;
// termenv.EnvColorProfile would also honor CLICOLOR, which can disable colors in a TUI.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color") && profile == termenv.ANSI:
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference: OUTLINER_TUI_THEME=light|dark overrides background detection.
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("OUTLINER_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}
}
