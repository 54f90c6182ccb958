package theme

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/models"
)

// Styles is the full set of lipgloss styles for one theme
type Styles struct {
	Doc         lipgloss.Style
	Header      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Accent      lipgloss.Style
	Selected    lipgloss.Style
	Disabled    lipgloss.Style
	Danger      lipgloss.Style
	Warning     lipgloss.Style
	Success     lipgloss.Style
	Bar         lipgloss.Style
	Box         lipgloss.Style

	AccentColor lipgloss.Color
	Form        *huh.Theme
}

type palette struct {
	fg, muted, accent, accentBg, danger, warning, success, border lipgloss.Color
}

var (
	lightPalette = palette{
		fg:       lipgloss.Color("235"),
		muted:    lipgloss.Color("244"),
		accent:   lipgloss.Color("125"),
		accentBg: lipgloss.Color("254"),
		danger:   lipgloss.Color("160"),
		warning:  lipgloss.Color("166"),
		success:  lipgloss.Color("28"),
		border:   lipgloss.Color("250"),
	}
	darkPalette = palette{
		fg:       lipgloss.Color("252"),
		muted:    lipgloss.Color("240"),
		accent:   lipgloss.Color("205"),
		accentBg: lipgloss.Color("236"),
		danger:   lipgloss.Color("196"),
		warning:  lipgloss.Color("214"),
		success:  lipgloss.Color("42"),
		border:   lipgloss.Color("238"),
	}
)

// For returns the styles for t; unknown values get the light theme
func For(t models.Theme) Styles {
	p := lightPalette
	form := huh.ThemeBase16()
	if t.IsDark() {
		p = darkPalette
		form = huh.ThemeDracula()
	}

	return Styles{
		Doc:    lipgloss.NewStyle().Padding(1, 2),
		Header: lipgloss.NewStyle().Foreground(p.accent).Bold(true).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(p.accent).
			Background(p.accentBg).
			Padding(0, 1).
			Bold(true),
		InactiveTab: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),
		Title:    lipgloss.NewStyle().Foreground(p.fg).Bold(true),
		Subtle:   lipgloss.NewStyle().Foreground(p.muted),
		Accent:   lipgloss.NewStyle().Foreground(p.accent),
		Selected: lipgloss.NewStyle().Foreground(p.accent).Bold(true).Underline(true),
		Disabled: lipgloss.NewStyle().Foreground(p.border),
		Danger:   lipgloss.NewStyle().Foreground(p.danger).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(p.warning).Italic(true),
		Success:  lipgloss.NewStyle().Foreground(p.success),
		Bar:      lipgloss.NewStyle().Foreground(p.accent),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),

		AccentColor: p.accent,
		Form:        form,
	}
}
