package board

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lumonlabs/refinery/internal/ports"
)

// Theme overrides the built-in palette. Only honored on true-color
// clients; paler terminals keep the fixed fallback colors.
type Theme struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Accent     string `toml:"accent"`
}

const (
	defaultBackground = "#121d38"
	defaultForeground = "#587a94"
	defaultAccent     = "#d3e0ea"
)

// DefaultTheme is the stock navy palette.
func DefaultTheme() Theme {
	return Theme{
		Background: defaultBackground,
		Foreground: defaultForeground,
		Accent:     defaultAccent,
	}
}

type styles struct {
	base     lipgloss.Style
	bright   lipgloss.Style
	flash    lipgloss.Style
	spinner  lipgloss.Style
	titleBox lipgloss.Style
}

// newStyles builds all session styles on a private renderer pinned to the
// client's negotiated color profile. The server process's own stdout must
// never influence how a remote frame degrades.
func newStyles(mode ports.ColorMode, th Theme) styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profileFor(mode))

	bg, fg, accent := palette(mode, th)

	base := r.NewStyle().Foreground(fg).Background(bg)
	bright := r.NewStyle().Foreground(accent).Background(bg)

	return styles{
		base:     base,
		bright:   bright,
		flash:    r.NewStyle().Foreground(bg).Background(fg),
		spinner:  bright,
		titleBox: base.Border(lipgloss.NormalBorder()).BorderForeground(fg).BorderBackground(bg),
	}
}

func profileFor(mode ports.ColorMode) termenv.Profile {
	switch mode {
	case ports.ColorTrue:
		return termenv.TrueColor
	case ports.Color256:
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}

func palette(mode ports.ColorMode, th Theme) (bg, fg, accent lipgloss.Color) {
	switch mode {
	case ports.ColorTrue:
		bg, fg, accent = lipgloss.Color(defaultBackground), lipgloss.Color(defaultForeground), lipgloss.Color(defaultAccent)
		if th.Background != "" {
			bg = lipgloss.Color(th.Background)
		}
		if th.Foreground != "" {
			fg = lipgloss.Color(th.Foreground)
		}
		if th.Accent != "" {
			accent = lipgloss.Color(th.Accent)
		}
	case ports.Color256:
		bg, fg, accent = lipgloss.Color("17"), lipgloss.Color("66"), lipgloss.Color("254")
	default:
		bg, fg, accent = lipgloss.Color("4"), lipgloss.Color("6"), lipgloss.Color("7")
	}
	return bg, fg, accent
}
