package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	accent  lipgloss.Color
	border  lipgloss.Color
	pulse   lipgloss.Color
	target  lipgloss.Color
	success lipgloss.Color
}

var (
	lightPalette = palette{
		text:    lipgloss.Color("#F0F0F0"),
		muted:   lipgloss.Color("#B8B8B8"),
		accent:  lipgloss.Color("#FACC15"),
		border:  lipgloss.Color("#7C6CF2"),
		pulse:   lipgloss.Color("#60A5FA"),
		target:  lipgloss.Color("#DC2626"),
		success: lipgloss.Color("#22C55E"),
	}
	darkPalette = palette{
		text:    lipgloss.Color("#D0D0D0"),
		muted:   lipgloss.Color("#6E6E6E"),
		accent:  lipgloss.Color("#C89A3A"),
		border:  lipgloss.Color("#4A4A4A"),
		pulse:   lipgloss.Color("#8C8C8C"),
		target:  lipgloss.Color("#991B1B"),
		success: lipgloss.Color("#15803D"),
	}
)

type styles struct {
	title   lipgloss.Style
	menu    lipgloss.Style
	status  lipgloss.Style
	banner  lipgloss.Style
	arena   lipgloss.Style
	pulse   lipgloss.Style
	target  lipgloss.Style
	button  lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	menuBox lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, p palette) styles {
	return styles{
		title:   r.NewStyle().Foreground(p.muted),
		menu:    r.NewStyle().Foreground(p.accent).Bold(true),
		status:  r.NewStyle().Foreground(p.text).Bold(true),
		banner:  r.NewStyle().Foreground(p.text).Background(p.success).Padding(0, 2),
		arena:   r.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(p.border),
		pulse:   r.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(p.pulse),
		target:  r.NewStyle().Foreground(p.text).Background(p.target).Bold(true),
		button:  r.NewStyle().Foreground(lipgloss.Color("#111827")).Background(p.accent).Padding(0, 2).Bold(true),
		heading: r.NewStyle().Foreground(p.text).Bold(true),
		muted:   r.NewStyle().Foreground(p.muted),
		menuBox: r.NewStyle().
			Foreground(p.text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(p.accent),
	}
}
