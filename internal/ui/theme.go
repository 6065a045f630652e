package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the console's color palette.
type Theme struct {
	Name string

	Background string
	Surface    string

	SelectionBg   string
	SelectionText string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string

	// Meter gradient thresholds, low to high.
	MeterLow  string
	MeterMid  string
	MeterHigh string
}

// Broadcast is the default dark studio theme.
var Broadcast = Theme{
	Name:          "Broadcast",
	Background:    "#0b0e14",
	Surface:       "#151a23",
	SelectionBg:   "#2d4f67",
	SelectionText: "#dcd7ba",
	Text:          "#c8d3f5",
	Muted:         "#828bb8",
	Faint:         "#444a73",
	Accent:        "#82aaff",
	Success:       "#c3e88d",
	Warning:       "#ffc777",
	Danger:        "#ff757f",
	MeterLow:      "#c3e88d",
	MeterMid:      "#ffc777",
	MeterHigh:     "#ff757f",
}

// Daylight is a high-contrast light alternative for bright control rooms.
var Daylight = Theme{
	Name:          "Daylight",
	Background:    "#fafafa",
	Surface:       "#e8e8e8",
	SelectionBg:   "#bcd9ea",
	SelectionText: "#1a1a1a",
	Text:          "#2e3440",
	Muted:         "#6b7089",
	Faint:         "#a8adc4",
	Accent:        "#2a6dbf",
	Success:       "#3f7d2c",
	Warning:       "#b8860b",
	Danger:        "#bf2a3f",
	MeterLow:      "#3f7d2c",
	MeterMid:      "#b8860b",
	MeterHigh:     "#bf2a3f",
}

var themes = []Theme{Broadcast, Daylight}

// ThemeByName returns the named theme, falling back to Broadcast.
func ThemeByName(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return Broadcast
}

// Styles contains the pre-built lipgloss styles for a theme.
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	Text    lipgloss.Style
	Muted   lipgloss.Style
	Faint   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style

	Selected lipgloss.Style
	Flash    lipgloss.Style
	Locked   lipgloss.Style
	Playing  lipgloss.Style

	BadgeLive    lipgloss.Style
	BadgeStale   lipgloss.Style
	BadgeOffline lipgloss.Style

	MeterLow  lipgloss.Style
	MeterMid  lipgloss.Style
	MeterHigh lipgloss.Style
}

// Styles builds the lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	badge := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(c)).
			Foreground(lipgloss.Color(t.Background)).
			Bold(true).
			Padding(0, 1)
	}
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Text:    fg(t.Text),
		Muted:   fg(t.Muted),
		Faint:   fg(t.Faint),
		Accent:  fg(t.Accent),
		Success: fg(t.Success).Bold(true),
		Warning: fg(t.Warning),
		Danger:  fg(t.Danger).Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Flash: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		Locked:  fg(t.Faint),
		Playing: fg(t.Success).Bold(true),

		BadgeLive:    badge(t.Success),
		BadgeStale:   badge(t.Warning),
		BadgeOffline: badge(t.Danger),

		MeterLow:  fg(t.MeterLow),
		MeterMid:  fg(t.MeterMid),
		MeterHigh: fg(t.MeterHigh),
	}
}
