package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette shared by both satchel clients.
type Theme struct {
	Text    string
	Muted   string
	Accent  string
	Success string
	Danger  string
	Border  string
}

// DefaultTheme is a dark palette that reads well on common terminals.
func DefaultTheme() Theme {
	return Theme{
		Text:    "#e2e8f0", // Slate-200
		Muted:   "#64748b", // Slate-500
		Accent:  "#38bdf8", // Sky-400
		Success: "#4ade80", // Green-400
		Danger:  "#f87171", // Red-400
		Border:  "#334155", // Slate-700
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Danger   lipgloss.Style
	Title    lipgloss.Style
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Panel    lipgloss.Style
	Selected lipgloss.Style
	ErrorBox lipgloss.Style
}

// Styles builds the style set for the theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).Bold(true),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).Bold(true),
		ErrorBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Danger)).
			Foreground(lipgloss.Color(t.Danger)).
			Padding(0, 1),
	}
}
