// Package tui renders the chat transcript, action cards and suggestion
// chips as an interactive terminal session.
package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the color scheme for the chat display.
type Theme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Hint      lipgloss.Color
	CardEdge  lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	User:      lipgloss.Color("#5FAFD7"), // light blue
	Assistant: lipgloss.Color("#D7D7D7"), // light gray
	Accent:    lipgloss.Color("#AF87FF"), // violet
	Success:   lipgloss.Color("#00D787"), // green
	Error:     lipgloss.Color("#FF005F"), // red
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
	CardEdge:  lipgloss.Color("#3A3A3A"), // dark gray
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant)
}

func (t Theme) accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) cardStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.CardEdge).
		Padding(0, 1)
}

func (t Theme) selectedCardStyle() lipgloss.Style {
	return t.cardStyle().BorderForeground(t.Accent)
}

func (t Theme) chipStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Accent).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.CardEdge).
		Padding(0, 1)
}

func (t Theme) selectedChipStyle() lipgloss.Style {
	return t.chipStyle().BorderForeground(t.Accent).Bold(true)
}
