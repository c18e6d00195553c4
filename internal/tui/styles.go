package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the entry screen.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Help    lipgloss.Style
	Info    lipgloss.Style
	Error   lipgloss.Style
	Box     lipgloss.Style
}

// DefaultStyles returns the default entry screen styles.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1),
		Label:   lipgloss.NewStyle().Width(12),
		Focused: lipgloss.NewStyle().Width(12).Bold(true).Foreground(lipgloss.Color("205")),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1),
		Box: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")),
	}
}
