package ui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used across the views.
type Styles struct {
	Logo       lipgloss.Style
	Header     lipgloss.Style
	Muted      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Danger     lipgloss.Style
	Selected   lipgloss.Style
	FieldLabel lipgloss.Style
	FieldError lipgloss.Style
	Chip       lipgloss.Style
	Modal      lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")),
		FieldLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(14),
		FieldError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),
		Chip: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Italic(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(1, 2),
	}
}
