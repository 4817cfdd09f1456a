// Package render draws the pipeline board as text: kanban columns, a table
// or a calendar of upcoming milestones.
package render

import "github.com/charmbracelet/lipgloss"

var (
	Muted       = lipgloss.Color("#9CA3AF")
	Accent      = lipgloss.Color("#6366F1")
	Success     = lipgloss.Color("#10B981")
	Warning     = lipgloss.Color("#F59E0B")
	Destructive = lipgloss.Color("#EF4444")
)

// Styles groups the lipgloss styles used by every view
type Styles struct {
	Title     lipgloss.Style
	Bold      lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Column    lipgloss.Style
	Card      lipgloss.Style
	Selected  lipgloss.Style
	Dragging  lipgloss.Style
	DropReady lipgloss.Style
	Toast     lipgloss.Style
	Modal     lipgloss.Style
}

// DefaultStyles returns the board palette
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Bold:      lipgloss.NewStyle().Bold(true),
		Body:      lipgloss.NewStyle(),
		Muted:     lipgloss.NewStyle().Foreground(Muted),
		Column:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Card:      lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(Muted).Padding(0, 1),
		Selected:  lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(Accent).Padding(0, 1),
		Dragging:  lipgloss.NewStyle().Border(lipgloss.HiddenBorder()).Foreground(Muted).Faint(true).Padding(0, 1),
		DropReady: lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(Success).Padding(0, 1),
		Toast:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(Success).Padding(0, 1),
		Modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Warning).Padding(0, 2),
	}
}
