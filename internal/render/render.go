package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pbaille/dealflow/internal/board"
	"github.com/pbaille/dealflow/internal/domain"
)

// ViewMode selects how the board is drawn
type ViewMode int

const (
	Kanban ViewMode = iota
	Table
	Calendar
	numViewModes
)

func (m ViewMode) String() string {
	switch m {
	case Table:
		return "table"
	case Calendar:
		return "calendar"
	}
	return "kanban"
}

// Next cycles to the following view mode
func (m ViewMode) Next() ViewMode {
	return (m + 1) % numViewModes
}

// ParseViewMode resolves a view name; empty means kanban
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(s) {
	case "", "kanban":
		return Kanban, nil
	case "table":
		return Table, nil
	case "calendar":
		return Calendar, nil
	}
	return Kanban, fmt.Errorf("unknown view %q", s)
}

// Highlight is the interaction state drawn on top of the board
type Highlight struct {
	Cursor   string
	Dragging string
	DropOver domain.ColumnID
	MenuOpen string
}

// Options control a render
type Options struct {
	Mode        ViewMode
	Width       int
	ColumnWidth int
	Highlight   Highlight
	Styles      *Styles
}

const defaultColumnWidth = 34

// Board draws snap in the requested view
func Board(snap board.Snapshot, opts Options) string {
	st := DefaultStyles()
	if opts.Styles != nil {
		st = *opts.Styles
	}
	switch opts.Mode {
	case Table:
		return tableView(snap, st)
	case Calendar:
		return calendarView(snap, st)
	}
	return kanbanView(snap, opts, st)
}

func kanbanView(snap board.Snapshot, opts Options, st Styles) string {
	width := opts.ColumnWidth
	if width <= 0 {
		width = defaultColumnWidth
		if opts.Width > 0 && len(snap.Columns) > 0 {
			if w := opts.Width/len(snap.Columns) - 1; w >= 20 && w < width {
				width = w
			}
		}
	}

	cols := make([]string, len(snap.Columns))
	for i, c := range snap.Columns {
		cols[i] = columnView(c, width, opts.Highlight, st)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func columnView(c board.ColumnSnapshot, width int, hl Highlight, st Styles) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Color)).
		Render(fmt.Sprintf("%s %s (%d)", c.Emoji, c.Title, c.Count))

	inner := width - 4
	parts := []string{header}
	if len(c.Startups) == 0 {
		parts = append(parts, st.Muted.Render("No deals"))
	}
	for _, s := range c.Startups {
		parts = append(parts, cardView(s, c.ID, inner, hl, st))
	}

	style := st.Column.BorderForeground(lipgloss.Color(c.Color))
	if hl.DropOver == c.ID {
		style = st.DropReady
	}
	return style.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func cardView(s domain.Startup, col domain.ColumnID, width int, hl Highlight, st Styles) string {
	title := fmt.Sprintf("%s %s", s.Logo, s.Name)
	if hl.MenuOpen == s.ID {
		title += " ⋯"
	}
	lines := []string{
		st.Bold.Render(truncate(title, width-4)),
		truncate(s.Pitch, width-4),
		fmt.Sprintf("%s for %.0f%% · %s", s.Ask, s.Equity, s.Stage),
		fmt.Sprintf("AI %d · %s%s", s.AIScore, s.Founder.Avatar, verifiedMark(s.Founder.Verified)),
	}

	switch col {
	case domain.ColumnUnderReview:
		if s.Progress != nil {
			lines = append(lines, progressBar(*s.Progress, 10)+fmt.Sprintf(" %d%%", *s.Progress))
		}
		if s.NextAction != "" {
			lines = append(lines, "Next: "+truncate(s.NextAction, width-10))
		}
	case domain.ColumnNegotiating:
		if s.LastActivity != "" {
			lines = append(lines, truncate(s.LastActivity, width-4))
		}
		if s.ExpectedClose != "" {
			lines = append(lines, "Close: "+s.ExpectedClose)
		}
	case domain.ColumnInvested:
		if s.InvestedAmount != "" {
			lines = append(lines, fmt.Sprintf("Invested %s on %s", s.InvestedAmount, s.InvestmentDate))
		}
	}
	lines = append(lines, st.Muted.Render(s.Added))

	style := st.Card
	switch {
	case hl.Dragging == s.ID:
		style = st.Dragging
	case hl.Cursor == s.ID:
		style = st.Selected
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func tableView(snap board.Snapshot, st Styles) string {
	headers := []string{"Startup", "Column", "Ask", "Equity", "AI", "Founder", "Added"}
	var rows [][]string
	for _, c := range snap.Columns {
		for _, s := range c.Startups {
			rows = append(rows, []string{
				s.Logo + " " + s.Name,
				c.Title,
				s.Ask,
				fmt.Sprintf("%.0f%%", s.Equity),
				fmt.Sprint(s.AIScore),
				s.Founder.Name + verifiedMark(s.Founder.Verified),
				s.Added,
			})
		}
	}
	if len(rows) == 0 {
		return st.Muted.Render("No deals in the pipeline")
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string, style lipgloss.Style) {
		for i, cell := range cells {
			sb.WriteString(style.Width(widths[i] + 2).Render(cell))
			if i < len(cells)-1 {
				sb.WriteString(st.Muted.Render("│"))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers, st.Bold.Padding(0, 1))
	total := len(widths) - 1
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(st.Muted.Render(strings.Repeat("─", total)))
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row, st.Body.Padding(0, 1))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func calendarView(snap board.Snapshot, st Styles) string {
	type entry struct{ when, what string }
	sections := []struct {
		title   string
		col     domain.ColumnID
		entries func(domain.Startup) (entry, bool)
	}{
		{"Next actions", domain.ColumnUnderReview, func(s domain.Startup) (entry, bool) {
			return entry{"this week", s.Name + ": " + s.NextAction}, s.NextAction != ""
		}},
		{"Expected closes", domain.ColumnNegotiating, func(s domain.Startup) (entry, bool) {
			return entry{s.ExpectedClose, s.Name + " (" + s.Ask + ")"}, s.ExpectedClose != ""
		}},
		{"Investments", domain.ColumnInvested, func(s domain.Startup) (entry, bool) {
			return entry{s.InvestmentDate, s.Name + " " + s.InvestedAmount}, s.InvestmentDate != ""
		}},
	}

	var blocks []string
	for _, sec := range sections {
		c, ok := snap.Column(sec.col)
		if !ok {
			continue
		}
		lines := []string{st.Title.Render(sec.title)}
		for _, s := range c.Startups {
			if e, ok := sec.entries(s); ok {
				lines = append(lines, fmt.Sprintf("  %-10s %s", e.when, e.what))
			}
		}
		if len(lines) == 1 {
			lines = append(lines, st.Muted.Render("  nothing scheduled"))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func progressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func verifiedMark(v bool) string {
	if v {
		return " ✓"
	}
	return ""
}

func truncate(s string, max int) string {
	if max <= 3 || lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+3 > max {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
