// Package tui is the interactive terminal board: keyboard drag and drop,
// the per-card quick-action menu and its prompts, toasts and view switching.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pbaille/dealflow/internal/actions"
	"github.com/pbaille/dealflow/internal/board"
	"github.com/pbaille/dealflow/internal/domain"
	"github.com/pbaille/dealflow/internal/drag"
	"github.com/pbaille/dealflow/internal/pipeline"
	"github.com/pbaille/dealflow/internal/render"
)

// refreshInterval is how often the view picks up timer-driven changes
const refreshInterval = 200 * time.Millisecond

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the board program state. Board data lives in the session; the
// model only tracks the cursor and the open menu.
type Model struct {
	session *pipeline.Session
	styles  render.Styles
	log     *zap.Logger

	mode   render.ViewMode
	width  int
	height int

	// Cursor
	col int
	row int

	// Quick-action menu
	menuIdx int

	// Prompt answering
	input textinput.Model

	status   string
	quitting bool
}

// New creates the board model for session
func New(session *pipeline.Session, mode render.ViewMode, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50

	return Model{
		session: session,
		styles:  render.DefaultStyles(),
		log:     log,
		mode:    mode,
		input:   ti,
	}
}

// Init starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		m.clampCursor()
		return m, tickCmd()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if prompt, _, ok := m.session.Dispatcher().Pending(); ok {
			return m.updatePrompt(msg, prompt)
		}
		if _, ok := m.session.Dispatcher().MenuOpenFor(); ok {
			return m.updateMenu(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dragger := m.session.Drag()
	_, dragging := dragger.Active()
	cols := m.session.Snapshot().Columns

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		m.shiftColumn(-1, cols, dragger, dragging)
	case "right", "l":
		m.shiftColumn(1, cols, dragger, dragging)
	case "up", "k":
		if !dragging && m.row > 0 {
			m.row--
		}
	case "down", "j":
		if !dragging {
			m.row++
		}
	case " ", "enter":
		if dragging {
			m.drop(cols, dragger)
		} else {
			m.grab(cols, dragger)
		}
	case "esc":
		if dragging {
			dragger.Cancel()
			m.status = "Drag cancelled"
		}
	case "m", ".":
		if dragging {
			break
		}
		if st, ok := m.selected(cols); ok {
			if err := m.session.Dispatcher().OpenMenu(st.ID); err != nil {
				m.status = err.Error()
				break
			}
			m.menuIdx = 0
			m.status = ""
		}
	case "v":
		m.mode = m.mode.Next()
	case "x":
		m.session.DismissToast()
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) shiftColumn(delta int, cols []board.ColumnSnapshot, dragger *drag.Controller, dragging bool) {
	next := m.col + delta
	if next < 0 || next >= len(cols) {
		return
	}
	m.col = next
	if dragging {
		dragger.Hover(cols[next].ID)
	}
}

func (m *Model) grab(cols []board.ColumnSnapshot, dragger *drag.Controller) {
	st, ok := m.selected(cols)
	if !ok {
		return
	}
	if err := dragger.Begin(drag.Payload{StartupID: st.ID, FromColumn: cols[m.col].ID}); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("Moving %s: ←/→ to pick a column, space to drop, esc to cancel", st.Name)
}

func (m *Model) drop(cols []board.ColumnSnapshot, dragger *drag.Controller) {
	target := cols[m.col].ID
	moved, err := dragger.Drop(target)
	switch {
	case err != nil:
		m.status = err.Error()
		m.log.Warn("drop failed", zap.Error(err))
	case moved:
		m.status = ""
		if c, ok := m.session.Snapshot().Column(target); ok {
			m.row = c.Count - 1
		}
	default:
		m.status = "Dropped back in place"
	}
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.session.Dispatcher()
	all := actions.All()

	switch msg.String() {
	case "up", "k":
		if m.menuIdx > 0 {
			m.menuIdx--
		}
	case "down", "j":
		if m.menuIdx < len(all)-1 {
			m.menuIdx++
		}
	case "esc", "m", ".":
		d.CloseMenu()
	case "q":
		d.CloseMenu()
		m.quitting = true
		return m, tea.Quit
	case "enter", " ":
		id, _ := d.MenuOpenFor()
		t, ok := m.session.Target(id)
		if !ok {
			d.CloseMenu()
			break
		}
		prompt, err := d.Select(all[m.menuIdx], t)
		if err != nil {
			d.CloseMenu()
			m.status = err.Error()
			break
		}
		if prompt.Kind == actions.PromptInput {
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg, prompt actions.Prompt) (tea.Model, tea.Cmd) {
	d := m.session.Dispatcher()

	if prompt.Kind == actions.PromptConfirm {
		switch strings.ToLower(msg.String()) {
		case "y", "enter":
			m.answer(d, true, "")
		case "n", "esc":
			m.answer(d, false, "")
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		text := m.input.Value()
		m.input.Blur()
		m.answer(d, true, text)
		return m, nil
	case "esc":
		m.input.Blur()
		m.answer(d, false, "")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) answer(d *actions.Dispatcher, confirmed bool, text string) {
	outcome, err := d.Answer(confirmed, text)
	switch {
	case errors.Is(err, actions.ErrNoPrompt):
	case err != nil:
		m.status = err.Error()
		m.log.Warn("action failed", zap.Error(err))
	case outcome == actions.OutcomeCancelled:
		m.status = "Cancelled"
	default:
		m.status = ""
	}
	m.clampCursor()
}

// selected returns the startup under the cursor
func (m Model) selected(cols []board.ColumnSnapshot) (domain.Startup, bool) {
	if m.col >= len(cols) {
		return domain.Startup{}, false
	}
	cards := cols[m.col].Startups
	if m.row < 0 || m.row >= len(cards) {
		return domain.Startup{}, false
	}
	return cards[m.row], true
}

func (m *Model) clampCursor() {
	cols := m.session.Snapshot().Columns
	if m.col >= len(cols) {
		m.col = len(cols) - 1
	}
	if m.col < 0 {
		m.col = 0
	}
	if len(cols) == 0 {
		m.row = 0
		return
	}
	n := len(cols[m.col].Startups)
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// View renders the board with its overlays.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.session.Snapshot()
	d := m.session.Dispatcher()
	dragger := m.session.Drag()

	var hl render.Highlight
	if st, ok := m.selected(snap.Columns); ok {
		hl.Cursor = st.ID
	}
	if p, ok := dragger.Active(); ok {
		hl.Dragging = p.StartupID
		if col, ok := dragger.Hovered(); ok && dragger.IsOver(col) {
			hl.DropOver = col
		}
	}
	hl.MenuOpen, _ = d.MenuOpenFor()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Deal Flow Pipeline"))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %s view · %d active · %d archived", m.mode, len(snap.All()), len(snap.Archived))))
	b.WriteString("\n\n")
	b.WriteString(render.Board(snap, render.Options{Mode: m.mode, Width: m.width, Highlight: hl, Styles: &m.styles}))
	b.WriteString("\n")

	if overlay := m.overlay(d, snap); overlay != "" {
		b.WriteString(overlay)
		b.WriteString("\n")
	}
	if t, ok := m.session.Toast(); ok {
		b.WriteString(m.styles.Toast.Render(t.Message))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.styles.Muted.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render(m.help(d, dragger)))
	return b.String()
}

func (m Model) overlay(d *actions.Dispatcher, snap board.Snapshot) string {
	if job, ok := d.Processing(); ok {
		return m.styles.Modal.Render(fmt.Sprintf("⏳ %s\n%s\nProcessing...", job.Action.Label(), job.StartupName))
	}
	if prompt, _, ok := d.Pending(); ok {
		body := prompt.Message
		if prompt.Kind == actions.PromptInput {
			body += "\n" + m.input.View()
		} else {
			body += "\n[y]es / [n]o"
		}
		return m.styles.Modal.Render(body)
	}
	if id, ok := d.MenuOpenFor(); ok {
		var name string
		for _, st := range snap.All() {
			if st.ID == id {
				name = st.Name
			}
		}
		lines := []string{m.styles.Bold.Render(name)}
		for i, a := range actions.All() {
			label := a.Label()
			if a.Destructive() {
				label = lipgloss.NewStyle().Foreground(render.Destructive).Render(label)
			}
			if i == m.menuIdx {
				label = "› " + label
			} else {
				label = "  " + label
			}
			lines = append(lines, label)
		}
		return m.styles.Modal.Render(strings.Join(lines, "\n"))
	}
	return ""
}

func (m Model) help(d *actions.Dispatcher, dragger *drag.Controller) string {
	if _, ok := dragger.Active(); ok {
		return "←/→ column · space drop · esc cancel"
	}
	switch d.Phase() {
	case actions.MenuOpen:
		return "↑/↓ choose · enter select · esc close"
	case actions.Prompting:
		return "enter confirm · esc cancel"
	}
	return "←/→/↑/↓ move · space grab · m actions · v view · x dismiss · q quit"
}
