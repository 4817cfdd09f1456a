package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/pbaille/dealflow/internal/actions"
	"github.com/pbaille/dealflow/internal/domain"
	"github.com/pbaille/dealflow/internal/notify/notifytest"
	"github.com/pbaille/dealflow/internal/pipeline"
	"github.com/pbaille/dealflow/internal/render"
	"github.com/pbaille/dealflow/internal/seed"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newModel(t *testing.T) (Model, *pipeline.Session, *notifytest.FakeClock) {
	t.Helper()
	clock := notifytest.NewFakeClock()
	s, err := pipeline.New(seed.Default(), pipeline.Options{Clock: clock, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return New(s, render.Kanban, zaptest.NewLogger(t)), s, clock
}

func key(k string) tea.KeyMsg {
	switch k {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func ids(s *pipeline.Session, col domain.ColumnID) []string {
	c, _ := s.Snapshot().Column(col)
	out := make([]string, len(c.Startups))
	for i, st := range c.Startups {
		out[i] = st.ID
	}
	return out
}

func TestDragAcrossColumns(t *testing.T) {
	m, s, _ := newModel(t)

	m = press(t, m, "space")
	assert.True(t, s.Drag().IsDragging("1"))

	m = press(t, m, "right")
	hovered, ok := s.Drag().Hovered()
	require.True(t, ok)
	assert.Equal(t, domain.ColumnUnderReview, hovered)

	m = press(t, m, "space")
	review := ids(s, domain.ColumnUnderReview)
	assert.Equal(t, "1", review[len(review)-1])
	assert.NotContains(t, ids(s, domain.ColumnInterested), "1")
	assert.Contains(t, m.View(), "Moved to Under Review")

	// cursor follows the card into its new column
	assert.Equal(t, 1, m.col)
	assert.Equal(t, len(review)-1, m.row)
}

func TestDropOnSourceColumn(t *testing.T) {
	m, s, _ := newModel(t)
	before := ids(s, domain.ColumnInterested)

	m = press(t, m, "space", "right", "left", "space")
	assert.Equal(t, before, ids(s, domain.ColumnInterested))
	assert.Equal(t, "Dropped back in place", m.status)
	_, dragging := s.Drag().Active()
	assert.False(t, dragging)
}

func TestEscCancelsDrag(t *testing.T) {
	m, s, _ := newModel(t)

	m = press(t, m, "space", "right", "esc")
	_, dragging := s.Drag().Active()
	assert.False(t, dragging)
	assert.Contains(t, ids(s, domain.ColumnInterested), "1")
	assert.Equal(t, "Drag cancelled", m.status)
}

func TestMenuRunsNotes(t *testing.T) {
	m, s, clock := newModel(t)

	m = press(t, m, "down", "m")
	id, open := s.Dispatcher().MenuOpenFor()
	require.True(t, open)
	assert.Equal(t, "2", id)
	assert.Contains(t, m.View(), "Add Notes")

	// view, message, notes
	m = press(t, m, "down", "down", "enter")
	assert.Equal(t, actions.Processing, s.Dispatcher().Phase())
	assert.Contains(t, m.View(), "Processing")

	clock.Advance(2 * time.Second)
	assert.Contains(t, m.View(), `Action "notes" completed for GreenLeaf Energy`)
}

func TestMenuPassWithConfirmation(t *testing.T) {
	m, s, _ := newModel(t)

	m = press(t, m, "m")
	for i := 0; i < 7; i++ {
		m = press(t, m, "down")
	}
	m = press(t, m, "enter")
	prompt, a, ok := s.Dispatcher().Pending()
	require.True(t, ok)
	assert.Equal(t, actions.Pass, a)
	assert.Contains(t, m.View(), prompt.Message)

	m = press(t, m, "y")
	assert.NotContains(t, ids(s, domain.ColumnInterested), "1")
	assert.Len(t, s.Snapshot().Archived, 1)
	assert.Contains(t, m.View(), "Passed on TechFlow AI")
}

func TestMenuDeclineConfirmation(t *testing.T) {
	m, s, _ := newModel(t)

	m = press(t, m, "m", "enter", "n")
	assert.Equal(t, actions.Idle, s.Dispatcher().Phase())
	assert.Equal(t, "Cancelled", m.status)
}

func TestMessageInputPrompt(t *testing.T) {
	m, s, clock := newModel(t)

	m = press(t, m, "m", "down", "enter")
	prompt, _, ok := s.Dispatcher().Pending()
	require.True(t, ok)
	assert.Equal(t, actions.PromptInput, prompt.Kind)

	m = press(t, m, "hello", "enter")
	require.Equal(t, actions.Processing, s.Dispatcher().Phase())

	clock.Advance(2 * time.Second)
	history := s.Dispatcher().History()
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].Input)
	assert.Equal(t, "Message sent to Sarah Chen", history[0].Detail)
	assert.Empty(t, m.status)
}

func TestEmptyInputCancels(t *testing.T) {
	m, s, _ := newModel(t)

	m = press(t, m, "m", "down", "enter", "enter")
	assert.Equal(t, actions.Idle, s.Dispatcher().Phase())
	assert.Equal(t, "Cancelled", m.status)
}

func TestViewCycleAndQuit(t *testing.T) {
	m, _, _ := newModel(t)

	m = press(t, m, "v")
	assert.Equal(t, render.Table, m.mode)
	assert.Contains(t, m.View(), "table view")

	m = press(t, m, "v", "v")
	assert.Equal(t, render.Kanban, m.mode)

	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestCursorClamps(t *testing.T) {
	m, _, _ := newModel(t)

	m = press(t, m, "down", "down", "down", "down", "down")
	assert.Equal(t, 2, m.row)

	m = press(t, m, "right", "right", "right", "right")
	assert.Equal(t, 3, m.col)
	assert.Equal(t, 0, m.row)
}
