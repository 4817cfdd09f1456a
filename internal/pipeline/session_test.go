package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/pbaille/dealflow/internal/actions"
	"github.com/pbaille/dealflow/internal/domain"
	"github.com/pbaille/dealflow/internal/drag"
	"github.com/pbaille/dealflow/internal/notify/notifytest"
	"github.com/pbaille/dealflow/internal/seed"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newSession(t *testing.T) (*Session, *notifytest.FakeClock) {
	t.Helper()
	clock := notifytest.NewFakeClock()
	s, err := New(seed.Default(), Options{Clock: clock, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, clock
}

func columnIDs(t *testing.T, s *Session, col domain.ColumnID) []string {
	t.Helper()
	c, ok := s.Snapshot().Column(col)
	require.True(t, ok)
	out := make([]string, len(c.Startups))
	for i, st := range c.Startups {
		out[i] = st.ID
	}
	return out
}

func TestMoveSeededStartup(t *testing.T) {
	s, _ := newSession(t)
	before := len(columnIDs(t, s, domain.ColumnInterested))

	moved, err := s.Move("1", domain.ColumnInterested, domain.ColumnUnderReview)
	require.NoError(t, err)
	require.True(t, moved)

	assert.Len(t, columnIDs(t, s, domain.ColumnInterested), before-1)
	review := columnIDs(t, s, domain.ColumnUnderReview)
	assert.Equal(t, "1", review[len(review)-1])
}

func TestMoveToastExpiresAfterThreeSeconds(t *testing.T) {
	s, clock := newSession(t)

	_, err := s.Move("1", domain.ColumnInterested, domain.ColumnUnderReview)
	require.NoError(t, err)

	toast, ok := s.Toast()
	require.True(t, ok)
	assert.Equal(t, "Moved to Under Review", toast.Message)

	clock.Advance(3 * time.Second)
	_, ok = s.Toast()
	assert.False(t, ok)
}

func TestMoveMissingStartupShowsNothing(t *testing.T) {
	s, _ := newSession(t)
	interested := columnIDs(t, s, domain.ColumnInterested)
	review := columnIDs(t, s, domain.ColumnUnderReview)

	moved, err := s.Move("999", domain.ColumnInterested, domain.ColumnUnderReview)
	require.NoError(t, err)
	assert.False(t, moved)

	assert.Equal(t, interested, columnIDs(t, s, domain.ColumnInterested))
	assert.Equal(t, review, columnIDs(t, s, domain.ColumnUnderReview))
	_, ok := s.Toast()
	assert.False(t, ok)
}

func TestDragDropMovesThroughSession(t *testing.T) {
	s, _ := newSession(t)
	d := s.Drag()
	assert.Equal(t, drag.Pointer, d.Backend())

	require.NoError(t, d.Begin(drag.Payload{StartupID: "4", FromColumn: domain.ColumnUnderReview}))
	d.Hover(domain.ColumnNegotiating)
	moved, err := d.Drop(domain.ColumnNegotiating)
	require.NoError(t, err)
	assert.True(t, moved)

	neg := columnIDs(t, s, domain.ColumnNegotiating)
	assert.Equal(t, "4", neg[len(neg)-1])
	toast, _ := s.Toast()
	assert.Equal(t, "Moved to Negotiating", toast.Message)
}

func TestPassRemovesFromRenderedColumns(t *testing.T) {
	s, _ := newSession(t)

	out, err := s.RunAction(actions.Pass, "6", actions.Answers{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, actions.OutcomeArchived, out)

	snap := s.Snapshot()
	for _, c := range snap.Columns {
		for _, st := range c.Startups {
			assert.NotEqual(t, "6", st.ID, "startup 6 still in %s", c.ID)
		}
	}
	require.Len(t, snap.Archived, 1)
	assert.Equal(t, domain.StatusPassed, snap.Archived[0].Status)

	toast, _ := s.Toast()
	assert.Equal(t, "Passed on UrbanNest", toast.Message)

	restored, err := s.Restore("6", domain.ColumnNegotiating)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, []string{"6"}, columnIDs(t, s, domain.ColumnNegotiating))
}

func TestAIAnalysisAttachesBrief(t *testing.T) {
	s, clock := newSession(t)

	out, err := s.RunAction(actions.AIAnalysis, "1", actions.Answers{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, actions.OutcomeProcessing, out)

	clock.Advance(2 * time.Second)
	hist := s.Dispatcher().History()
	require.Len(t, hist, 1)
	assert.Contains(t, hist[0].Detail, "TechFlow AI scores 92/100")

	toast, ok := s.Toast()
	require.True(t, ok)
	assert.Equal(t, `Action "ai-analysis" completed for TechFlow AI`, toast.Message)
}

func TestViewListsRelatedDeals(t *testing.T) {
	s, clock := newSession(t)

	_, err := s.RunAction(actions.View, "1", actions.Answers{Confirmed: true})
	require.NoError(t, err)
	clock.Advance(2 * time.Second)

	hist := s.Dispatcher().History()
	require.Len(t, hist, 1)
	assert.Contains(t, hist[0].Detail, "Related: ")
	assert.NotContains(t, hist[0].Detail, "TechFlow AI")
}

func TestRunActionUnknownStartup(t *testing.T) {
	s, _ := newSession(t)
	_, err := s.RunAction(actions.View, "999", actions.Answers{Confirmed: true})
	assert.ErrorIs(t, err, ErrNotOnBoard)
}

func TestCloseCancelsPendingTimers(t *testing.T) {
	s, err := New(seed.Default(), Options{ToastTTL: time.Hour, ProcessingDelay: time.Hour})
	require.NoError(t, err)

	_, err = s.Move("1", domain.ColumnInterested, domain.ColumnInvested)
	require.NoError(t, err)
	_, err = s.RunAction(actions.Notes, "2", actions.Answers{})
	require.NoError(t, err)

	s.Close()
	assert.Equal(t, 0, s.sched.Pending())
}

func TestTouchBackendIsFixedAtMount(t *testing.T) {
	s, err := New(seed.Default(), Options{TouchCapable: true, Clock: notifytest.NewFakeClock()})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, drag.Touch, s.Drag().Backend())
}

func TestDismissToast(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.Move("4", domain.ColumnUnderReview, domain.ColumnNegotiating)
	require.NoError(t, err)
	_, ok := s.Toast()
	require.True(t, ok)

	s.DismissToast()
	_, ok = s.Toast()
	assert.False(t, ok)
}

func TestCloseLeavesDispatcherIdle(t *testing.T) {
	s, clock := newSession(t)

	_, err := s.RunAction(actions.Notes, "2", actions.Answers{})
	require.NoError(t, err)
	require.NoError(t, s.Drag().Begin(drag.Payload{StartupID: "1", FromColumn: domain.ColumnInterested}))

	s.Close()
	assert.Equal(t, actions.Idle, s.Dispatcher().Phase())
	_, busy := s.Dispatcher().Processing()
	assert.False(t, busy)
	_, dragging := s.Drag().Active()
	assert.False(t, dragging)

	clock.Advance(5 * time.Second)
	assert.Empty(t, s.Dispatcher().History())
}
