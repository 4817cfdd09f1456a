package notify_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/pbaille/dealflow/internal/notify"
	"github.com/pbaille/dealflow/internal/notify/notifytest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScheduler_FiresAfterDelay(t *testing.T) {
	clock := notifytest.NewFakeClock()
	s := notify.NewScheduler(clock)

	var fired int
	s.After(2*time.Second, func() { fired++ })

	clock.Advance(1999 * time.Millisecond)
	assert.Equal(t, 0, fired)
	assert.Equal(t, 1, s.Pending())

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_Cancel(t *testing.T) {
	clock := notifytest.NewFakeClock()
	s := notify.NewScheduler(clock)

	var fired bool
	cancel := s.After(time.Second, func() { fired = true })
	cancel()
	cancel()

	clock.Advance(time.Minute)
	assert.False(t, fired)
	assert.Equal(t, 0, clock.Pending())
}

func TestScheduler_CloseCancelsPending(t *testing.T) {
	clock := notifytest.NewFakeClock()
	s := notify.NewScheduler(clock)

	var fired int
	s.After(time.Second, func() { fired++ })
	s.After(3*time.Second, func() { fired++ })
	s.Close()

	s.After(time.Second, func() { fired++ })
	clock.Advance(time.Minute)

	assert.Equal(t, 0, fired)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 0, clock.Pending())
}

func TestScheduler_SystemClockCloseLeavesNoGoroutines(t *testing.T) {
	s := notify.NewScheduler(nil)

	var fired atomic.Int32
	done := make(chan struct{})
	s.After(time.Millisecond, func() {
		fired.Add(1)
		close(done)
	})
	s.After(time.Hour, func() { fired.Add(1) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("short timer never fired")
	}
	s.Close()

	assert.Equal(t, int32(1), fired.Load())
	assert.Equal(t, 0, s.Pending())
}

func TestToaster_ShowAndExpire(t *testing.T) {
	clock := notifytest.NewFakeClock()
	toaster := notify.NewToaster(notify.NewScheduler(clock), 3*time.Second, zaptest.NewLogger(t))

	shown := toaster.Show("Moved to Under Review")
	assert.NotEmpty(t, shown.ID)
	assert.Equal(t, clock.Now(), shown.ShownAt)

	clock.Advance(2 * time.Second)
	cur, ok := toaster.Current()
	require.True(t, ok)
	assert.Equal(t, "Moved to Under Review", cur.Message)

	clock.Advance(time.Second)
	_, ok = toaster.Current()
	assert.False(t, ok)
}

func TestToaster_NewToastRestartsTimer(t *testing.T) {
	clock := notifytest.NewFakeClock()
	toaster := notify.NewToaster(notify.NewScheduler(clock), 3*time.Second, nil)

	toaster.Show("first")
	clock.Advance(2 * time.Second)
	toaster.Show("second")
	clock.Advance(2 * time.Second)

	cur, ok := toaster.Current()
	require.True(t, ok)
	assert.Equal(t, "second", cur.Message)

	clock.Advance(time.Second)
	_, ok = toaster.Current()
	assert.False(t, ok)
}

func TestToaster_Dismiss(t *testing.T) {
	clock := notifytest.NewFakeClock()
	sched := notify.NewScheduler(clock)
	toaster := notify.NewToaster(sched, 0, nil)

	toaster.Show("hello")
	toaster.Dismiss()

	_, ok := toaster.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, sched.Pending())
}
