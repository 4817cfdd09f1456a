package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultToastTTL is how long a toast stays visible
const DefaultToastTTL = 3 * time.Second

// Toast is a transient notification banner
type Toast struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	ShownAt time.Time `json:"shown_at"`
}

// Toaster shows one toast at a time and dismisses it after its TTL
type Toaster struct {
	mu      sync.Mutex
	sched   *Scheduler
	ttl     time.Duration
	current *Toast
	cancel  func()
	log     *zap.Logger
}

// NewToaster creates a Toaster whose dismissals run on sched
func NewToaster(sched *Scheduler, ttl time.Duration, log *zap.Logger) *Toaster {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Toaster{sched: sched, ttl: ttl, log: log}
}

// Show replaces the visible toast with msg
func (t *Toaster) Show(msg string) Toast {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	toast := Toast{ID: uuid.NewString(), Message: msg, ShownAt: t.sched.Now()}
	t.current = &toast
	t.cancel = t.sched.After(t.ttl, func() { t.expire(toast.ID) })

	t.log.Debug("toast shown", zap.String("id", toast.ID), zap.String("message", msg))
	return toast
}

// Current returns the visible toast, if any
func (t *Toaster) Current() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Toast{}, false
	}
	return *t.current, true
}

// Dismiss hides the visible toast early
func (t *Toaster) Dismiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.current = nil
}

func (t *Toaster) expire(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// A newer toast owns the banner now
	if t.current == nil || t.current.ID != id {
		return
	}
	t.current = nil
	t.cancel = nil
	t.log.Debug("toast expired", zap.String("id", id))
}
