// Package pipeline mounts a deal-flow board: the board state plus the drag
// controller, quick-action dispatcher and toasts that act on it. Closing a
// session cancels every timer it started.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pbaille/dealflow/internal/actions"
	"github.com/pbaille/dealflow/internal/assistant"
	"github.com/pbaille/dealflow/internal/board"
	"github.com/pbaille/dealflow/internal/domain"
	"github.com/pbaille/dealflow/internal/drag"
	"github.com/pbaille/dealflow/internal/notify"
	"github.com/pbaille/dealflow/internal/similar"
)

// Options configure a session
type Options struct {
	Columns         []domain.Column
	ToastTTL        time.Duration
	ProcessingDelay time.Duration
	TouchCapable    bool
	Clock           notify.Clock
	Assistant       *assistant.Assistant
	Logger          *zap.Logger
}

// Session is a mounted board
type Session struct {
	mu    sync.Mutex
	board *board.Board

	sched      *notify.Scheduler
	toaster    *notify.Toaster
	dispatcher *actions.Dispatcher
	drag       *drag.Controller
	assistant  *assistant.Assistant
	log        *zap.Logger
}

// New mounts a board from seed
func New(seed board.Seed, opts Options) (*Session, error) {
	if opts.Columns == nil {
		opts.Columns = domain.DefaultColumns()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Assistant == nil {
		opts.Assistant = assistant.New(nil)
	}

	b, err := board.New(opts.Columns, seed)
	if err != nil {
		return nil, fmt.Errorf("mount board: %w", err)
	}

	s := &Session{
		board:     b,
		sched:     notify.NewScheduler(opts.Clock),
		assistant: opts.Assistant,
		log:       opts.Logger,
	}
	s.toaster = notify.NewToaster(s.sched, opts.ToastTTL, opts.Logger)
	s.dispatcher = actions.NewDispatcher(s.sched, s.toaster, s, actions.Options{
		Delay:  opts.ProcessingDelay,
		Enrich: s.enrich,
		Logger: opts.Logger,
	})
	s.drag = drag.NewController(drag.DetectBackend(opts.TouchCapable), s, opts.Logger)

	s.log.Info("board mounted",
		zap.Int("startups", len(b.Snapshot().All())),
		zap.Stringer("backend", s.drag.Backend()))
	return s, nil
}

// Close cancels pending toasts and processing and drops any in-flight action.
// Timers no longer run afterwards, so a closed session should be discarded.
func (s *Session) Close() {
	s.sched.Close()
	s.dispatcher.Abort()
	s.drag.Cancel()
}

func (s *Session) Drag() *drag.Controller { return s.drag }

func (s *Session) Dispatcher() *actions.Dispatcher { return s.dispatcher }

func (s *Session) Assistant() *assistant.Assistant { return s.assistant }

// Toast returns the visible toast
func (s *Session) Toast() (notify.Toast, bool) {
	return s.toaster.Current()
}

// DismissToast hides the visible toast early
func (s *Session) DismissToast() {
	s.toaster.Dismiss()
}

// Snapshot copies the board
func (s *Session) Snapshot() board.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Snapshot()
}

// Find locates an active startup
func (s *Session) Find(startupID string) (domain.Startup, domain.ColumnID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Find(startupID)
}

// Target resolves the action target for an active startup
func (s *Session) Target(startupID string) (actions.Target, bool) {
	st, col, ok := s.Find(startupID)
	if !ok {
		return actions.Target{}, false
	}
	return actions.Target{Startup: st, Column: col}, true
}

// Move relocates a startup and announces the destination
func (s *Session) Move(startupID string, from, to domain.ColumnID) (bool, error) {
	s.mu.Lock()
	moved, err := s.board.Move(startupID, from, to)
	var title string
	if moved {
		def, _ := s.board.ColumnDef(to)
		title = def.Title
	}
	s.mu.Unlock()

	if err != nil {
		return false, err
	}
	if !moved {
		s.log.Debug("move skipped",
			zap.String("startup", startupID),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
		return false, nil
	}

	s.log.Info("startup moved",
		zap.String("startup", startupID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	s.toaster.Show("Moved to " + title)
	return true, nil
}

// Archive files a startup as passed or removed
func (s *Session) Archive(startupID string, from domain.ColumnID, status domain.Status) (bool, error) {
	s.mu.Lock()
	st, ok, err := s.board.Archive(startupID, from, status)
	s.mu.Unlock()
	if err != nil || !ok {
		return false, err
	}

	if status == domain.StatusPassed {
		s.toaster.Show("Passed on " + st.Name)
	} else {
		s.toaster.Show("Removed " + st.Name)
	}
	return true, nil
}

// Restore puts an archived startup back on the board
func (s *Session) Restore(startupID string, to domain.ColumnID) (bool, error) {
	s.mu.Lock()
	st, ok, err := s.board.Restore(startupID, to)
	var title string
	if ok {
		def, _ := s.board.ColumnDef(to)
		title = def.Title
	}
	s.mu.Unlock()
	if err != nil || !ok {
		return false, err
	}

	s.log.Info("startup restored", zap.String("startup", startupID), zap.String("to", string(to)))
	s.toaster.Show(fmt.Sprintf("Restored %s to %s", st.Name, title))
	return true, nil
}

// Related ranks the active startups most like startupID
func (s *Session) Related(startupID string, k int) []similar.Match {
	snap := s.Snapshot()
	target, _, ok := s.Find(startupID)
	if !ok {
		return nil
	}
	return similar.Rank(target, snap.All(), k)
}

// enrich attaches the analysis brief or related deals to a completed action
func (s *Session) enrich(a actions.Action, t actions.Target, input string) string {
	switch a {
	case actions.AIAnalysis:
		return s.assistant.Analyze(t.Startup).String()
	case actions.View:
		matches := s.Related(t.Startup.ID, 3)
		if len(matches) == 0 {
			return ""
		}
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Startup.Name
		}
		return "Related: " + strings.Join(names, ", ")
	case actions.Message:
		return fmt.Sprintf("Message sent to %s", t.Startup.Founder.Name)
	case actions.Share:
		return "Shared with " + input
	}
	return ""
}

// ErrNotOnBoard is returned for actions on a startup no column holds
var ErrNotOnBoard = errors.New("startup not on board")

// RunAction resolves the startup's card and runs a quick action on it
func (s *Session) RunAction(a actions.Action, startupID string, p actions.Prompter) (actions.Outcome, error) {
	t, ok := s.Target(startupID)
	if !ok {
		return "", fmt.Errorf("%s %s: %w", a, startupID, ErrNotOnBoard)
	}
	return actions.Run(s.dispatcher, a, t, p)
}
