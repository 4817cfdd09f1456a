package actions

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pbaille/dealflow/internal/domain"
	"github.com/pbaille/dealflow/internal/notify"
)

// DefaultProcessingDelay is how long the processing modal stays up
const DefaultProcessingDelay = 2 * time.Second

const defaultHistoryLimit = 50

// Phase is where the dispatcher sits in the menu -> prompt -> processing flow
type Phase int

const (
	Idle Phase = iota
	MenuOpen
	Prompting
	Processing
)

func (p Phase) String() string {
	switch p {
	case MenuOpen:
		return "menu-open"
	case Prompting:
		return "prompting"
	case Processing:
		return "processing"
	}
	return "idle"
}

// Outcome is what answering a prompt led to
type Outcome string

const (
	OutcomeCancelled  Outcome = "cancelled"
	OutcomeProcessing Outcome = "processing"
	OutcomeArchived   Outcome = "archived"
	OutcomeSkipped    Outcome = "skipped"
)

// Target is the card an action applies to
type Target struct {
	Startup domain.Startup
	Column  domain.ColumnID
}

// Archiver files a startup away for pass/remove
type Archiver interface {
	Archive(startupID string, from domain.ColumnID, status domain.Status) (bool, error)
}

// Enricher produces extra detail for a completed action, such as an analysis brief
type Enricher func(a Action, t Target, input string) string

// Job is an action in the processing modal
type Job struct {
	ID          string    `json:"id"`
	Action      Action    `json:"action"`
	StartupID   string    `json:"startup_id"`
	StartupName string    `json:"startup_name"`
	StartedAt   time.Time `json:"started_at"`
	DoneAt      time.Time `json:"done_at"`
}

// Result is a completed action
type Result struct {
	Job
	Input  string `json:"input,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Options tune a Dispatcher
type Options struct {
	Delay        time.Duration
	Enrich       Enricher
	HistoryLimit int
	Logger       *zap.Logger
}

// Dispatcher runs quick actions one at a time
type Dispatcher struct {
	mu       sync.Mutex
	sched    *notify.Scheduler
	toaster  *notify.Toaster
	archiver Archiver
	delay    time.Duration
	enrich   Enricher
	limit    int
	log      *zap.Logger

	menuFor    string
	pending    *pendingPrompt
	processing *Job
	history    []Result
}

type pendingPrompt struct {
	action Action
	target Target
	prompt Prompt
}

// NewDispatcher wires a dispatcher to the session's scheduler, toaster and board
func NewDispatcher(sched *notify.Scheduler, toaster *notify.Toaster, archiver Archiver, opts Options) *Dispatcher {
	if opts.Delay <= 0 {
		opts.Delay = DefaultProcessingDelay
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Dispatcher{
		sched:    sched,
		toaster:  toaster,
		archiver: archiver,
		delay:    opts.Delay,
		enrich:   opts.Enrich,
		limit:    opts.HistoryLimit,
		log:      opts.Logger,
	}
}

// Phase reports the current state
func (d *Dispatcher) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase()
}

func (d *Dispatcher) phase() Phase {
	switch {
	case d.processing != nil:
		return Processing
	case d.pending != nil:
		return Prompting
	case d.menuFor != "":
		return MenuOpen
	}
	return Idle
}

// OpenMenu opens the overflow menu of one card, closing any other
func (d *Dispatcher) OpenMenu(startupID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p := d.phase(); p == Processing || p == Prompting {
		return fmt.Errorf("open menu for %s while %s: %w", startupID, p, ErrBusy)
	}
	d.menuFor = startupID
	return nil
}

// CloseMenu closes the open menu, as a click outside it would
func (d *Dispatcher) CloseMenu() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.menuFor = ""
}

// MenuOpenFor returns the startup whose menu is open
func (d *Dispatcher) MenuOpenFor() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.menuFor, d.menuFor != ""
}

// Select picks an action from the open menu. Actions without a prompt go
// straight to processing; the rest wait for Answer.
func (d *Dispatcher) Select(a Action, t Target) (Prompt, error) {
	if _, err := Parse(string(a)); err != nil {
		return Prompt{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if p := d.phase(); p == Processing || p == Prompting {
		return Prompt{}, fmt.Errorf("select %s: %w", a, ErrBusy)
	}
	if d.menuFor != t.Startup.ID {
		return Prompt{}, fmt.Errorf("select %s for %s: %w", a, t.Startup.ID, ErrMenuNotOpen)
	}
	return d.selectLocked(a, t), nil
}

// Start opens the menu of t and selects a in one step, so concurrent callers
// cannot open another card's menu in between.
func (d *Dispatcher) Start(a Action, t Target) (Prompt, error) {
	if _, err := Parse(string(a)); err != nil {
		return Prompt{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if p := d.phase(); p == Processing || p == Prompting {
		return Prompt{}, fmt.Errorf("start %s for %s: %w", a, t.Startup.ID, ErrBusy)
	}
	return d.selectLocked(a, t), nil
}

func (d *Dispatcher) selectLocked(a Action, t Target) Prompt {
	d.menuFor = ""

	p := a.prompt(t)
	if p.Kind == PromptNone {
		d.startLocked(a, t, "")
		return p
	}
	d.pending = &pendingPrompt{action: a, target: t, prompt: p}
	return p
}

// Pending returns the prompt awaiting an answer
func (d *Dispatcher) Pending() (Prompt, Action, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return Prompt{}, "", false
	}
	return d.pending.prompt, d.pending.action, true
}

// Answer resolves the pending prompt. A declined confirmation or an empty
// input returns to idle.
func (d *Dispatcher) Answer(confirmed bool, input string) (Outcome, error) {
	d.mu.Lock()
	pd := d.pending
	if pd == nil {
		d.mu.Unlock()
		return "", ErrNoPrompt
	}
	d.pending = nil

	input = strings.TrimSpace(input)
	if !confirmed || (pd.prompt.Kind == PromptInput && input == "") {
		d.mu.Unlock()
		d.log.Debug("action cancelled", zap.String("action", string(pd.action)), zap.String("startup", pd.target.Startup.ID))
		return OutcomeCancelled, nil
	}

	if !pd.action.Destructive() {
		d.startLocked(pd.action, pd.target, input)
		d.mu.Unlock()
		return OutcomeProcessing, nil
	}
	d.mu.Unlock()

	status := domain.StatusPassed
	if pd.action == Remove {
		status = domain.StatusRemoved
	}
	ok, err := d.archiver.Archive(pd.target.Startup.ID, pd.target.Column, status)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", pd.action, pd.target.Startup.ID, err)
	}
	if !ok {
		return OutcomeSkipped, nil
	}
	d.log.Info("startup archived",
		zap.String("startup", pd.target.Startup.ID),
		zap.String("from", string(pd.target.Column)),
		zap.String("status", string(status)))
	return OutcomeArchived, nil
}

// Processing returns the job in the processing modal
func (d *Dispatcher) Processing() (Job, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.processing == nil {
		return Job{}, false
	}
	return *d.processing, true
}

// Abort drops the open menu, the pending prompt and the in-flight job. The
// job's completion timer is expected to be cancelled by the caller.
func (d *Dispatcher) Abort() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.menuFor = ""
	d.pending = nil
	d.processing = nil
}

// History returns completed actions, oldest first
func (d *Dispatcher) History() []Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Result(nil), d.history...)
}

func (d *Dispatcher) startLocked(a Action, t Target, input string) {
	now := d.sched.Now()
	job := Job{
		ID:          uuid.NewString(),
		Action:      a,
		StartupID:   t.Startup.ID,
		StartupName: t.Startup.Name,
		StartedAt:   now,
		DoneAt:      now.Add(d.delay),
	}
	d.processing = &job
	d.sched.After(d.delay, func() { d.complete(job, t, input) })

	d.log.Info("action processing",
		zap.String("action", string(a)),
		zap.String("startup", t.Startup.ID),
		zap.Duration("delay", d.delay))
}

func (d *Dispatcher) complete(job Job, t Target, input string) {
	var detail string
	if d.enrich != nil {
		detail = d.enrich(job.Action, t, input)
	}

	d.mu.Lock()
	if d.processing == nil || d.processing.ID != job.ID {
		d.mu.Unlock()
		return
	}
	d.processing = nil
	d.history = append(d.history, Result{Job: job, Input: input, Detail: detail})
	if len(d.history) > d.limit {
		d.history = d.history[len(d.history)-d.limit:]
	}
	d.mu.Unlock()

	d.toaster.Show(fmt.Sprintf("Action %q completed for %s", string(job.Action), job.StartupName))
}

// Prompter answers prompts synchronously, like a browser confirm/prompt dialog
type Prompter interface {
	Confirm(msg string) bool
	Input(msg string) (string, bool)
}

// Answers is a Prompter with fixed replies
type Answers struct {
	Confirmed bool
	Text      string
}

func (a Answers) Confirm(string) bool { return a.Confirmed }

func (a Answers) Input(string) (string, bool) { return a.Text, a.Confirmed }

// Run drives one action from opening the menu to its outcome
func Run(d *Dispatcher, a Action, t Target, p Prompter) (Outcome, error) {
	pr, err := d.Start(a, t)
	if err != nil {
		return "", err
	}

	switch pr.Kind {
	case PromptConfirm:
		return d.Answer(p.Confirm(pr.Message), "")
	case PromptInput:
		text, ok := p.Input(pr.Message)
		return d.Answer(ok, text)
	}
	return OutcomeProcessing, nil
}
