// Package drag models drag-and-drop of deal cards between columns.
package drag

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pbaille/dealflow/internal/domain"
)

var (
	ErrDragInProgress = errors.New("drag already in progress")
	ErrNoDrag         = errors.New("no drag in progress")
)

// Backend is the input modality the drag gestures come from
type Backend int

const (
	Pointer Backend = iota
	Touch
)

func (b Backend) String() string {
	if b == Touch {
		return "touch"
	}
	return "pointer"
}

// DetectBackend picks the backend once, when the board mounts
func DetectBackend(touchCapable bool) Backend {
	if touchCapable {
		return Touch
	}
	return Pointer
}

// Payload is what a dragged card carries
type Payload struct {
	StartupID  string          `json:"startup_id"`
	FromColumn domain.ColumnID `json:"from"`
}

// Mover applies a completed drop
type Mover interface {
	Move(startupID string, from, to domain.ColumnID) (bool, error)
}

// Controller tracks the single active drag and the column under it
type Controller struct {
	mu      sync.Mutex
	backend Backend
	mover   Mover
	active  *Payload
	hover   domain.ColumnID
	log     *zap.Logger
}

// NewController creates a controller bound to a backend for its whole lifetime
func NewController(backend Backend, mover Mover, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{backend: backend, mover: mover, log: log}
}

func (c *Controller) Backend() Backend {
	return c.backend
}

// Begin registers p as the dragged source
func (c *Controller) Begin(p Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return fmt.Errorf("begin drag of %s: %w", p.StartupID, ErrDragInProgress)
	}
	c.active = &p
	c.hover = p.FromColumn
	c.log.Debug("drag started",
		zap.String("startup", p.StartupID),
		zap.String("from", string(p.FromColumn)),
		zap.Stringer("backend", c.backend))
	return nil
}

// Active returns the current payload, if dragging
func (c *Controller) Active() (Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return Payload{}, false
	}
	return *c.active, true
}

// IsDragging reports whether the card for startupID is being dragged
func (c *Controller) IsDragging(startupID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil && c.active.StartupID == startupID
}

// Hover records the column currently under the dragged card
func (c *Controller) Hover(col domain.ColumnID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.hover = col
	}
}

// Hovered returns the column under the dragged card
func (c *Controller) Hovered() (domain.ColumnID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return "", false
	}
	return c.hover, true
}

// CanDrop reports whether the dragged card may land in col
func (c *Controller) CanDrop(col domain.ColumnID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canDrop(col)
}

// IsOver drives the column highlight: something droppable is over col
func (c *Controller) IsOver(col domain.ColumnID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canDrop(col) && c.hover == col
}

// Drop ends the drag on col. Dropping back onto the source column ends the
// drag without calling the mover.
func (c *Controller) Drop(col domain.ColumnID) (bool, error) {
	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return false, ErrNoDrag
	}
	p := *c.active
	ok := c.canDrop(col)
	c.active = nil
	c.hover = ""
	c.mu.Unlock()

	if !ok {
		c.log.Debug("drop suppressed", zap.String("startup", p.StartupID), zap.String("column", string(col)))
		return false, nil
	}
	return c.mover.Move(p.StartupID, p.FromColumn, col)
}

// Cancel abandons the drag
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	c.hover = ""
}

func (c *Controller) canDrop(col domain.ColumnID) bool {
	return c.active != nil && c.active.FromColumn != col
}
