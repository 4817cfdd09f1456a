// Package board holds the pipeline state: an ordered set of stage columns,
// each with an ordered list of startups, plus the archive of passed and
// removed deals.
//
// A Board is owned by a single caller and is not safe for concurrent use.
package board

import (
	"errors"
	"fmt"

	"github.com/pbaille/dealflow/internal/domain"
)

var (
	ErrUnknownColumn    = errors.New("unknown column")
	ErrDuplicateStartup = errors.New("duplicate startup")
	ErrInvalidStatus    = errors.New("invalid archive status")
)

// Seed maps a column to the startups it starts with
type Seed map[domain.ColumnID][]domain.Startup

// Board is the column id -> startups mapping
type Board struct {
	columns []domain.Column
	index   map[domain.ColumnID]int
	cards   map[domain.ColumnID][]domain.Startup
	archive []domain.Startup
}

// New builds a board over columns and fills it from seed
func New(columns []domain.Column, seed Seed) (*Board, error) {
	b := &Board{
		columns: append([]domain.Column(nil), columns...),
		index:   make(map[domain.ColumnID]int, len(columns)),
		cards:   make(map[domain.ColumnID][]domain.Startup, len(columns)),
	}
	for i, c := range columns {
		if _, ok := b.index[c.ID]; ok {
			return nil, fmt.Errorf("column %s listed twice", c.ID)
		}
		b.index[c.ID] = i
		b.cards[c.ID] = nil
	}

	seen := make(map[string]domain.ColumnID)
	// Walk columns in display order so errors are deterministic
	for _, c := range columns {
		for _, s := range seed[c.ID] {
			if prev, ok := seen[s.ID]; ok {
				return nil, fmt.Errorf("seed startup %s in %s and %s: %w", s.ID, prev, c.ID, ErrDuplicateStartup)
			}
			seen[s.ID] = c.ID
			s = s.Clone()
			s.Status = domain.StatusActive
			b.cards[c.ID] = append(b.cards[c.ID], s)
		}
	}
	for id := range seed {
		if _, ok := b.index[id]; !ok {
			return nil, fmt.Errorf("seed column %s: %w", id, ErrUnknownColumn)
		}
	}

	return b, nil
}

// Columns returns the column definitions in display order
func (b *Board) Columns() []domain.Column {
	return append([]domain.Column(nil), b.columns...)
}

// ColumnDef returns the definition of a column
func (b *Board) ColumnDef(id domain.ColumnID) (domain.Column, error) {
	i, ok := b.index[id]
	if !ok {
		return domain.Column{}, fmt.Errorf("column %s: %w", id, ErrUnknownColumn)
	}
	return b.columns[i], nil
}

// Column returns a copy of the startups currently in a column
func (b *Board) Column(id domain.ColumnID) ([]domain.Startup, error) {
	if _, ok := b.index[id]; !ok {
		return nil, fmt.Errorf("column %s: %w", id, ErrUnknownColumn)
	}
	return cloneAll(b.cards[id]), nil
}

// Count is the live number of startups in a column
func (b *Board) Count(id domain.ColumnID) int {
	return len(b.cards[id])
}

// Find locates an active startup and the column holding it
func (b *Board) Find(startupID string) (domain.Startup, domain.ColumnID, bool) {
	for _, c := range b.columns {
		if i := indexOf(b.cards[c.ID], startupID); i >= 0 {
			return b.cards[c.ID][i].Clone(), c.ID, true
		}
	}
	return domain.Startup{}, "", false
}

// Move relocates a startup from one column to the end of another.
// A startup missing from the source column is a silent no-op, as is a move
// into the same column; moved reports whether the board changed.
func (b *Board) Move(startupID string, from, to domain.ColumnID) (moved bool, err error) {
	if err := b.checkColumns(from, to); err != nil {
		return false, err
	}
	if from == to {
		return false, nil
	}

	i := indexOf(b.cards[from], startupID)
	if i < 0 {
		return false, nil
	}

	s := b.cards[from][i]
	b.cards[from] = removeAt(b.cards[from], i)
	b.cards[to] = append(b.cards[to], s)
	return true, nil
}

// Archive takes a startup off its column and files it as passed or removed
func (b *Board) Archive(startupID string, from domain.ColumnID, status domain.Status) (domain.Startup, bool, error) {
	if status != domain.StatusPassed && status != domain.StatusRemoved {
		return domain.Startup{}, false, fmt.Errorf("archive as %q: %w", status, ErrInvalidStatus)
	}
	if err := b.checkColumns(from); err != nil {
		return domain.Startup{}, false, err
	}

	i := indexOf(b.cards[from], startupID)
	if i < 0 {
		return domain.Startup{}, false, nil
	}

	s := b.cards[from][i]
	b.cards[from] = removeAt(b.cards[from], i)
	s.Status = status
	b.archive = append(b.archive, s)
	return s.Clone(), true, nil
}

// Restore brings an archived startup back onto a column as active
func (b *Board) Restore(startupID string, to domain.ColumnID) (domain.Startup, bool, error) {
	if err := b.checkColumns(to); err != nil {
		return domain.Startup{}, false, err
	}

	i := indexOf(b.archive, startupID)
	if i < 0 {
		return domain.Startup{}, false, nil
	}

	s := b.archive[i]
	b.archive = removeAt(b.archive, i)
	s.Status = domain.StatusActive
	b.cards[to] = append(b.cards[to], s)
	return s.Clone(), true, nil
}

// Archived returns passed and removed startups in the order they left the board
func (b *Board) Archived() []domain.Startup {
	return cloneAll(b.archive)
}

// Validate checks that no startup id is held twice
func (b *Board) Validate() error {
	seen := make(map[string]string)
	check := func(where string, list []domain.Startup) error {
		for _, s := range list {
			if prev, ok := seen[s.ID]; ok {
				return fmt.Errorf("startup %s in %s and %s: %w", s.ID, prev, where, ErrDuplicateStartup)
			}
			seen[s.ID] = where
		}
		return nil
	}
	for _, c := range b.columns {
		if err := check(string(c.ID), b.cards[c.ID]); err != nil {
			return err
		}
	}
	return check("archive", b.archive)
}

func (b *Board) checkColumns(ids ...domain.ColumnID) error {
	for _, id := range ids {
		if _, ok := b.index[id]; !ok {
			return fmt.Errorf("column %q: %w", id, ErrUnknownColumn)
		}
	}
	return nil
}

func indexOf(list []domain.Startup, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func removeAt(list []domain.Startup, i int) []domain.Startup {
	out := make([]domain.Startup, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func cloneAll(list []domain.Startup) []domain.Startup {
	if list == nil {
		return nil
	}
	out := make([]domain.Startup, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}
