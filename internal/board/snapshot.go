package board

import "github.com/pbaille/dealflow/internal/domain"

// Snapshot is a value copy of the board for rendering and serialization
type Snapshot struct {
	Columns  []ColumnSnapshot `json:"columns"`
	Archived []domain.Startup `json:"archived,omitempty"`
}

// ColumnSnapshot is one column with its live count
type ColumnSnapshot struct {
	domain.Column
	Count    int              `json:"count"`
	Startups []domain.Startup `json:"startups"`
}

// Snapshot copies the current board state
func (b *Board) Snapshot() Snapshot {
	snap := Snapshot{
		Columns:  make([]ColumnSnapshot, len(b.columns)),
		Archived: cloneAll(b.archive),
	}
	for i, c := range b.columns {
		cards := cloneAll(b.cards[c.ID])
		if cards == nil {
			cards = []domain.Startup{}
		}
		snap.Columns[i] = ColumnSnapshot{Column: c, Count: len(cards), Startups: cards}
	}
	return snap
}

// Column returns the snapshot of one column
func (s Snapshot) Column(id domain.ColumnID) (ColumnSnapshot, bool) {
	for _, c := range s.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return ColumnSnapshot{}, false
}

// All returns every active startup in column order
func (s Snapshot) All() []domain.Startup {
	var out []domain.Startup
	for _, c := range s.Columns {
		out = append(out, c.Startups...)
	}
	return out
}
