package domain

import (
	"fmt"
	"time"
)

// ColumnID identifies one of the fixed pipeline stages
type ColumnID string

const (
	ColumnInterested  ColumnID = "interested"
	ColumnUnderReview ColumnID = "underReview"
	ColumnNegotiating ColumnID = "negotiating"
	ColumnInvested    ColumnID = "invested"
)

// ParseColumnID accepts the canonical ids plus a few spellings people type on a CLI
func ParseColumnID(s string) (ColumnID, error) {
	switch s {
	case "interested":
		return ColumnInterested, nil
	case "underReview", "under-review", "review":
		return ColumnUnderReview, nil
	case "negotiating":
		return ColumnNegotiating, nil
	case "invested":
		return ColumnInvested, nil
	}
	return "", fmt.Errorf("unknown column %q", s)
}

// Column is a named, colored stage bucket
type Column struct {
	ID    ColumnID `json:"id" yaml:"id"`
	Title string   `json:"title" yaml:"title"`
	Emoji string   `json:"emoji" yaml:"emoji"`
	Color string   `json:"color" yaml:"color"`
}

// DefaultColumns returns the pipeline stages in display order
func DefaultColumns() []Column {
	return []Column{
		{ID: ColumnInterested, Title: "Interested", Emoji: "👀", Color: "#3B82F6"},
		{ID: ColumnUnderReview, Title: "Under Review", Emoji: "🔍", Color: "#F59E0B"},
		{ID: ColumnNegotiating, Title: "Negotiating", Emoji: "🤝", Color: "#8B5CF6"},
		{ID: ColumnInvested, Title: "Invested", Emoji: "💰", Color: "#10B981"},
	}
}

// Status tracks whether a startup is still on the board
type Status string

const (
	StatusActive  Status = "active"
	StatusPassed  Status = "passed"
	StatusRemoved Status = "removed"
)

// Founder is the person behind a startup
type Founder struct {
	Name     string `json:"name" yaml:"name"`
	Avatar   string `json:"avatar" yaml:"avatar"`
	Verified bool   `json:"verified" yaml:"verified"`
}

// Startup is one deal card on the board
type Startup struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Logo       string   `json:"logo" yaml:"logo"`
	Pitch      string   `json:"pitch" yaml:"pitch"`
	Ask        string   `json:"ask" yaml:"ask"`
	Equity     float64  `json:"equity" yaml:"equity"`
	Stage      string   `json:"stage" yaml:"stage"`
	TeamSize   int      `json:"team_size" yaml:"team_size"`
	Industries []string `json:"industries" yaml:"industries"`
	AIScore    int      `json:"ai_score" yaml:"ai_score"`
	Added      string   `json:"added" yaml:"added"`
	Founder    Founder  `json:"founder" yaml:"founder"`
	Status     Status   `json:"status" yaml:"status,omitempty"`

	// Under review
	Progress   *int   `json:"progress,omitempty" yaml:"progress,omitempty"`
	NextAction string `json:"next_action,omitempty" yaml:"next_action,omitempty"`

	// Negotiating
	LastActivity  string `json:"last_activity,omitempty" yaml:"last_activity,omitempty"`
	ExpectedClose string `json:"expected_close,omitempty" yaml:"expected_close,omitempty"`

	// Invested
	InvestedAmount string `json:"invested_amount,omitempty" yaml:"invested_amount,omitempty"`
	InvestmentDate string `json:"investment_date,omitempty" yaml:"investment_date,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with s
func (s Startup) Clone() Startup {
	c := s
	if s.Industries != nil {
		c.Industries = append([]string(nil), s.Industries...)
	}
	if s.Progress != nil {
		p := *s.Progress
		c.Progress = &p
	}
	return c
}

// CatalogEntry is a startup listed in the catalog by a founder account
type CatalogEntry struct {
	Startup
	OwnerID   string    `json:"owner_id"`
	Column    ColumnID  `json:"column"`
	CreatedAt time.Time `json:"created_at"`
}
