// Package actions implements the per-card quick-action menu: confirmation
// prompts, the simulated processing step and the destructive pass/remove path.
package actions

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrBusy          = errors.New("another action is processing")
	ErrMenuNotOpen   = errors.New("menu not open for startup")
	ErrNoPrompt      = errors.New("no prompt awaiting an answer")
)

// Action is a quick-action identifier
type Action string

const (
	View       Action = "view"
	Message    Action = "message"
	Notes      Action = "notes"
	Meeting    Action = "meeting"
	AIAnalysis Action = "ai-analysis"
	DealRoom   Action = "deal-room"
	Share      Action = "share"
	Pass       Action = "pass"
	Remove     Action = "remove"
)

// All lists the actions in menu order
func All() []Action {
	return []Action{View, Message, Notes, Meeting, AIAnalysis, DealRoom, Share, Pass, Remove}
}

// Parse resolves an action id
func Parse(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range All() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownAction)
}

// Label is the menu text
func (a Action) Label() string {
	switch a {
	case View:
		return "View Details"
	case Message:
		return "Send Message"
	case Notes:
		return "Add Notes"
	case Meeting:
		return "Schedule Meeting"
	case AIAnalysis:
		return "AI Analysis"
	case DealRoom:
		return "Open Deal Room"
	case Share:
		return "Share"
	case Pass:
		return "Pass"
	case Remove:
		return "Remove"
	}
	return string(a)
}

// Destructive actions archive the startup instead of processing
func (a Action) Destructive() bool {
	return a == Pass || a == Remove
}

// PromptKind is how an action asks the user before running
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptConfirm
	PromptInput
)

func (k PromptKind) String() string {
	switch k {
	case PromptConfirm:
		return "confirm"
	case PromptInput:
		return "input"
	}
	return "none"
}

// Prompt is a question put to the user
type Prompt struct {
	Kind    PromptKind `json:"kind"`
	Message string     `json:"message"`
}

func (a Action) prompt(t Target) Prompt {
	name := t.Startup.Name
	switch a {
	case View:
		return Prompt{PromptConfirm, fmt.Sprintf("Open the full profile of %s?", name)}
	case Message:
		return Prompt{PromptInput, fmt.Sprintf("Message to %s (%s):", t.Startup.Founder.Name, name)}
	case AIAnalysis:
		return Prompt{PromptConfirm, fmt.Sprintf("Run AI analysis on %s?", name)}
	case DealRoom:
		return Prompt{PromptConfirm, fmt.Sprintf("Open a deal room with %s?", name)}
	case Share:
		return Prompt{PromptInput, fmt.Sprintf("Share %s with (email):", name)}
	case Pass:
		return Prompt{PromptConfirm, fmt.Sprintf("Pass on %s? It will leave the pipeline.", name)}
	case Remove:
		return Prompt{PromptConfirm, fmt.Sprintf("Remove %s from the pipeline?", name)}
	}
	return Prompt{Kind: PromptNone}
}
