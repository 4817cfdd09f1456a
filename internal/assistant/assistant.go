// Package assistant answers deal questions from a fixed keyword rule table.
// It performs no inference; every reply is canned text.
package assistant

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/dealflow/internal/domain"
)

// Rule maps any of its keywords to a reply
type Rule struct {
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

// Assistant matches messages against rules in order; the first hit wins
type Assistant struct {
	rules    []Rule
	fallback string
}

const defaultFallback = "I can help with valuations, due diligence, term sheets, market sizing and portfolio questions. " +
	"Try asking about one of those."

// DefaultRules is the built-in rule table
func DefaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"valuation", "valuate", "worth"},
			Reply: "Early-stage valuations lean on comparables: look at recent rounds in the same sector and stage, " +
				"then adjust for traction, team and market size. The ask and equity on the card imply a post-money you can sanity check.",
		},
		{
			Keywords: []string{"due diligence", "diligence", " dd "},
			Reply: "A due diligence pass covers the cap table, incorporation documents, IP assignments, " +
				"customer references, financial statements and key contracts. Start with what could kill the deal.",
		},
		{
			Keywords: []string{"term sheet", "terms", "liquidation"},
			Reply: "Focus on the economic terms first: valuation, liquidation preference, option pool and pro-rata rights. " +
				"Control terms such as board seats and protective provisions come next.",
		},
		{
			Keywords: []string{"market", "tam", "sizing"},
			Reply: "Size the market bottom-up: number of reachable customers times realistic annual contract value. " +
				"Top-down TAM figures are a sanity check, not an argument.",
		},
		{
			Keywords: []string{"portfolio", "diversif"},
			Reply: "Spread early-stage checks across sectors and vintages, and reserve capital for follow-on rounds " +
				"in the companies that break out.",
		},
		{
			Keywords: []string{"founder", "team"},
			Reply: "Look for founder-market fit, complementary skills across the founding team and evidence they can recruit. " +
				"Verified founders on the board have passed identity checks.",
		},
		{
			Keywords: []string{"hello", " hi ", "hey"},
			Reply:    "Hi! Ask me about any deal on your board, or about valuations, diligence and terms.",
		},
	}
}

// New creates an assistant; nil rules means DefaultRules
func New(rules []Rule) *Assistant {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Assistant{rules: rules, fallback: defaultFallback}
}

// LoadRules reads a YAML rule table
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	for i, r := range rules {
		if len(r.Keywords) == 0 || strings.TrimSpace(r.Reply) == "" {
			return nil, fmt.Errorf("rule %d: keywords and reply are required", i)
		}
	}
	return rules, nil
}

// Respond returns the reply of the first rule with a keyword contained in msg.
// Punctuation counts as a word break, so " dd " matches "dd?".
func (a *Assistant) Respond(msg string) string {
	text := " " + strings.Map(wordBreak, strings.ToLower(strings.TrimSpace(msg))) + " "
	for _, r := range a.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return r.Reply
			}
		}
	}
	return a.fallback
}

func wordBreak(r rune) rune {
	if unicode.IsPunct(r) || unicode.IsSymbol(r) {
		return ' '
	}
	return r
}

// Analysis is the canned brief attached to an "AI analysis" action
type Analysis struct {
	Rating     string   `json:"rating"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	Risks      []string `json:"risks"`
}

// String renders the analysis as plain text
func (an Analysis) String() string {
	var sb strings.Builder
	sb.WriteString(an.Rating)
	sb.WriteString(": ")
	sb.WriteString(an.Summary)
	for _, h := range an.Highlights {
		sb.WriteString("\n  + ")
		sb.WriteString(h)
	}
	for _, r := range an.Risks {
		sb.WriteString("\n  - ")
		sb.WriteString(r)
	}
	return sb.String()
}

// Analyze builds a brief for s from its score, team and industry tags
func (a *Assistant) Analyze(s domain.Startup) Analysis {
	an := Analysis{Rating: rating(s.AIScore)}
	an.Summary = fmt.Sprintf("%s scores %d/100, raising %s for %.1f%% at %s stage.",
		s.Name, s.AIScore, orDash(s.Ask), s.Equity, orDash(s.Stage))

	if s.Founder.Verified {
		an.Highlights = append(an.Highlights, "Founder identity verified")
	} else {
		an.Risks = append(an.Risks, "Founder not yet verified")
	}
	switch {
	case s.TeamSize >= 10:
		an.Highlights = append(an.Highlights, fmt.Sprintf("Established team of %d", s.TeamSize))
	case s.TeamSize > 0 && s.TeamSize < 3:
		an.Risks = append(an.Risks, fmt.Sprintf("Small team (%d) carries key-person risk", s.TeamSize))
	}
	if s.Equity > 20 {
		an.Risks = append(an.Risks, fmt.Sprintf("High dilution ask (%.1f%%)", s.Equity))
	}
	for _, ind := range s.Industries {
		if note, ok := industryNotes[strings.ToLower(ind)]; ok {
			an.Highlights = append(an.Highlights, note)
		}
	}
	return an
}

var industryNotes = map[string]string{
	"ai":          "AI: strong investor appetite, crowded field",
	"fintech":     "Fintech: regulatory moat once licensed",
	"healthtech":  "Healthtech: long sales cycles, sticky revenue",
	"cleantech":   "Cleantech: policy tailwinds, capital intensive",
	"edtech":      "Edtech: distribution is the hard part",
	"saas":        "SaaS: recurring revenue, watch net retention",
	"marketplace": "Marketplace: network effects if liquidity is reached",
}

func rating(score int) string {
	switch {
	case score >= 90:
		return "Strong"
	case score >= 75:
		return "Promising"
	case score >= 60:
		return "Mixed"
	default:
		return "Weak"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
