package assistant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/dealflow/internal/domain"
)

func TestRespond(t *testing.T) {
	a := New(nil)

	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"valuation keyword", "How do I think about VALUATION here?", DefaultRules()[0].Reply},
		{"dd as a word", "what goes into dd for a seed deal", DefaultRules()[1].Reply},
		{"dd inside a word is ignored", "I added a note", defaultFallback},
		{"first matching rule wins", "market for term sheets", DefaultRules()[2].Reply},
		{"greeting", "hi", DefaultRules()[6].Reply},
		{"greeting with punctuation", "hi!", DefaultRules()[6].Reply},
		{"dd followed by a question mark", "how long does dd?", DefaultRules()[1].Reply},
		{"dd in parentheses", "(dd) checklist please", DefaultRules()[1].Reply},
		{"fallback", "tell me a joke", defaultFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Respond(tt.msg))
		})
	}
}

func TestAnalyze(t *testing.T) {
	a := New(nil)
	an := a.Analyze(domain.Startup{
		Name:       "TechFlow AI",
		Ask:        "$2M",
		Equity:     25,
		Stage:      "Seed",
		TeamSize:   2,
		AIScore:    92,
		Industries: []string{"AI", "SaaS", "unknown"},
	})

	assert.Equal(t, "Strong", an.Rating)
	assert.Contains(t, an.Summary, "TechFlow AI scores 92/100")
	assert.Len(t, an.Highlights, 2)
	assert.Contains(t, an.Risks, "Founder not yet verified")
	assert.Contains(t, an.Risks, "Small team (2) carries key-person risk")
	assert.Contains(t, an.Risks, "High dilution ask (25.0%)")
	assert.Contains(t, an.String(), "\n  - Founder not yet verified")
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- keywords: [exit, ipo]
  reply: Exits take a decade.
`), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, "Exits take a decade.", New(rules).Respond("when is the IPO?"))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- keywords: []\n  reply: x\n"), 0o644))
	_, err = LoadRules(bad)
	assert.Error(t, err)
}
