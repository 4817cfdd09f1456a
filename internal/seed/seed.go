// Package seed provides the startups a board is mounted with.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/dealflow/internal/board"
	"github.com/pbaille/dealflow/internal/domain"
)

func intPtr(n int) *int { return &n }

// Default is the built-in demo pipeline
func Default() board.Seed {
	return board.Seed{
		domain.ColumnInterested: {
			{
				ID: "1", Name: "TechFlow AI", Logo: "🤖",
				Pitch: "AI-powered workflow automation for small businesses",
				Ask:   "$2M", Equity: 15, Stage: "Seed", TeamSize: 8,
				Industries: []string{"AI", "SaaS"}, AIScore: 92, Added: "2 days ago",
				Founder: domain.Founder{Name: "Sarah Chen", Avatar: "SC", Verified: true},
			},
			{
				ID: "2", Name: "GreenLeaf Energy", Logo: "🌱",
				Pitch: "Modular solar storage for apartment buildings",
				Ask:   "$5M", Equity: 20, Stage: "Series A", TeamSize: 14,
				Industries: []string{"Cleantech"}, AIScore: 85, Added: "5 days ago",
				Founder: domain.Founder{Name: "Marcus Johnson", Avatar: "MJ", Verified: true},
			},
			{
				ID: "3", Name: "EduSpark", Logo: "📚",
				Pitch: "Adaptive tutoring that follows each student's pace",
				Ask:   "$750K", Equity: 10, Stage: "Pre-seed", TeamSize: 3,
				Industries: []string{"Edtech", "AI"}, AIScore: 71, Added: "1 week ago",
				Founder: domain.Founder{Name: "Priya Patel", Avatar: "PP"},
			},
		},
		domain.ColumnUnderReview: {
			{
				ID: "4", Name: "MediTrack", Logo: "🏥",
				Pitch: "Remote patient monitoring for chronic care clinics",
				Ask:   "$3M", Equity: 12, Stage: "Seed", TeamSize: 11,
				Industries: []string{"Healthtech", "SaaS"}, AIScore: 88, Added: "2 weeks ago",
				Founder:  domain.Founder{Name: "David Kim", Avatar: "DK", Verified: true},
				Progress: intPtr(60), NextAction: "Technical due diligence call",
			},
			{
				ID: "5", Name: "PayBridge", Logo: "💳",
				Pitch: "Cross-border payouts for freelancers in emerging markets",
				Ask:   "$4M", Equity: 18, Stage: "Seed", TeamSize: 9,
				Industries: []string{"Fintech"}, AIScore: 81, Added: "3 weeks ago",
				Founder:  domain.Founder{Name: "Amara Okafor", Avatar: "AO", Verified: true},
				Progress: intPtr(35), NextAction: "Review financial model",
			},
		},
		domain.ColumnNegotiating: {
			{
				ID: "6", Name: "UrbanNest", Logo: "🏠",
				Pitch: "Marketplace for flexible mid-term rentals",
				Ask:   "$6M", Equity: 22, Stage: "Series A", TeamSize: 19,
				Industries: []string{"Marketplace", "Proptech"}, AIScore: 79, Added: "1 month ago",
				Founder:      domain.Founder{Name: "Lucas Moreau", Avatar: "LM"},
				LastActivity: "Term sheet sent", ExpectedClose: "Mar 30",
			},
		},
		domain.ColumnInvested: {
			{
				ID: "7", Name: "DataVault", Logo: "🔐",
				Pitch: "Zero-knowledge backups for regulated industries",
				Ask:   "$2.5M", Equity: 14, Stage: "Seed", TeamSize: 7,
				Industries: []string{"Security", "SaaS"}, AIScore: 90, Added: "3 months ago",
				Founder:        domain.Founder{Name: "Elena Rossi", Avatar: "ER", Verified: true},
				InvestedAmount: "$250K", InvestmentDate: "Jan 15",
			},
		},
	}
}

// Load reads a seed file keyed by column id
func Load(path string) (board.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var s board.Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for col, list := range s {
		for i, st := range list {
			if st.ID == "" || st.Name == "" {
				return nil, fmt.Errorf("seed %s[%d]: id and name are required", col, i)
			}
		}
	}
	return s, nil
}

// Save writes a seed file
func Save(path string, s board.Seed) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal seed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write seed: %w", err)
	}
	return nil
}
