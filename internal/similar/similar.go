// Package similar ranks startups that look alike, for "related deals" lists.
package similar

import (
	"math"
	"sort"
	"strings"

	"github.com/pbaille/dealflow/internal/domain"
)

// Match is a ranked related startup
type Match struct {
	Startup    domain.Startup `json:"startup"`
	Similarity float64        `json:"similarity"`
}

// Vectorizer turns startups into feature vectors over a shared industry vocabulary
type Vectorizer struct {
	vocab map[string]int
}

// NewVectorizer builds the vocabulary from every industry tag in pool
func NewVectorizer(pool []domain.Startup) *Vectorizer {
	var tags []string
	seen := make(map[string]bool)
	for _, s := range pool {
		for _, ind := range s.Industries {
			k := strings.ToLower(ind)
			if !seen[k] {
				seen[k] = true
				tags = append(tags, k)
			}
		}
	}
	sort.Strings(tags)

	v := &Vectorizer{vocab: make(map[string]int, len(tags))}
	for i, t := range tags {
		v.vocab[t] = i
	}
	return v
}

// Vector is one-hot industries followed by the AI score scaled to [0,1]
func (v *Vectorizer) Vector(s domain.Startup) []float64 {
	vec := make([]float64, len(v.vocab)+1)
	for _, ind := range s.Industries {
		if i, ok := v.vocab[strings.ToLower(ind)]; ok {
			vec[i] = 1
		}
	}
	vec[len(v.vocab)] = float64(s.AIScore) / 100
	return vec
}

// Rank returns the k startups in pool closest to target, excluding target itself
func Rank(target domain.Startup, pool []domain.Startup, k int) []Match {
	v := NewVectorizer(append([]domain.Startup{target}, pool...))
	tv := v.Vector(target)

	var matches []Match
	for _, s := range pool {
		if s.ID == target.ID {
			continue
		}
		matches = append(matches, Match{Startup: s, Similarity: CosineSimilarity(tv, v.Vector(s))})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity == matches[j].Similarity {
			return matches[i].Startup.ID < matches[j].Startup.ID
		}
		return matches[i].Similarity > matches[j].Similarity
	})

	if k >= 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// CosineSimilarity computes similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
