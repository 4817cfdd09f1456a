package similar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/dealflow/internal/domain"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}

func TestRank(t *testing.T) {
	target := domain.Startup{ID: "1", Industries: []string{"AI", "Fintech"}, AIScore: 90}
	pool := []domain.Startup{
		target,
		{ID: "2", Industries: []string{"cleantech"}, AIScore: 90},
		{ID: "3", Industries: []string{"ai", "fintech"}, AIScore: 85},
		{ID: "4", Industries: []string{"AI"}, AIScore: 70},
		{ID: "5", Industries: []string{"AI"}, AIScore: 70},
	}

	got := Rank(target, pool, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].Startup.ID)
	// 4 and 5 tie and fall back to id order
	assert.Equal(t, "4", got[1].Startup.ID)
	assert.Equal(t, "5", got[2].Startup.ID)
	assert.Greater(t, got[0].Similarity, got[1].Similarity)

	assert.Len(t, Rank(target, pool, -1), 4)
}
