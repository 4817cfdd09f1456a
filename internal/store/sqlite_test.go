package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/dealflow/internal/board"
	"github.com/pbaille/dealflow/internal/domain"
	"github.com/pbaille/dealflow/internal/seed"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndGetStartup(t *testing.T) {
	s := newTestStore(t)
	progress := 40

	added, err := s.AddStartup("founder-1", domain.ColumnUnderReview, domain.Startup{
		Name:       "QuantumLeap",
		Industries: []string{"Deeptech"},
		AIScore:    77,
		Founder:    domain.Founder{Name: "Ada", Verified: true},
		Progress:   &progress,
	})
	require.NoError(t, err)
	assert.Len(t, added.ID, 36)

	got, err := s.GetStartup(added.ID)
	require.NoError(t, err)
	assert.Equal(t, "QuantumLeap", got.Name)
	assert.Equal(t, "founder-1", got.OwnerID)
	assert.Equal(t, domain.ColumnUnderReview, got.Column)
	assert.Equal(t, []string{"Deeptech"}, got.Industries)
	assert.True(t, got.Founder.Verified)
	require.NotNil(t, got.Progress)
	assert.Equal(t, 40, *got.Progress)
	assert.Equal(t, domain.StatusActive, got.Status)
}

func TestGetStartupNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetStartup("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	e, err := s.AddStartup("", "", domain.Startup{ID: "x1", Name: "Before"})
	require.NoError(t, err)
	assert.Equal(t, domain.ColumnInterested, e.Column)

	e.Name = "After"
	e.Column = domain.ColumnInvested
	e.InvestedAmount = "$100K"
	require.NoError(t, s.UpdateStartup(*e))

	got, err := s.GetStartup("x1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, domain.ColumnInvested, got.Column)
	assert.Nil(t, got.Progress)

	require.NoError(t, s.DeleteStartup("x1"))
	assert.ErrorIs(t, s.DeleteStartup("x1"), ErrNotFound)
	assert.ErrorIs(t, s.UpdateStartup(*e), ErrNotFound)
}

func TestImportAndBoardSeed(t *testing.T) {
	s := newTestStore(t)

	n, err := s.Import("demo", seed.Default())
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	bs, err := s.BoardSeed()
	require.NoError(t, err)
	b, err := board.New(domain.DefaultColumns(), bs)
	require.NoError(t, err)

	interested, err := b.Column(domain.ColumnInterested)
	require.NoError(t, err)
	require.Len(t, interested, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{interested[0].ID, interested[1].ID, interested[2].ID})

	mine, err := s.ListByOwner("demo")
	require.NoError(t, err)
	assert.Len(t, mine, 7)

	none, err := s.ListByOwner("someone-else")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListAndSearch(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Import("demo", seed.Default())
	require.NoError(t, err)

	page, err := s.ListStartups(2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "2", page[0].ID)

	hits, err := s.SearchStartups("solar")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "GreenLeaf Energy", hits[0].Name)

	hits, err = s.SearchStartups("SaaS")
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}
