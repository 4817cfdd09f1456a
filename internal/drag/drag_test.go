package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/dealflow/internal/domain"
)

type moveCall struct {
	id       string
	from, to domain.ColumnID
}

type recordingMover struct {
	calls []moveCall
}

func (m *recordingMover) Move(id string, from, to domain.ColumnID) (bool, error) {
	m.calls = append(m.calls, moveCall{id, from, to})
	return true, nil
}

func TestDetectBackend(t *testing.T) {
	assert.Equal(t, Touch, DetectBackend(true))
	assert.Equal(t, Pointer, DetectBackend(false))
	assert.Equal(t, "touch", Touch.String())

	c := NewController(Touch, &recordingMover{}, nil)
	assert.Equal(t, Touch, c.Backend())
}

func TestDropIntoOtherColumnMoves(t *testing.T) {
	m := &recordingMover{}
	c := NewController(Pointer, m, nil)

	require.NoError(t, c.Begin(Payload{StartupID: "1", FromColumn: domain.ColumnInterested}))
	assert.True(t, c.IsDragging("1"))
	assert.False(t, c.IsDragging("2"))

	c.Hover(domain.ColumnUnderReview)
	assert.True(t, c.IsOver(domain.ColumnUnderReview))
	assert.False(t, c.IsOver(domain.ColumnInvested))

	moved, err := c.Drop(domain.ColumnUnderReview)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []moveCall{{"1", domain.ColumnInterested, domain.ColumnUnderReview}}, m.calls)
	assert.False(t, c.IsDragging("1"))
}

func TestDropIntoSourceColumnIsSuppressed(t *testing.T) {
	m := &recordingMover{}
	c := NewController(Pointer, m, nil)

	require.NoError(t, c.Begin(Payload{StartupID: "1", FromColumn: domain.ColumnInterested}))
	assert.False(t, c.CanDrop(domain.ColumnInterested))
	assert.False(t, c.IsOver(domain.ColumnInterested))

	moved, err := c.Drop(domain.ColumnInterested)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Empty(t, m.calls)

	_, active := c.Active()
	assert.False(t, active)
}

func TestOneDragAtATime(t *testing.T) {
	c := NewController(Pointer, &recordingMover{}, nil)

	require.NoError(t, c.Begin(Payload{StartupID: "1", FromColumn: domain.ColumnInterested}))
	err := c.Begin(Payload{StartupID: "2", FromColumn: domain.ColumnInterested})
	assert.ErrorIs(t, err, ErrDragInProgress)

	c.Cancel()
	require.NoError(t, c.Begin(Payload{StartupID: "2", FromColumn: domain.ColumnInterested}))
}

func TestDropWithoutDrag(t *testing.T) {
	c := NewController(Pointer, &recordingMover{}, nil)
	_, err := c.Drop(domain.ColumnInvested)
	assert.ErrorIs(t, err, ErrNoDrag)

	c.Hover(domain.ColumnInvested)
	_, ok := c.Hovered()
	assert.False(t, ok)
	assert.False(t, c.IsOver(domain.ColumnInvested))
}
