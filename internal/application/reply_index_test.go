package application

import (
	"testing"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyIndexRecordAndResolve(t *testing.T) {
	t.Parallel()

	index := NewReplyIndex(10, nil)
	index.Record("o1", 100, "r1")
	index.Record("o2", 100, "r2")

	got, ok := index.Resolve("o1", 100)
	require.True(t, ok)
	assert.Equal(t, domain.RequesterID("r1"), got)

	got, ok = index.Resolve("o2", 100)
	require.True(t, ok)
	assert.Equal(t, domain.RequesterID("r2"), got)

	_, ok = index.Resolve("o1", 101)
	assert.False(t, ok)
	_, ok = index.Resolve("o3", 100)
	assert.False(t, ok)
}

func TestReplyIndexEvictsOldestPastCapacity(t *testing.T) {
	t.Parallel()

	index := NewReplyIndex(3, nil)
	for handle := domain.MessageHandle(1); handle <= 5; handle++ {
		index.Record("o1", handle, "r1")
	}

	assert.Equal(t, 3, index.Len("o1"))
	for _, handle := range []domain.MessageHandle{1, 2} {
		_, ok := index.Resolve("o1", handle)
		assert.False(t, ok, "handle %d", handle)
	}
	for _, handle := range []domain.MessageHandle{3, 4, 5} {
		_, ok := index.Resolve("o1", handle)
		assert.True(t, ok, "handle %d", handle)
	}
}

func TestReplyIndexKeepsLatestEntryOfClaimedRequester(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(nil)
	_, err := ledger.Claim("r1", "o1", "Nour")
	require.NoError(t, err)

	index := NewReplyIndex(2, func(op domain.OperatorID, req domain.RequesterID) bool {
		return ledger.IsOwnedBy(req, op)
	})
	index.Record("o1", 1, "r1")
	index.Record("o1", 2, "r2")
	index.Record("o1", 3, "r3")
	index.Record("o1", 4, "r4")

	got, ok := index.Resolve("o1", 1)
	require.True(t, ok)
	assert.Equal(t, domain.RequesterID("r1"), got)
	assert.Equal(t, 2, index.Len("o1"))

	_, ok = index.Resolve("o1", 2)
	assert.False(t, ok)
	_, ok = index.Resolve("o1", 3)
	assert.False(t, ok)

	// once released the pinned entry is the oldest again
	_, err = ledger.Release("r1", "o1")
	require.NoError(t, err)
	index.Record("o1", 5, "r5")

	_, ok = index.Resolve("o1", 1)
	assert.False(t, ok)
	assert.Equal(t, 2, index.Len("o1"))
}

func TestReplyIndexPinsOnlyNewestEntryPerRequester(t *testing.T) {
	t.Parallel()

	index := NewReplyIndex(2, func(domain.OperatorID, domain.RequesterID) bool { return true })
	index.Record("o1", 1, "r1")
	index.Record("o1", 2, "r1")
	index.Record("o1", 3, "r1")

	_, ok := index.Resolve("o1", 1)
	assert.False(t, ok)
	_, ok = index.Resolve("o1", 3)
	assert.True(t, ok)
	assert.Equal(t, 2, index.Len("o1"))
}

func TestReplyIndexDefaultCapacity(t *testing.T) {
	t.Parallel()

	index := NewReplyIndex(0, nil)
	for handle := domain.MessageHandle(1); handle <= DefaultReplyIndexCapacity+10; handle++ {
		index.Record("o1", handle, "r1")
	}
	assert.Equal(t, DefaultReplyIndexCapacity, index.Len("o1"))
}
