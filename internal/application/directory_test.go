package application

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tomlrepo "github.com/abdallah-zarea/savior-bot/internal/adapters/repo/toml"
	"github.com/abdallah-zarea/savior-bot/internal/domain"
	"github.com/abdallah-zarea/savior-bot/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDirectoryEnsureRegisteredOnlyOnce(t *testing.T) {
	joined := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	store := mocks.NewMockDirectoryStore(t)
	store.EXPECT().Load(mockAnyContext()).Return(domain.DirectorySnapshot{}, nil)
	store.EXPECT().Apply(mockAnyContext(), domain.RegisterChange(domain.Requester{
		ID: "r1", DisplayName: "Sara", Handle: "sara", JoinedAt: joined,
	})).Return(nil).Once()
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(joined).Once()

	directory := NewDirectory(context.Background(), store, clock, discardLogger())
	sender := domain.Sender{ID: "r1", DisplayName: "Sara", Handle: "sara"}

	assert.True(t, directory.EnsureRegistered(context.Background(), sender))
	assert.False(t, directory.EnsureRegistered(context.Background(), sender))
	assert.Equal(t, 1, directory.Count())

	got, err := directory.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, "Sara", got.DisplayName)
	assert.Equal(t, joined, got.JoinedAt)
}

func TestDirectoryLoadsSnapshot(t *testing.T) {
	store := mocks.NewMockDirectoryStore(t)
	store.EXPECT().Load(mockAnyContext()).Return(domain.DirectorySnapshot{
		Requesters: map[domain.RequesterID]domain.Requester{
			"r1": {DisplayName: "Sara"},
			"r2": {DisplayName: "Omar"},
		},
		Banned: []domain.RequesterID{"r2", "r9"},
	}, nil)

	directory := NewDirectory(context.Background(), store, nil, discardLogger())

	assert.Equal(t, 2, directory.Count())
	assert.Equal(t, 2, directory.BannedCount())
	assert.True(t, directory.IsBanned("r9"))
	assert.False(t, directory.IsBanned("r1"))
	assert.Equal(t, []domain.RequesterID{"r1"}, directory.Reachable())

	got, err := directory.Get("r2")
	require.NoError(t, err)
	assert.True(t, got.Banned)
	assert.Equal(t, domain.RequesterID("r2"), got.ID)
}

func TestDirectoryBanIsIdempotentAndIndependentOfRegistration(t *testing.T) {
	store := mocks.NewMockDirectoryStore(t)
	store.EXPECT().Load(mockAnyContext()).Return(domain.DirectorySnapshot{}, nil)
	store.EXPECT().Apply(mockAnyContext(), domain.BanChange("ghost")).Return(nil).Once()
	store.EXPECT().Apply(mockAnyContext(), domain.UnbanChange("ghost")).Return(nil).Once()

	directory := NewDirectory(context.Background(), store, nil, discardLogger())

	assert.True(t, directory.Ban(context.Background(), "ghost"))
	assert.False(t, directory.Ban(context.Background(), "ghost"))
	assert.True(t, directory.IsBanned("ghost"))
	assert.Equal(t, 0, directory.Count())
	assert.Equal(t, 1, directory.BannedCount())

	assert.True(t, directory.Unban(context.Background(), "ghost"))
	assert.False(t, directory.Unban(context.Background(), "ghost"))
	assert.False(t, directory.IsBanned("ghost"))

	_, err := directory.Get("ghost")
	assert.ErrorIs(t, err, domain.ErrRequesterNotFound)
}

func TestDirectoryBannedRequestersIncludeUnregisteredIDs(t *testing.T) {
	t.Parallel()

	joined := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	directory := NewDirectory(context.Background(), nil, fixedClock{now: joined}, discardLogger())
	directory.EnsureRegistered(context.Background(), domain.Sender{ID: "r2", DisplayName: "Omar"})
	directory.EnsureRegistered(context.Background(), domain.Sender{ID: "r3"})
	directory.Ban(context.Background(), "r2")
	directory.Ban(context.Background(), "r1")

	assert.Equal(t, []domain.Requester{
		{ID: "r1", Banned: true},
		{ID: "r2", DisplayName: "Omar", JoinedAt: joined, Banned: true},
	}, directory.BannedRequesters())
	assert.Equal(t, []domain.RequesterID{"r3"}, directory.Reachable())
}

func TestDirectoriesSharingAStoreKeepEachOthersChanges(t *testing.T) {
	t.Parallel()

	store, err := tomlrepo.NewRepository(filepath.Join(t.TempDir(), "directory.toml"))
	require.NoError(t, err)
	ctx := context.Background()

	server := NewDirectory(ctx, store, nil, discardLogger())
	server.EnsureRegistered(ctx, domain.Sender{ID: "r1"})

	offline := NewDirectory(ctx, store, nil, discardLogger())
	require.True(t, offline.Ban(ctx, "r1"))

	server.EnsureRegistered(ctx, domain.Sender{ID: "r2"})
	server.Ban(ctx, "r4")
	offline.Unban(ctx, "r4")

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.RequesterID{"r1", "r4"}, snapshot.Banned, "an unban for a ban this copy never saw leaves the store alone")
	assert.Len(t, snapshot.Requesters, 2)

	restarted := NewDirectory(ctx, store, nil, discardLogger())
	assert.True(t, restarted.IsBanned("r1"))
	assert.Equal(t, []domain.RequesterID{"r2"}, restarted.Reachable())
}

func TestDirectoryStoreFailuresKeepMemoryAuthoritative(t *testing.T) {
	store := mocks.NewMockDirectoryStore(t)
	store.EXPECT().Load(mockAnyContext()).Return(domain.DirectorySnapshot{}, errors.New("disk gone"))
	store.EXPECT().Apply(mockAnyContext(), mock.Anything).Return(errors.New("disk gone"))

	directory := NewDirectory(context.Background(), store, nil, discardLogger())

	assert.True(t, directory.EnsureRegistered(context.Background(), domain.Sender{ID: "r1"}))
	assert.True(t, directory.Ban(context.Background(), "r2"))
	assert.Equal(t, 1, directory.Count())
	assert.True(t, directory.IsBanned("r2"))
}

func TestDirectoryRequestersSortedByJoinTime(t *testing.T) {
	t.Parallel()

	clock := &steppingClock{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	directory := NewDirectory(context.Background(), nil, clock, discardLogger())
	for _, id := range []string{"r3", "r1", "r2"} {
		directory.EnsureRegistered(context.Background(), domain.Sender{ID: id})
	}
	directory.Ban(context.Background(), "r1")

	requesters := directory.Requesters()
	require.Len(t, requesters, 3)
	assert.Equal(t, domain.RequesterID("r3"), requesters[0].ID)
	assert.True(t, requesters[1].Banned)

	snapshot := directory.Snapshot()
	assert.Len(t, snapshot.Requesters, 3)
	assert.Equal(t, []domain.RequesterID{"r1"}, snapshot.Banned)
}
