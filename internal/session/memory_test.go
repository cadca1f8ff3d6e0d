package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	slots := Slots{Summary: "Sync", Alternatives: []Alternative{{Start: "a", End: "b"}}}
	require.NoError(t, store.Save(ctx, "s1", slots))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Sync", got.Summary)
	assert.False(t, got.UpdatedAt.IsZero())

	// Mutating a returned copy must not leak into the store.
	got.Alternatives[0].Start = "x"
	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Alternatives[0].Start)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(ctx, "s1"))
}

func TestMemoryStore_EvictIdle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, "old", Slots{Summary: "a", UpdatedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Save(ctx, "fresh", Slots{Summary: "b", UpdatedAt: now.Add(-time.Minute)}))

	evicted, err := store.EvictIdle(ctx, now.Add(-30*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, store.Len())
	_, err = store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
}
