package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupJob_RunOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "idle", Slots{Summary: "a", UpdatedAt: now.Add(-31 * time.Minute)}))
	require.NoError(t, store.Save(ctx, "active", Slots{Summary: "b", UpdatedAt: now.Add(-29 * time.Minute)}))

	job := NewCleanupJob(store, CleanupConfig{IdleTimeout: 30 * time.Minute}, nil)
	job.now = func() time.Time { return now }

	evicted, err := job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	_, err = store.Get(ctx, "active")
	assert.NoError(t, err)
}

func TestCleanupJob_Defaults(t *testing.T) {
	job := NewCleanupJob(NewMemoryStore(), CleanupConfig{}, nil)
	assert.Equal(t, DefaultIdleTimeout, job.config.IdleTimeout)
	assert.Equal(t, DefaultCleanupInterval, job.config.CleanupInterval)
}

func TestCleanupJob_StartStop(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "idle", Slots{Summary: "a", UpdatedAt: time.Now().Add(-time.Hour)}))

	job := NewCleanupJob(store, CleanupConfig{IdleTimeout: time.Minute, CleanupInterval: 10 * time.Millisecond}, nil)
	job.Start(ctx)
	job.Start(ctx)
	assert.True(t, job.IsRunning())

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)

	job.Stop()
	job.Stop()
	assert.False(t, job.IsRunning())
}
