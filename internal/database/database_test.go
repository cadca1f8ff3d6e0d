package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/database/migrations"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/session"
)

func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 2, count)

	exists, err := migrations.ColumnExists(db.DB, "bookings", "html_link")
	require.NoError(t, err)
	assert.True(t, exists)

	// Running again is a no-op.
	require.NoError(t, migrations.RunMigrations(db.DB, nil))
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	store := NewSessionStore(db)

	t.Run("missing session", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("save, overwrite and delete", func(t *testing.T) {
		updated := time.Date(2025, 7, 7, 11, 0, 0, 0, time.UTC)
		require.NoError(t, store.Save(ctx, "s1", session.Slots{
			Summary:   "Project Sync",
			StartTime: "2025-07-08T10:00:00+05:30",
			UpdatedAt: updated,
		}))

		got, err := store.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Project Sync", got.Summary)
		assert.Equal(t, "2025-07-08T10:00:00+05:30", got.StartTime)
		assert.True(t, got.UpdatedAt.Equal(updated))

		require.NoError(t, store.Save(ctx, "s1", session.Slots{
			Summary:      "Project Sync",
			Alternatives: []session.Alternative{{Start: "a", End: "b"}},
			UpdatedAt:    updated.Add(time.Minute),
		}))
		got, err = store.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, got.StartTime)
		assert.Equal(t, []session.Alternative{{Start: "a", End: "b"}}, got.Alternatives)

		require.NoError(t, store.Delete(ctx, "s1"))
		_, err = store.Get(ctx, "s1")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("evict idle", func(t *testing.T) {
		now := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
		require.NoError(t, store.Save(ctx, "idle", session.Slots{Summary: "a", UpdatedAt: now.Add(-time.Hour)}))
		require.NoError(t, store.Save(ctx, "active", session.Slots{Summary: "b", UpdatedAt: now}))

		evicted, err := store.EvictIdle(ctx, now.Add(-30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 1, evicted)

		_, err = store.Get(ctx, "idle")
		assert.ErrorIs(t, err, session.ErrNotFound)
		_, err = store.Get(ctx, "active")
		assert.NoError(t, err)
	})
}

func TestBookings(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)

	empty, err := db.ListBookings(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first := &Booking{
		SessionID:     "s1",
		CalendarID:    "primary",
		GoogleEventID: "evt1",
		Summary:       "Project Sync",
		StartTime:     "2025-07-08T10:00:00+05:30",
		EndTime:       "2025-07-08T11:00:00+05:30",
		HTMLLink:      "https://calendar.google.com/event?eid=evt1",
	}
	require.NoError(t, db.RecordBooking(ctx, first))
	assert.NotZero(t, first.ID)

	second := &Booking{
		SessionID:       "s2",
		CalendarID:      "primary",
		GoogleEventID:   "evt2",
		Summary:         "Retro",
		StartTime:       "2025-07-09T15:00:00+05:30",
		EndTime:         "2025-07-09T16:00:00+05:30",
		FromAlternative: true,
	}
	require.NoError(t, db.RecordBooking(ctx, second))

	bookings, err := db.ListBookings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "evt2", bookings[0].GoogleEventID)
	assert.True(t, bookings[0].FromAlternative)
	assert.Equal(t, "https://calendar.google.com/event?eid=evt1", bookings[1].HTMLLink)
	assert.False(t, bookings[1].CreatedAt.IsZero())

	limited, err := db.ListBookings(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
