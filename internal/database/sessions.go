package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/session"
)

// SessionStore persists conversation slots in the sessions table.
type SessionStore struct {
	db *DB
}

var _ session.Store = (*SessionStore)(nil)

func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Get(ctx context.Context, id string) (session.Slots, error) {
	var raw string
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT slots, updated_at FROM sessions WHERE id = ?
	`, id).Scan(&raw, &updatedAt)

	if err == sql.ErrNoRows {
		return session.Slots{}, session.ErrNotFound
	}
	if err != nil {
		return session.Slots{}, fmt.Errorf("failed to get session: %w", err)
	}

	var slots session.Slots
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return session.Slots{}, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	slots.UpdatedAt = time.UnixMilli(updatedAt)
	return slots, nil
}

func (s *SessionStore) Save(ctx context.Context, id string, slots session.Slots) error {
	if slots.UpdatedAt.IsZero() {
		slots.UpdatedAt = time.Now()
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, slots, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slots = excluded.slots,
			updated_at = excluded.updated_at
	`, id, string(raw), slots.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) EvictIdle(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to evict idle sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count evicted sessions: %w", err)
	}
	return int(n), nil
}
