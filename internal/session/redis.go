package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "assistant:session:"

// RedisStore keeps slots as JSON values whose TTL is the idle timeout, so
// Redis expires abandoned sessions on its own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id string) (Slots, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Slots{}, ErrNotFound
	}
	if err != nil {
		return Slots{}, fmt.Errorf("failed to get session: %w", err)
	}

	var slots Slots
	if err := json.Unmarshal(data, &slots); err != nil {
		return Slots{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return slots, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, slots Slots) error {
	if slots.UpdatedAt.IsZero() {
		slots.UpdatedAt = time.Now()
	}
	b, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// EvictIdle is a no-op; keys expire through their TTL.
func (s *RedisStore) EvictIdle(context.Context, time.Time) (int, error) {
	return 0, nil
}
