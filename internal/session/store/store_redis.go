package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"whisperwall/internal/session"
	"whisperwall/pkg/sentinel"
)

const keyPrefix = "session:"

// RedisSessionStore persists sessions in Redis with a native TTL, so expiry
// needs no sweeper: expired tokens simply stop resolving.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, record session.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save session: record already expired")
	}
	if err := s.client.Set(ctx, keyPrefix+record.Token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Find(ctx context.Context, token string) (*session.Record, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("find session: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	var record session.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &record, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
