package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"archetype-quiz/internal/domain"
)

type redisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a Store backed by Redis, with the expiry handled by
// key TTLs. Each Save refreshes the TTL, so a session expires only after
// going idle.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisStore{
		client: client,
		prefix: "quiz:session:",
		ttl:    ttl,
	}
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*domain.QuizState, error) {
	data, err := s.client.Get(ctx, s.prefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session %s: %w", sessionID, err)
	}
	var state domain.QuizState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &state, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, state *domain.QuizState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, s.prefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", sessionID, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.prefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del session %s: %w", sessionID, err)
	}
	return nil
}
