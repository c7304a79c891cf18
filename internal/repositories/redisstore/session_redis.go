package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

const sessionKeyPrefix = "session:"

// SessionRedis stores service-issued session tokens mapped to user ids.
type SessionRedis struct {
	client *redis.Client
}

func NewSessionRedis(client *redis.Client) repositories.SessionRepository {
	return &SessionRedis{client: client}
}

func (s *SessionRedis) Create(ctx context.Context, token, userID string, ttl time.Duration) error {
	if s.client == nil {
		return fmt.Errorf("session store not configured")
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *SessionRedis) Get(ctx context.Context, token string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("session store not configured")
	}
	userID, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repositories.ErrNotFound
		}
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return userID, nil
}

func (s *SessionRedis) Delete(ctx context.Context, token string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
