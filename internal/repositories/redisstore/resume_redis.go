package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

// resumeKeyPrefix mirrors the single draft key the web client used for
// its local snapshot.
const resumeKeyPrefix = "resumeData:"

// ResumeRedis persists resume drafts as whole JSON snapshots, one per
// student. Drafts have no TTL; a draft lives until overwritten or deleted.
type ResumeRedis struct {
	client *redis.Client
}

func NewResumeRedis(client *redis.Client) repositories.ResumeRepository {
	return &ResumeRedis{client: client}
}

func (r *ResumeRedis) Save(ctx context.Context, userID string, data *models.ResumeData) error {
	if r.client == nil {
		return fmt.Errorf("resume store not configured")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal resume draft: %w", err)
	}

	if err := r.client.Set(ctx, resumeKeyPrefix+userID, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save resume draft: %w", err)
	}
	return nil
}

func (r *ResumeRedis) Load(ctx context.Context, userID string) (*models.ResumeData, error) {
	if r.client == nil {
		return nil, fmt.Errorf("resume store not configured")
	}

	payload, err := r.client.Get(ctx, resumeKeyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load resume draft: %w", err)
	}

	var data models.ResumeData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume draft: %w", err)
	}
	return &data, nil
}

func (r *ResumeRedis) Delete(ctx context.Context, userID string) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, resumeKeyPrefix+userID).Err()
}
