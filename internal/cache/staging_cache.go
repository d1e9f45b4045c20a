package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rehabdelivery/rehab_api/internal/models"
)

// StagingCache stores operator-editable staged ingestion batches in Redis.
// A batch lives until it is committed, discarded, or its TTL expires.
type StagingCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewStagingCache creates a new StagingCache with the configured batch TTL.
func NewStagingCache(redis *RedisClient, ttl time.Duration) *StagingCache {
	return &StagingCache{
		redis: redis,
		ttl:   ttl,
	}
}

// key returns the Redis key for a staged batch.
func (c *StagingCache) key(batchID string) string {
	return fmt.Sprintf("staging:batch:%s", batchID)
}

// Put stores a staged batch, refreshing its TTL. Used both for the initial
// staging and after every operator edit.
func (c *StagingCache) Put(ctx context.Context, batch *models.StagedBatch) error {
	jsonData, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal staged batch: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(batch.ID), string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to store staged batch: %w", err)
	}
	return nil
}

// Get retrieves a staged batch by ID. Returns (nil, nil) when the batch does
// not exist or has expired.
func (c *StagingCache) Get(ctx context.Context, batchID string) (*models.StagedBatch, error) {
	jsonData, err := c.redis.Get(ctx, c.key(batchID))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}

	var batch models.StagedBatch
	if err := json.Unmarshal([]byte(jsonData), &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal staged batch: %w", err)
	}
	return &batch, nil
}

// Delete removes a staged batch after commit or discard.
func (c *StagingCache) Delete(ctx context.Context, batchID string) error {
	return c.redis.Delete(ctx, c.key(batchID))
}
