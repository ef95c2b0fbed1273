package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"creator-market/services/analytics/internal/entity"

	"github.com/redis/go-redis/v9"
)

// SalesSummaryCache stores summaries under a per-creator generation.
// Invalidate bumps the generation, so a summary computed before a sale is
// written under an old generation and never read again.
type SalesSummaryCache interface {
	Generation(ctx context.Context, creatorID string) (int64, error)
	Get(ctx context.Context, creatorID string, generation int64) (*entity.SalesSummary, error)
	Set(ctx context.Context, creatorID string, generation int64, summary *entity.SalesSummary) error
	Invalidate(ctx context.Context, creatorID string) error
}

type salesSummaryCache struct {
	redisClient redis.Cmdable
	ttl         time.Duration
}

func NewSalesSummaryCache(redisClient redis.Cmdable, ttl time.Duration) SalesSummaryCache {
	return &salesSummaryCache{redisClient: redisClient, ttl: ttl}
}

func SalesSummaryKey(creatorID string, generation int64) string {
	return fmt.Sprintf("sales_summary:%s:%d", creatorID, generation)
}

func GenerationKey(creatorID string) string {
	return fmt.Sprintf("sales_summary_gen:%s", creatorID)
}

func (c *salesSummaryCache) Generation(ctx context.Context, creatorID string) (int64, error) {
	generation, err := c.redisClient.Get(ctx, GenerationKey(creatorID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// Get returns nil without an error on a miss.
func (c *salesSummaryCache) Get(ctx context.Context, creatorID string, generation int64) (*entity.SalesSummary, error) {
	data, err := c.redisClient.Get(ctx, SalesSummaryKey(creatorID, generation)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var summary entity.SalesSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode cached summary: %w", err)
	}
	return &summary, nil
}

func (c *salesSummaryCache) Set(ctx context.Context, creatorID string, generation int64, summary *entity.SalesSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.redisClient.Set(ctx, SalesSummaryKey(creatorID, generation), data, c.ttl).Err()
}

// Invalidate moves the creator to a new generation and drops the entry of the
// previous one. Entries of older generations expire on their own.
func (c *salesSummaryCache) Invalidate(ctx context.Context, creatorID string) error {
	generation, err := c.redisClient.Incr(ctx, GenerationKey(creatorID)).Result()
	if err != nil {
		return err
	}
	return c.redisClient.Del(ctx, SalesSummaryKey(creatorID, generation-1)).Err()
}
