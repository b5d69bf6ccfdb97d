package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"inventory-service/internal/core/domain"
	output "inventory-service/internal/core/ports/output"
)

const (
	generationKey = "reorder:gen"            // {prefix}reorder:gen -> int
	suggestionKey = "reorder:s:%d:%d:%d:%s" // {prefix}reorder:s:{gen}:{days}:{coverage}:{min_qty}
)

// SuggestionCache keeps reorder suggestion sets in Redis. Invalidate bumps a
// generation counter so stale sets are never read again and expire on
// their own TTL.
type SuggestionCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSuggestionCache creates a new SuggestionCache
func NewSuggestionCache(client *redis.Client, prefix string, ttl time.Duration) output.SuggestionCache {
	return &SuggestionCache{client: client, prefix: prefix, ttl: ttl}
}

// NewClient parses a redis:// URL and returns a connected client.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *SuggestionCache) Get(ctx context.Context, key string) ([]*domain.ReorderSuggestion, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get suggestions: %w", err)
	}

	var rows []*domain.ReorderSuggestion
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal suggestions: %w", err)
	}
	return rows, true, nil
}

func (c *SuggestionCache) Set(ctx context.Context, key string, rows []*domain.ReorderSuggestion) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestions: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set suggestions: %w", err)
	}
	return nil
}

func (c *SuggestionCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.prefix+generationKey).Err(); err != nil {
		return fmt.Errorf("failed to bump suggestion generation: %w", err)
	}
	return nil
}

// Key embeds the current generation, so sets written under a key resolved
// before an Invalidate are unreachable afterwards.
func (c *SuggestionCache) Key(ctx context.Context, params domain.ReorderParams) (string, error) {
	gen, err := c.client.Get(ctx, c.prefix+generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to get suggestion generation: %w", err)
	}
	return c.prefix + fmt.Sprintf(suggestionKey, gen, params.Days, params.CoverageDays, params.MinQty.String()), nil
}
