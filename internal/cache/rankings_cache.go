package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockduel/internal/domain"

	"github.com/redis/go-redis/v9"
)

const defaultRankingTTL = 60 * time.Second

// RedisClient is the subset of redis.Client the ranking cache needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RankingPage is one cached leaderboard page plus the full row count.
type RankingPage struct {
	Rows  []domain.RankingSnapshot `json:"rows"`
	Total int                      `json:"total"`
}

// RankingCache keeps leaderboard pages in Redis for a short TTL so list
// reads between recomputations skip Postgres.
type RankingCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewRankingCache(client RedisClient, ttl time.Duration) *RankingCache {
	if ttl <= 0 {
		ttl = defaultRankingTTL
	}
	return &RankingCache{client: client, ttl: ttl}
}

func pageKey(rankType domain.RankType, periodID string, limit, offset int) string {
	return fmt.Sprintf("rankings:%s:%s:%d:%d", rankType, periodID, limit, offset)
}

// GetPage returns a cached page, or false on miss. Read errors count as
// misses; the store stays authoritative.
func (c *RankingCache) GetPage(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int) (*RankingPage, bool) {
	if c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, pageKey(rankType, periodID, limit, offset)).Bytes()
	if err != nil {
		return nil, false
	}
	var page RankingPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false
	}
	return &page, true
}

func (c *RankingCache) SetPage(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int, page RankingPage) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, pageKey(rankType, periodID, limit, offset), data, c.ttl).Err()
}

// Invalidate drops every cached page for (rankType, period) after a
// snapshot recomputation.
func (c *RankingCache) Invalidate(ctx context.Context, rankType domain.RankType, periodID string) error {
	if c.client == nil {
		return nil
	}
	pattern := fmt.Sprintf("rankings:%s:%s:*", rankType, periodID)
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
