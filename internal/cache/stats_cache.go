package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	typeStatsKey    = "stats:types"
	companyStatsKey = "stats:companies"
)

// StatsCache keeps running counts of archived reports in Redis sorted sets
type StatsCache interface {
	Increment(ctx context.Context, typeName, company string) error
	Decrement(ctx context.Context, typeName, company string) error
	ByType(ctx context.Context) (map[string]int, error)
	ByCompany(ctx context.Context) (map[string]int, error)
	// Reset replaces both counters, used to rebuild them from Mongo
	Reset(ctx context.Context, byType, byCompany map[string]int) error
}

type statsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{
		client: client,
	}
}

func (c *statsCache) Increment(ctx context.Context, typeName, company string) error {
	pipe := c.client.TxPipeline()
	pipe.ZIncrBy(ctx, typeStatsKey, 1, typeName)
	pipe.ZIncrBy(ctx, companyStatsKey, 1, company)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *statsCache) Decrement(ctx context.Context, typeName, company string) error {
	pipe := c.client.TxPipeline()
	pipe.ZIncrBy(ctx, typeStatsKey, -1, typeName)
	pipe.ZIncrBy(ctx, companyStatsKey, -1, company)
	// Drop members that reached zero so they disappear from the dashboard
	pipe.ZRemRangeByScore(ctx, typeStatsKey, "-inf", "0")
	pipe.ZRemRangeByScore(ctx, companyStatsKey, "-inf", "0")
	_, err := pipe.Exec(ctx)
	return err
}

func (c *statsCache) ByType(ctx context.Context) (map[string]int, error) {
	return c.read(ctx, typeStatsKey)
}

func (c *statsCache) ByCompany(ctx context.Context) (map[string]int, error) {
	return c.read(ctx, companyStatsKey)
}

func (c *statsCache) Reset(ctx context.Context, byType, byCompany map[string]int) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, typeStatsKey, companyStatsKey)
	for k, n := range byType {
		pipe.ZAdd(ctx, typeStatsKey, redis.Z{Score: float64(n), Member: k})
	}
	for k, n := range byCompany {
		pipe.ZAdd(ctx, companyStatsKey, redis.Z{Score: float64(n), Member: k})
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *statsCache) read(ctx context.Context, key string) (map[string]int, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		counts[member] = int(z.Score)
	}
	return counts, nil
}
