package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgcache "shelfline/pkg/cache"
	"shelfline/pkg/logger"
)

// NewRedisClient builds a go-redis client with pool defaults tuned for a
// single-node deployment.
func NewRedisClient(host, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         host,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// redisTagCache implements pkg/cache.TagCache on Redis. Each value lives
// under its own key; the members of a tag are tracked in a Redis set named
// "tag:<tag>" so InvalidateTag can drop them in one round trip.
//
// Redis outages degrade every read to a direct compute call; no error from
// this type's read path ever reaches the caller.
type redisTagCache struct {
	client *redis.Client
}

func NewRedisTagCache(client *redis.Client) pkgcache.TagCache {
	return &redisTagCache{client: client}
}

func tagSetKey(tag string) string {
	return "tag:" + tag
}

func (c *redisTagCache) GetOrCompute(ctx context.Context, key, tag string, ttl time.Duration, compute pkgcache.ComputeFn) ([]byte, error) {
	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		// Cache outage: fall through to compute. The cache is an
		// accelerator, not a correctness dependency.
		logger.Warn("cache read failed, computing directly", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return compute(ctx)
	}

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	// Register the key under its tag before the value becomes readable so
	// an invalidation racing this miss can never strand an untagged entry.
	// A value computed from a pre-write snapshot and stored after the
	// invalidation can still be served until the next write or the TTL;
	// the short TTL bounds that window.
	pipe := c.client.TxPipeline()
	pipe.SAdd(ctx, tagSetKey(tag), key)
	pipe.Set(ctx, key, value, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"tag":   tag,
			"error": err.Error(),
		})
	}

	return value, nil
}

func (c *redisTagCache) InvalidateTag(ctx context.Context, tag string) error {
	setKey := tagSetKey(tag)

	keys, err := c.client.SMembers(ctx, setKey).Result()
	if err != nil {
		logger.Warn("cache tag lookup failed during invalidation", map[string]interface{}{
			"tag":   tag,
			"error": err.Error(),
		})
		return nil
	}

	keys = append(keys, setKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("cache tag invalidation failed", map[string]interface{}{
			"tag":   tag,
			"error": err.Error(),
		})
	}

	return nil
}

func (c *redisTagCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
