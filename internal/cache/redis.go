package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldBody      = "body"
	fieldFetchedAt = "fetched_at"
)

// RedisCache stores documents as hashes holding the body and the unix fetch time.
type RedisCache struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL, prefix string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rc := NewRedisCacheFromClient(redis.NewClient(opt), prefix)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.HealthCheck(ctx); err != nil {
		rc.Close()
		return nil, err
	}
	return rc, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// HealthCheck pings the server.
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *RedisCache) key(key string) string {
	return rc.prefix + key
}

func (rc *RedisCache) Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool, error) {
	values, err := rc.client.HMGet(ctx, rc.key(key), fieldBody, fieldFetchedAt).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	body, ok := values[0].(string)
	if !ok {
		return nil, false, nil
	}
	stamp, _ := values[1].(string)
	fetchedAt, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return nil, false, nil
	}
	if expired(time.Unix(fetchedAt, 0), maxAge, rc.now()) {
		return nil, false, nil
	}
	return []byte(body), true, nil
}

func (rc *RedisCache) Put(ctx context.Context, key string, body []byte) error {
	err := rc.client.HSet(ctx, rc.key(key),
		fieldBody, body,
		fieldFetchedAt, rc.now().Unix(),
	).Err()
	if err != nil {
		return fmt.Errorf("redis put %s: %w", key, err)
	}
	return nil
}
