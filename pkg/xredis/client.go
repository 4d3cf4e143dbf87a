package xredis

import (
	"context"
	"time"

	"github.com/klede-lab/waitlist/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key ...string) error

	// Sorted list
	ZAdd(ctx context.Context, key string, z ...redis.Z) error
	ZIncrBy(ctx context.Context, key string, incr int64, member string) error
	ZRem(ctx context.Context, key string, member string) error
	ZRevRangeWithScores(ctx context.Context, key string, offset, limit int) ([]redis.Z, error)
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Close() error {
	return c.redisClient.Close()
}

///// COMMON FEATURE
func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Uint64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) Del(ctx context.Context, key ...string) error {
	err := c.redisClient.Del(ctx, key...).Err()
	if err == nil || err == redis.Nil {
		return nil
	}

	return err
}

///// SORTED LIST
func (c *client) ZAdd(ctx context.Context, key string, z ...redis.Z) error {
	if len(z) == 0 {
		return nil
	}

	return c.redisClient.ZAdd(ctx, key, z...).Err()
}

func (c *client) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	return c.redisClient.ZIncrBy(ctx, key, float64(incr), member).Err()
}

func (c *client) ZRem(ctx context.Context, key string, member string) error {
	return c.redisClient.ZRem(ctx, key, member).Err()
}

func (c *client) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	result := c.redisClient.ZRevRangeWithScores(ctx, key, int64(offset), int64(offset+limit-1))
	return result.Result()
}
