package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

// FakeRedisClient implements xredis.Client with in-process sorted sets.
type FakeRedisClient struct {
	mutex sync.Mutex
	sets  map[string]map[string]float64
}

func NewFakeRedisClient() *FakeRedisClient {
	return &FakeRedisClient{sets: make(map[string]map[string]float64)}
}

func (c *FakeRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, ok := c.sets[key]
	return ok, nil
}

func (c *FakeRedisClient) Del(ctx context.Context, keys ...string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, key := range keys {
		delete(c.sets, key)
	}

	return nil
}

func (c *FakeRedisClient) ZAdd(ctx context.Context, key string, z ...redis.Z) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	set := c.set(key)
	for _, member := range z {
		set[member.Member.(string)] = member.Score
	}

	return nil
}

func (c *FakeRedisClient) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.set(key)[member] += float64(incr)
	return nil
}

func (c *FakeRedisClient) ZRem(ctx context.Context, key string, member string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if set, ok := c.sets[key]; ok {
		delete(set, member)
		if len(set) == 0 {
			delete(c.sets, key)
		}
	}

	return nil
}

func (c *FakeRedisClient) ZRevRangeWithScores(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	result := []redis.Z{}
	for member, score := range c.sets[key] {
		result = append(result, redis.Z{Score: score, Member: member})
	}

	// Redis orders equal scores by member in reverse lexicographical order.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score == result[j].Score {
			return result[i].Member.(string) > result[j].Member.(string)
		}
		return result[i].Score > result[j].Score
	})

	if offset >= len(result) {
		return []redis.Z{}, nil
	}

	end := offset + limit
	if end > len(result) {
		end = len(result)
	}

	return result[offset:end], nil
}

func (c *FakeRedisClient) set(key string) map[string]float64 {
	set, ok := c.sets[key]
	if !ok {
		set = make(map[string]float64)
		c.sets[key] = set
	}

	return set
}
