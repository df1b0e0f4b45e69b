package cache

import (
	"context"
	"strconv"
	"time"

	"NotiFlow/pkg/redis"
)

// CountCache 未读数的短 TTL 读穿缓存；写路径只失效、不回填
type CountCache interface {
	GetOrSet(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (int64, error)) (int64, error)
	Invalidate(ctx context.Context, key string) error
}

type redisCountCache struct{}

// NewRedisCountCache Redis 不可用时自动降级为直接计算
func NewRedisCountCache() CountCache {
	return &redisCountCache{}
}

func (c *redisCountCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (int64, error)) (int64, error) {
	val, err := redis.GetOrSet(ctx, key, ttl, func(ctx context.Context) (string, error) {
		n, err := compute(ctx)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	})
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// 缓存值损坏时直接重算
		return compute(ctx)
	}
	return n, nil
}

func (c *redisCountCache) Invalidate(ctx context.Context, key string) error {
	if !redis.IsConnected() {
		return nil
	}
	_, err := redis.Del(ctx, key)
	return err
}
