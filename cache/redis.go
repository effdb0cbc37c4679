package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
)

// RedisStore wraps the shared Redis instance as the cache's back tier.
// TTLs ride on Redis' native key expiry.
type RedisStore struct {
	cli    *redis.Client
	logger *logrus.Logger
}

// NewRedisStore constructs the Redis client from host and port.
func NewRedisStore(host, port string, logger *logrus.Logger) *RedisStore {
	redisAddress := fmt.Sprintf("%s:%s", host, port)

	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})

	return &RedisStore{
		cli:    client,
		logger: logger,
	}
}

func (rs *RedisStore) Ping() error {
	val, err := rs.cli.Ping().Result()
	if err != nil {
		return err
	}
	rs.logger.WithFields(logrus.Fields{"path": "cache/redis"}).Info("Redis connected: ", val)
	return nil
}

func (rs *RedisStore) Get(ctx context.Context, key string) (string, time.Duration, bool, error) {
	value, err := rs.cli.Get(key).Result()
	if err == redis.Nil {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	remaining, err := rs.cli.PTTL(key).Result()
	if err != nil || remaining < 0 {
		// Without a known expiry the entry stays out of the front tier.
		remaining = 0
	}
	return value, remaining, true, nil
}

func (rs *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return rs.cli.Set(key, value, ttl).Err()
}

func (rs *RedisStore) DeletePattern(ctx context.Context, pattern string) (int, error) {
	keys, err := rs.cli.Keys(pattern).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	deleted, err := rs.cli.Del(keys...).Result()
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

func (rs *RedisStore) Close() error {
	return rs.cli.Close()
}
