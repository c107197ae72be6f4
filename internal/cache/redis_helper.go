package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/andresuchdata/s3-file-manager/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL   = 30 * time.Second
	redisPingTimeout  = 5 * time.Second
	defaultRedisHost  = "127.0.0.1"
	defaultRedisPort  = "6379"
	deleteBatchLength = 100
)

// dialRedis connects with the cache settings and fails fast when the server
// does not answer a PING.
func dialRedis(cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return client, nil
}

func cacheTTL(cfg config.CacheConfig) time.Duration {
	if cfg.ListTTLSeconds <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(cfg.ListTTLSeconds) * time.Second
}

// buildRedisOptions prefers REDIS_URL and falls back to host, port, password and db.
func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = defaultRedisHost
	}
	if port == "" {
		port = defaultRedisPort
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// readCounter returns the integer stored at key, or 0 when the key is absent.
func readCounter(ctx context.Context, client *redis.Client, key string) (int64, error) {
	raw, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis counter %s is not an integer: %w", key, err)
	}
	return n, nil
}

// deleteMatching removes every key matching pattern. Keys are collected with
// SCAN first and deleted afterwards in DEL batches, so the walk never runs
// over a keyspace it is shrinking.
func deleteMatching(ctx context.Context, client *redis.Client, pattern string) error {
	var keys []string
	iter := client.Scan(ctx, 0, pattern, deleteBatchLength).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", pattern, err)
	}

	for start := 0; start < len(keys); start += deleteBatchLength {
		end := min(start+deleteBatchLength, len(keys))
		if err := client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}
