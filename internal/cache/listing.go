package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/s3-file-manager/internal/config"
	"github.com/andresuchdata/s3-file-manager/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	listingKeyPrefix = "files:list:"
	// generationKey sits outside listingKeyPrefix so invalidation never deletes it.
	generationKey = "files:list-gen"
)

// ListingCache stores bucket listings between uploads and deletes.
//
// Entries are scoped to a generation. Callers read the generation before
// going to the backend and write back under that same generation, so a
// listing computed before an InvalidateAll can never be served after it.
type ListingCache interface {
	Generation(ctx context.Context) (int64, error)
	GetListing(ctx context.Context, gen int64, limit int) (*domain.FileListing, bool, error)
	SetListing(ctx context.Context, gen int64, limit int, listing *domain.FileListing) error
	InvalidateAll(ctx context.Context) error
	Close() error
}

type redisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopListingCache struct{}

// NewListingCache returns a redis-backed cache when cfg.Enabled, a noop cache otherwise.
func NewListingCache(cfg config.CacheConfig) (ListingCache, error) {
	if !cfg.Enabled {
		return &noopListingCache{}, nil
	}

	client, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisListingCache(client, cacheTTL(cfg)), nil
}

// NewRedisListingCache wraps an existing client. A non-positive ttl uses the default.
func NewRedisListingCache(client *redis.Client, ttl time.Duration) ListingCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisListingCache{client: client, ttl: ttl}
}

func NewNoopListingCache() ListingCache {
	return &noopListingCache{}
}

func (c *redisListingCache) Generation(ctx context.Context) (int64, error) {
	return readCounter(ctx, c.client, generationKey)
}

func (c *redisListingCache) GetListing(ctx context.Context, gen int64, limit int) (*domain.FileListing, bool, error) {
	payload, err := c.client.Get(ctx, listingKey(gen, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var listing domain.FileListing
	if err := json.Unmarshal(payload, &listing); err != nil {
		return nil, false, fmt.Errorf("decode listing cache: %w", err)
	}

	return &listing, true, nil
}

func (c *redisListingCache) SetListing(ctx context.Context, gen int64, limit int, listing *domain.FileListing) error {
	payload, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("encode listing cache: %w", err)
	}

	if err := c.client.Set(ctx, listingKey(gen, limit), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// InvalidateAll bumps the generation, then drops the listings it made unreachable.
func (c *redisListingCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("redis incr %s: %w", generationKey, err)
	}
	return deleteMatching(ctx, c.client, listingKeyPrefix+"*")
}

func (c *redisListingCache) Close() error {
	return c.client.Close()
}

func (c *noopListingCache) Generation(ctx context.Context) (int64, error) {
	return 0, nil
}

func (c *noopListingCache) GetListing(ctx context.Context, gen int64, limit int) (*domain.FileListing, bool, error) {
	return nil, false, nil
}

func (c *noopListingCache) SetListing(ctx context.Context, gen int64, limit int, listing *domain.FileListing) error {
	return nil
}

func (c *noopListingCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func (c *noopListingCache) Close() error {
	return nil
}

func listingKey(gen int64, limit int) string {
	return fmt.Sprintf("%s%d:%d", listingKeyPrefix, gen, limit)
}
