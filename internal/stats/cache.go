package stats

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheVersionKey = "stats:version"
	bumpChannel     = "orders.bump"
)

// Cache memoizes computed datasets in Redis under versioned keys. A nil
// receiver or nil client degrades to pass-through loads, so the service
// keeps working when Redis is away.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising it to 1 when
// missing or corrupted.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	switch {
	case err == redis.Nil, err == nil && ver <= 0:
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	case err != nil:
		return 0, err
	}
	return ver, nil
}

// FetchJSON resolves the versioned key for keyBase and decodes the
// cached value into dest, computing and storing it through the loader
// on a miss. Every stored value is invalidated at once by Bump.
func (c *Cache) FetchJSON(ctx context.Context, keyBase string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return reencode(value, dest)
	}

	ver, err := c.Version(ctx)
	if err != nil {
		return err
	}
	key := keyBase + ":" + strconv.FormatInt(ver, 10)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if err != redis.Nil {
		return err
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every cached dataset by incrementing the version and
// announcing the new one to peer processes.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err()
}

// ListenForInvalidation follows version announcements from peers until
// the context ends. Unparseable payloads fall back to a local bump.
func (c *Cache) ListenForInvalidation(ctx context.Context, channel string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if channel == "" {
		channel = bumpChannel
	}
	pubsub := c.client.Subscribe(ctx, channel)
	go func() {
		defer func() { _ = pubsub.Close() }()
		updates := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-updates:
				if !ok {
					return
				}
				c.applyBump(ctx, msg.Payload)
			}
		}
	}()
	return nil
}

func (c *Cache) applyBump(ctx context.Context, payload string) {
	if ver, err := strconv.ParseInt(payload, 10, 64); err == nil && ver > 0 {
		_ = c.client.Set(ctx, cacheVersionKey, ver, 0).Err()
		return
	}
	_ = c.client.Incr(ctx, cacheVersionKey).Err()
}

// reencode copies a freshly loaded value into dest through JSON so the
// uncached path observes the exact shape a cache hit would produce.
func reencode(value, dest interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func keyDataset(dataset string, filter Filter) string {
	return strings.Join([]string{"stats", dataset, string(filter.Timeframe), categoryToken(filter.Category)}, ":")
}

func categoryToken(category Category) string {
	if category == CategoryAll {
		return "-"
	}
	return string(category)
}
