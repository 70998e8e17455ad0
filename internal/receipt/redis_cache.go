package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// saveReceiptScript inserts a receipt only if its order id is new and
// records the id at the head of the device's index.
// KEYS[1] = receipt hash, KEYS[2] = index list
// ARGV[1] = order id, ARGV[2] = receipt JSON, ARGV[3] = ttl seconds (0 = none)
var saveReceiptScript = redis.NewScript(`
if redis.call("HSETNX", KEYS[1], ARGV[1], ARGV[2]) == 0 then
    return 0
end
redis.call("LPUSH", KEYS[2], ARGV[1])
local ttl = tonumber(ARGV[3])
if ttl > 0 then
    redis.call("EXPIRE", KEYS[1], ttl)
    redis.call("EXPIRE", KEYS[2], ttl)
end
return 1
`)

// redisCache implements Cache on Redis.
type redisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCache creates a Redis-backed receipt cache. A zero ttl keeps
// receipts forever.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) Cache {
	return &redisCache{
		client: client,
		prefix: "receipts:",
		ttl:    ttl,
		logger: logger.With().Str("component", "receipt-cache").Logger(),
	}
}

func (c *redisCache) hashKey(deviceID string) string {
	return fmt.Sprintf("%s%s", c.prefix, deviceID)
}

func (c *redisCache) indexKey(deviceID string) string {
	return fmt.Sprintf("%s%s:index", c.prefix, deviceID)
}

// Save stores r unless the order id is already cached for the device.
func (c *redisCache) Save(ctx context.Context, deviceID string, r model.Receipt) (bool, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return false, fmt.Errorf("failed to encode receipt: %w", err)
	}

	inserted, err := saveReceiptScript.Run(ctx, c.client,
		[]string{c.hashKey(deviceID), c.indexKey(deviceID)},
		r.OrderID, data, int64(c.ttl/time.Second),
	).Int()
	if err != nil {
		c.logger.Error().Err(err).Str("order_id", r.OrderID).Msg("failed to save receipt")
		return false, fmt.Errorf("failed to save receipt: %w", err)
	}

	if inserted == 0 {
		c.logger.Debug().Str("order_id", r.OrderID).Msg("receipt already cached")
		return false, nil
	}
	return true, nil
}

// List returns the device's receipts, newest first.
func (c *redisCache) List(ctx context.Context, deviceID string) ([]model.Receipt, error) {
	ids, err := c.client.LRange(ctx, c.indexKey(deviceID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	if len(ids) == 0 {
		return []model.Receipt{}, nil
	}

	values, err := c.client.HMGet(ctx, c.hashKey(deviceID), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load receipts: %w", err)
	}

	receipts := make([]model.Receipt, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var r model.Receipt
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			c.logger.Warn().Err(err).Str("order_id", ids[i]).Msg("skipping unreadable receipt")
			continue
		}
		receipts = append(receipts, r)
	}
	return receipts, nil
}

// Get returns one receipt, or nil when it is not cached.
func (c *redisCache) Get(ctx context.Context, deviceID, orderID string) (*model.Receipt, error) {
	raw, err := c.client.HGet(ctx, c.hashKey(deviceID), orderID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	var r model.Receipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("failed to decode receipt: %w", err)
	}
	return &r, nil
}
