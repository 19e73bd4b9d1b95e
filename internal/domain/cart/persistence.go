// internal/domain/cart/persistence.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/grocery-backend/internal/config"
)

// RedisRepository stores each cart as a JSON array of line items under a
// fixed per-session key. The whole document is replaced on every write, so
// the persisted value always matches some state the store passed through.
type RedisRepository struct {
	client *redis.Client
	config *config.Config
}

// NewRedisRepository creates a Redis-backed cart repository.
func NewRedisRepository(client *redis.Client, cfg *config.Config) *RedisRepository {
	return &RedisRepository{
		client: client,
		config: cfg,
	}
}

// Load reads and decodes the persisted item list. A missing key yields
// (nil, nil). A payload that no longer decodes as a line item array is
// reported as an error; callers treat it as an absent cart.
func (r *RedisRepository) Load(ctx context.Context, slot string) ([]LineItem, error) {
	data, err := r.client.Get(ctx, r.key(slot)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read cart slot: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart slot: %w", err)
	}

	return items, nil
}

// Save replaces the slot contents and refreshes its expiry.
func (r *RedisRepository) Save(ctx context.Context, slot string, items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	return r.client.Set(ctx, r.key(slot), data, r.config.Cart.TTL).Err()
}

// Clear deletes the slot.
func (r *RedisRepository) Clear(ctx context.Context, slot string) error {
	return r.client.Del(ctx, r.key(slot)).Err()
}

func (r *RedisRepository) key(slot string) string {
	return r.config.Cart.KeyPrefix + slot
}
