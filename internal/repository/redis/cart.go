package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ovenshare/storefront/internal/domain"
	"github.com/ovenshare/storefront/internal/repository"
	apperrors "github.com/ovenshare/storefront/pkg/errors"
)

const (
	cartKeyPrefix  = "cart:"
	ownerKeyPrefix = "cart-owner:"
)

// CartRepository implements repository.CartRepository using Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cart for a device from Redis. A payload that no
// longer decodes reports repository.ErrCorruptCart so callers can reset
// instead of failing.
func (r *CartRepository) Get(ctx context.Context, deviceID string) (*domain.Cart, error) {
	key := cartKeyPrefix + deviceID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", deviceID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCorruptCart, err)
	}

	return &cart, nil
}

// Save persists the cart to Redis with the configured TTL.
func (r *CartRepository) Save(ctx context.Context, deviceID string, cart *domain.Cart) error {
	key := cartKeyPrefix + deviceID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the device's cart from Redis.
func (r *CartRepository) Delete(ctx context.Context, deviceID string) error {
	key := cartKeyPrefix + deviceID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}

// GetOwner returns the identity marker for the device's cart, or an
// empty string when no marker exists.
func (r *CartRepository) GetOwner(ctx context.Context, deviceID string) (string, error) {
	owner, err := r.client.Get(ctx, ownerKeyPrefix+deviceID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis get cart owner: %w", err)
	}
	return owner, nil
}

// SetOwner records the identity marker for the device's cart. The marker
// shares the cart's TTL so the two expire together.
func (r *CartRepository) SetOwner(ctx context.Context, deviceID, owner string) error {
	if err := r.client.Set(ctx, ownerKeyPrefix+deviceID, owner, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart owner: %w", err)
	}
	return nil
}

// DeleteOwner removes the device's owner marker.
func (r *CartRepository) DeleteOwner(ctx context.Context, deviceID string) error {
	if err := r.client.Del(ctx, ownerKeyPrefix+deviceID).Err(); err != nil {
		return fmt.Errorf("redis del cart owner: %w", err)
	}
	return nil
}
