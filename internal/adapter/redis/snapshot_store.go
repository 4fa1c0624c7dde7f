package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atelierline/storefront-cart/internal/domain/entity"
	"github.com/atelierline/storefront-cart/internal/repository"
	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "cart:"

type snapshotStore struct {
	client     *redis.Client
	storageKey string
	ttl        time.Duration
}

// NewSnapshotStore persists the cart snapshot as a JSON value under a single
// key. The TTL caps how long an abandoned cart survives; zero means no
// expiry.
func NewSnapshotStore(client *redis.Client, storageKey string, ttl time.Duration) repository.CartSnapshotStore {
	return &snapshotStore{
		client:     client,
		storageKey: storageKey,
		ttl:        ttl,
	}
}

func (s *snapshotStore) key() string {
	return snapshotKeyPrefix + s.storageKey
}

func (s *snapshotStore) Load(ctx context.Context) (*entity.Cart, error) {
	val, err := s.client.Get(ctx, s.key()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.NewCart(), nil
		}
		return entity.NewCart(), fmt.Errorf("failed to load cart snapshot %s from redis: %w", s.storageKey, err)
	}

	var cart entity.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return entity.NewCart(), fmt.Errorf("%w: cart snapshot %s: %v", repository.ErrMalformedSnapshot, s.storageKey, err)
	}
	if cart.LineItems == nil {
		cart.LineItems = make([]entity.CartLineItem, 0)
	}
	if err := cart.Validate(); err != nil {
		return entity.NewCart(), fmt.Errorf("%w: cart snapshot %s: %v", repository.ErrMalformedSnapshot, s.storageKey, err)
	}
	return &cart, nil
}

func (s *snapshotStore) Save(ctx context.Context, cart *entity.Cart) error {
	if cart == nil {
		return fmt.Errorf("%w: cannot save nil cart", repository.ErrWriteFailed)
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal cart snapshot %s: %v", repository.ErrWriteFailed, s.storageKey, err)
	}

	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to save cart snapshot %s to redis: %v", repository.ErrWriteFailed, s.storageKey, err)
	}
	return nil
}

func (s *snapshotStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete cart snapshot %s from redis: %v", repository.ErrWriteFailed, s.storageKey, err)
	}
	return nil
}
