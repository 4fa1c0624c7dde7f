package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/atelierline/storefront-cart/internal/domain/entity"
	"github.com/atelierline/storefront-cart/internal/repository"
)

// SnapshotStore keeps the serialized cart snapshot in process memory. It is
// the default backend and goes through the same JSON round-trip as the
// remote backends so the persistence format is exercised either way.
type SnapshotStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Load(_ context.Context) (*entity.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return entity.NewCart(), nil
	}

	var cart entity.Cart
	if err := json.Unmarshal(s.data, &cart); err != nil {
		return entity.NewCart(), fmt.Errorf("%w: %v", repository.ErrMalformedSnapshot, err)
	}
	if cart.LineItems == nil {
		cart.LineItems = make([]entity.CartLineItem, 0)
	}
	if err := cart.Validate(); err != nil {
		return entity.NewCart(), fmt.Errorf("%w: %v", repository.ErrMalformedSnapshot, err)
	}
	return &cart, nil
}

func (s *SnapshotStore) Save(_ context.Context, cart *entity.Cart) error {
	if cart == nil {
		return fmt.Errorf("%w: cannot save nil cart", repository.ErrWriteFailed)
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrWriteFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *SnapshotStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
