package repository

import (
	"context"

	"github.com/atelierline/storefront-cart/internal/domain/entity"
)

// CartSnapshotStore persists the single cart snapshot under a fixed storage
// key. Persistence is advisory: a missing snapshot loads as an empty cart,
// and the store treats whatever it reads last as authoritative
// (last-writer-wins across processes sharing the same backing storage).
type CartSnapshotStore interface {
	// Load returns the persisted cart, or an empty cart when no snapshot
	// exists. A malformed snapshot yields an empty cart alongside
	// ErrMalformedSnapshot so the caller can log it.
	Load(ctx context.Context) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
	Clear(ctx context.Context) error
}
