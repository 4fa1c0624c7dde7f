package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atelierline/storefront-cart/internal/domain/entity"
	"github.com/atelierline/storefront-cart/internal/platform/logger"
	"github.com/atelierline/storefront-cart/internal/repository"
)

// MutationPublisher broadcasts cart mutations for operator tooling. It is
// advisory: publish failures are logged and never affect the operation.
type MutationPublisher interface {
	Publish(ctx context.Context, subject string, message interface{}) error
}

const (
	subjectCartUpdated = "cart.updated"
	subjectCartCleared = "cart.cleared"
)

// AddItemInput carries the variant snapshot the caller captured from a
// product view. Price and options are recorded as-is; the store never goes
// back to the catalog on its own.
type AddItemInput struct {
	ProductHandle   string
	ProductTitle    string
	VariantID       string
	VariantTitle    string
	Price           entity.Money
	Quantity        int
	SelectedOptions []entity.SelectedOption
}

// CartService is the single owner of the cart aggregate. Every read returns
// a deep copy; every mutation either fully succeeds or leaves the cart
// untouched. Persistence is decoupled from logical success: a failed
// snapshot write is logged, not surfaced, and never rolled back.
type CartService interface {
	AddItem(ctx context.Context, input AddItemInput) (*entity.Cart, Outcome)
	UpdateItemQuantity(ctx context.Context, variantID string, quantity int) (*entity.Cart, Outcome)
	RemoveItem(ctx context.Context, variantID string) (*entity.Cart, Outcome)
	ClearCart(ctx context.Context) (*entity.Cart, Outcome)
	GetCart(ctx context.Context) *entity.Cart
	GetTotals(ctx context.Context) (entity.CartTotals, error)
}

type cartService struct {
	mu        sync.Mutex
	cart      *entity.Cart
	snapshots repository.CartSnapshotStore
	publisher MutationPublisher
	log       logger.Logger
}

// NewCartService loads the persisted snapshot and takes ownership of the
// resulting cart. A missing or malformed snapshot degrades to an empty
// cart; the error is logged only.
func NewCartService(
	ctx context.Context,
	snapshots repository.CartSnapshotStore,
	publisher MutationPublisher,
	log logger.Logger,
) CartService {
	cart, err := snapshots.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrMalformedSnapshot) {
			log.Warnf("Persisted cart snapshot is malformed, starting with an empty cart: %v", err)
		} else {
			log.Errorf("Failed to load cart snapshot, starting with an empty cart: %v", err)
		}
		cart = entity.NewCart()
	}

	return &cartService{
		cart:      cart,
		snapshots: snapshots,
		publisher: publisher,
		log:       log,
	}
}

func (s *cartService) AddItem(ctx context.Context, input AddItemInput) (*entity.Cart, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := entity.NewCartLineItem(input.VariantID, input.Quantity, input.Price)
	if err != nil {
		s.log.Warnf("AddItem rejected for variant %q: %v", input.VariantID, err)
		return s.cart.Clone(), Failure(err)
	}
	item.ProductHandle = input.ProductHandle
	item.ProductTitle = input.ProductTitle
	item.VariantTitle = input.VariantTitle
	item.SelectedOptions = input.SelectedOptions

	if err := s.cart.AddLine(*item); err != nil {
		s.log.Warnf("AddItem rejected for variant %q: %v", input.VariantID, err)
		return s.cart.Clone(), Failure(err)
	}

	s.persist(ctx, subjectCartUpdated)
	s.log.Infof("Added %dx variant %s to cart", input.Quantity, input.VariantID)
	return s.cart.Clone(), Success(fmt.Sprintf("%dx %s", input.Quantity, input.ProductTitle))
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, variantID string, quantity int) (*entity.Cart, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.SetLineQuantity(variantID, quantity); err != nil {
		s.log.Warnf("UpdateItemQuantity rejected for variant %q: %v", variantID, err)
		return s.cart.Clone(), Failure(err)
	}

	s.persist(ctx, subjectCartUpdated)
	s.log.Infof("Set variant %s quantity to %d", variantID, quantity)
	return s.cart.Clone(), Success(fmt.Sprintf("Quantity set to %d", quantity))
}

func (s *cartService) RemoveItem(ctx context.Context, variantID string) (*entity.Cart, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.RemoveLine(variantID)

	s.persist(ctx, subjectCartUpdated)
	s.log.Infof("Removed variant %s from cart", variantID)
	return s.cart.Clone(), Success("Removed from cart")
}

func (s *cartService) ClearCart(ctx context.Context) (*entity.Cart, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()

	if err := s.snapshots.Clear(ctx); err != nil {
		s.log.Errorf("Failed to clear persisted cart snapshot: %v", err)
	}
	s.publish(ctx, subjectCartCleared)
	s.log.Info("Cart cleared")
	return s.cart.Clone(), Success("Cart cleared")
}

func (s *cartService) GetCart(_ context.Context) *entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *cartService) GetTotals(_ context.Context) (entity.CartTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Totals()
}

// persist writes the snapshot after a successful mutation. The in-memory
// cart already changed; a write failure must not undo it or fail the
// operation, so the error stops here.
func (s *cartService) persist(ctx context.Context, subject string) {
	if err := s.snapshots.Save(ctx, s.cart); err != nil {
		s.log.Errorf("Failed to persist cart snapshot: %v", err)
	}
	s.publish(ctx, subject)
}

func (s *cartService) publish(ctx context.Context, subject string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, s.cart); err != nil {
		s.log.Warnf("Failed to publish %s event: %v", subject, err)
	}
}
