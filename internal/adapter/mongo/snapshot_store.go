package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelierline/storefront-cart/internal/app/config"
	"github.com/atelierline/storefront-cart/internal/domain/entity"
	"github.com/atelierline/storefront-cart/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const snapshotCollectionName = "cart_snapshots"

type snapshotDocument struct {
	ID        string                `bson:"_id"`
	LineItems []entity.CartLineItem `bson:"lineItems"`
	UpdatedAt time.Time             `bson:"updatedAt"`
}

type snapshotStore struct {
	collection *mongo.Collection
	storageKey string
}

// NewSnapshotStore persists the cart as one upserted document whose _id is
// the storage key.
func NewSnapshotStore(client *mongo.Client, cfg config.MongoDBConfig, storageKey string) repository.CartSnapshotStore {
	collection := client.Database(cfg.Database).Collection(snapshotCollectionName)
	return &snapshotStore{
		collection: collection,
		storageKey: storageKey,
	}
}

func (s *snapshotStore) Load(ctx context.Context) (*entity.Cart, error) {
	var doc snapshotDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": s.storageKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.NewCart(), nil
		}
		return entity.NewCart(), fmt.Errorf("failed to load cart snapshot %s: %w", s.storageKey, err)
	}

	cart := &entity.Cart{LineItems: doc.LineItems, UpdatedAt: doc.UpdatedAt}
	if cart.LineItems == nil {
		cart.LineItems = make([]entity.CartLineItem, 0)
	}
	if err := cart.Validate(); err != nil {
		return entity.NewCart(), fmt.Errorf("%w: cart snapshot %s: %v", repository.ErrMalformedSnapshot, s.storageKey, err)
	}
	return cart, nil
}

func (s *snapshotStore) Save(ctx context.Context, cart *entity.Cart) error {
	if cart == nil {
		return fmt.Errorf("%w: cannot save nil cart", repository.ErrWriteFailed)
	}

	doc := snapshotDocument{
		ID:        s.storageKey,
		LineItems: cart.LineItems,
		UpdatedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": s.storageKey}, doc, opts); err != nil {
		return fmt.Errorf("%w: failed to save cart snapshot %s: %v", repository.ErrWriteFailed, s.storageKey, err)
	}
	return nil
}

func (s *snapshotStore) Clear(ctx context.Context) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": s.storageKey}); err != nil {
		return fmt.Errorf("%w: failed to delete cart snapshot %s: %v", repository.ErrWriteFailed, s.storageKey, err)
	}
	return nil
}
