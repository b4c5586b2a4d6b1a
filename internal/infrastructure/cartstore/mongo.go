package cartstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodexplorer/backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cartDocumentID = "cart_state"

// cartDocument is the single persisted document holding the whole cart.
type cartDocument struct {
	ID    string           `bson:"_id"`
	State domain.CartState `bson:"state"`
}

// MongoStorage is the MongoDB implementation of domain.CartStorage. The whole
// cart lives in one document with a fixed ID, replaced on every save.
type MongoStorage struct {
	collection *mongo.Collection
}

// NewMongoStorage creates a cart storage adapter over the given collection.
func NewMongoStorage(db *mongo.Database, collectionName string) *MongoStorage {
	return &MongoStorage{
		collection: db.Collection(collectionName),
	}
}

// Load implements domain.CartStorage. No document means no cart has ever been
// saved: nil state, start empty.
func (s *MongoStorage) Load(ctx context.Context) (*domain.CartState, error) {
	var doc cartDocument
	filter := bson.M{"_id": cartDocumentID}
	err := s.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return &doc.State, nil
}

// Save implements domain.CartStorage via upsert-replace.
func (s *MongoStorage) Save(ctx context.Context, state *domain.CartState) error {
	doc := cartDocument{
		ID:    cartDocumentID,
		State: *state,
	}
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"_id": cartDocumentID}
	if _, err := s.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
