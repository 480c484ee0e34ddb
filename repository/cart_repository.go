package repository

import (
	"context"
	"fmt"

	"checkout-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartStore holds the transient cart lines pending purchase, keyed by
// user. This interface uses plain Go types (no driver types) to make
// swapping adapters easier.
type CartStore interface {
	FindLines(ctx context.Context, userID string) ([]models.CartLine, error)
	// FindLine returns (nil, nil) when no line exists for the pair.
	FindLine(ctx context.Context, userID, productID string) (*models.CartLine, error)
	InsertLine(ctx context.Context, line *models.CartLine) error
	// BatchDelete removes the given lines for the user as a single
	// all-or-nothing operation. Ids already absent are not an error.
	BatchDelete(ctx context.Context, userID string, ids []string) error
}

// MongoCartStore implements CartStore on a MongoDB collection. The
// client handle is kept alongside the collection because BatchDelete
// runs in a session-scoped transaction.
type MongoCartStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoCartStore(client *mongo.Client, db *mongo.Database) *MongoCartStore {
	return &MongoCartStore{
		client:     client,
		collection: db.Collection("cart_lines"),
	}
}

func (s *MongoCartStore) FindLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("find cart lines: %w", err)
	}
	defer cursor.Close(ctx)

	var lines []models.CartLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("decode cart lines: %w", err)
	}
	return lines, nil
}

func (s *MongoCartStore) FindLine(ctx context.Context, userID, productID string) (*models.CartLine, error) {
	var line models.CartLine
	err := s.collection.FindOne(ctx, bson.M{"userId": userID, "productId": productID}).Decode(&line)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cart line: %w", err)
	}
	return &line, nil
}

func (s *MongoCartStore) InsertLine(ctx context.Context, line *models.CartLine) error {
	if _, err := s.collection.InsertOne(ctx, line); err != nil {
		return fmt.Errorf("insert cart line: %w", err)
	}
	return nil
}

func (s *MongoCartStore) BatchDelete(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := s.collection.DeleteMany(sc, bson.M{
			"userId": userID,
			"_id":    bson.M{"$in": ids},
		})
		if err != nil {
			return nil, err
		}
		return res, nil
	}, options.Transaction())
	if err != nil {
		return fmt.Errorf("batch delete cart lines: %w", err)
	}
	return nil
}
