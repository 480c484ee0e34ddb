package repository

import (
	"context"
	"fmt"

	"checkout-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PurchaseLedger is the append-only collection of completed purchases.
// Records are inserted, never updated or removed.
type PurchaseLedger interface {
	Create(ctx context.Context, record *models.PurchaseRecord) error
	// BatchCreate inserts all records for the user as a single
	// all-or-nothing operation: either every record is durable or none is.
	BatchCreate(ctx context.Context, userID string, records []models.PurchaseRecord) error
	FindByUser(ctx context.Context, userID string) ([]models.PurchaseRecord, error)
}

type MongoPurchaseLedger struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoPurchaseLedger(client *mongo.Client, db *mongo.Database) *MongoPurchaseLedger {
	return &MongoPurchaseLedger{
		client:     client,
		collection: db.Collection("user_purchases"),
	}
}

func (l *MongoPurchaseLedger) Create(ctx context.Context, record *models.PurchaseRecord) error {
	if _, err := l.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert purchase record: %w", err)
	}
	return nil
}

func (l *MongoPurchaseLedger) BatchCreate(ctx context.Context, userID string, records []models.PurchaseRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	for i := range records {
		docs = append(docs, records[i])
	}

	session, err := l.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	// InsertMany alone is not atomic; the surrounding transaction makes
	// the batch all-or-nothing.
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return l.collection.InsertMany(sc, docs)
	}, options.Transaction())
	if err != nil {
		return fmt.Errorf("batch insert purchase records: %w", err)
	}
	return nil
}

func (l *MongoPurchaseLedger) FindByUser(ctx context.Context, userID string) ([]models.PurchaseRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "purchaseDate", Value: -1}})
	cursor, err := l.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find purchases: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.PurchaseRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode purchases: %w", err)
	}
	return records, nil
}
