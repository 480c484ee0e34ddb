package repository

import (
	"context"
	"fmt"
	"time"

	"checkout-service/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoPurchaseLedger implements PurchaseLedger on a DynamoDB table
// with partition key `user_id` and sort key `id`.
type DynamoPurchaseLedger struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoPurchaseLedger(client *dynamodb.Client, table string) *DynamoPurchaseLedger {
	return &DynamoPurchaseLedger{client: client, table: table}
}

type ddbPurchase struct {
	UserID       string  `dynamodbav:"user_id"`
	ID           string  `dynamodbav:"id"`
	ProductID    string  `dynamodbav:"product_id"`
	ProductName  string  `dynamodbav:"product_name"`
	Price        float64 `dynamodbav:"price"`
	PurchaseDate string  `dynamodbav:"purchase_date"`
}

func newDDBPurchase(r models.PurchaseRecord) ddbPurchase {
	return ddbPurchase{
		UserID:       r.UserID,
		ID:           r.ID,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		Price:        r.Price,
		PurchaseDate: r.PurchaseDate.UTC().Format(time.RFC3339),
	}
}

func (d ddbPurchase) toModel() models.PurchaseRecord {
	rec := models.PurchaseRecord{
		ID:          d.ID,
		UserID:      d.UserID,
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Price:       d.Price,
	}
	if t, err := time.Parse(time.RFC3339, d.PurchaseDate); err == nil {
		rec.PurchaseDate = t
	}
	return rec
}

func (l *DynamoPurchaseLedger) Create(ctx context.Context, record *models.PurchaseRecord) error {
	item, err := attributevalue.MarshalMap(newDDBPurchase(*record))
	if err != nil {
		return fmt.Errorf("marshal purchase record: %w", err)
	}
	_, err = l.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &l.table, Item: item})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

// BatchCreate writes all records in one TransactWriteItems call: either
// every record commits or none does.
func (l *DynamoPurchaseLedger) BatchCreate(ctx context.Context, userID string, records []models.PurchaseRecord) error {
	if len(records) == 0 {
		return nil
	}
	if len(records) > transactWriteLimit {
		return fmt.Errorf("cannot record %d purchases atomically (limit %d)", len(records), transactWriteLimit)
	}

	items := make([]types.TransactWriteItem, 0, len(records))
	for _, rec := range records {
		item, err := attributevalue.MarshalMap(newDDBPurchase(rec))
		if err != nil {
			return fmt.Errorf("marshal batch item: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{TableName: &l.table, Item: item},
		})
	}

	_, err := l.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		return fmt.Errorf("transact put failed: %w", err)
	}
	return nil
}

func (l *DynamoPurchaseLedger) FindByUser(ctx context.Context, userID string) ([]models.PurchaseRecord, error) {
	userKey, err := attributevalue.Marshal(userID)
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	keyCond := "user_id = :uid"
	out, err := l.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 &l.table,
		KeyConditionExpression:    &keyCond,
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": userKey},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb Query failed: %w", err)
	}

	records := make([]models.PurchaseRecord, 0, len(out.Items))
	for _, item := range out.Items {
		var dp ddbPurchase
		if err := attributevalue.UnmarshalMap(item, &dp); err != nil {
			return nil, fmt.Errorf("unmarshal item: %w", err)
		}
		records = append(records, dp.toModel())
	}
	return records, nil
}
