package repository

import (
	"context"
	"fmt"

	"checkout-service/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// transactWriteLimit is DynamoDB's hard cap on TransactWriteItems
// members; a cart larger than this cannot be checked out atomically.
const transactWriteLimit = 100

// DynamoCartStore implements CartStore on a DynamoDB table with
// partition key `user_id` and sort key `id`.
type DynamoCartStore struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoCartStore(client *dynamodb.Client, table string) *DynamoCartStore {
	return &DynamoCartStore{client: client, table: table}
}

type ddbCartLine struct {
	UserID      string  `dynamodbav:"user_id"`
	ID          string  `dynamodbav:"id"`
	ProductID   string  `dynamodbav:"product_id"`
	ProductName string  `dynamodbav:"product_name"`
	Price       float64 `dynamodbav:"price"`
	Quantity    int     `dynamodbav:"quantity"`
}

func (d ddbCartLine) toModel() models.CartLine {
	return models.CartLine{
		ID:          d.ID,
		UserID:      d.UserID,
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Price:       d.Price,
		Quantity:    d.Quantity,
	}
}

func (s *DynamoCartStore) FindLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	userKey, err := attributevalue.Marshal(userID)
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	keyCond := "user_id = :uid"
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 &s.table,
		KeyConditionExpression:    &keyCond,
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": userKey},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb Query failed: %w", err)
	}

	lines := make([]models.CartLine, 0, len(out.Items))
	for _, item := range out.Items {
		var dl ddbCartLine
		if err := attributevalue.UnmarshalMap(item, &dl); err != nil {
			return nil, fmt.Errorf("unmarshal item: %w", err)
		}
		lines = append(lines, dl.toModel())
	}
	return lines, nil
}

func (s *DynamoCartStore) FindLine(ctx context.Context, userID, productID string) (*models.CartLine, error) {
	exprVals, err := attributevalue.MarshalMap(map[string]string{
		":uid": userID,
		":pid": productID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal values: %w", err)
	}

	keyCond := "user_id = :uid"
	filter := "product_id = :pid"
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 &s.table,
		KeyConditionExpression:    &keyCond,
		FilterExpression:          &filter,
		ExpressionAttributeValues: exprVals,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb Query failed: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var dl ddbCartLine
	if err := attributevalue.UnmarshalMap(out.Items[0], &dl); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	line := dl.toModel()
	return &line, nil
}

func (s *DynamoCartStore) InsertLine(ctx context.Context, line *models.CartLine) error {
	item, err := attributevalue.MarshalMap(ddbCartLine{
		UserID:      line.UserID,
		ID:          line.ID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		Price:       line.Price,
		Quantity:    line.Quantity,
	})
	if err != nil {
		return fmt.Errorf("marshal cart line: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.table, Item: item})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

// BatchDelete removes the lines in one TransactWriteItems call, which
// either applies every delete or none of them.
func (s *DynamoCartStore) BatchDelete(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > transactWriteLimit {
		return fmt.Errorf("cannot delete %d cart lines atomically (limit %d)", len(ids), transactWriteLimit)
	}

	items := make([]types.TransactWriteItem, 0, len(ids))
	for _, id := range ids {
		key, err := attributevalue.MarshalMap(map[string]string{"user_id": userID, "id": id})
		if err != nil {
			return fmt.Errorf("marshal key: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{TableName: &s.table, Key: key},
		})
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		return fmt.Errorf("transact delete failed: %w", err)
	}
	return nil
}
