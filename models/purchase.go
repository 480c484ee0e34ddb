package models

import "time"

// PurchaseRecord is one durable record of a completed purchase. Records
// are only ever inserted; nothing in this service mutates or deletes
// them.
type PurchaseRecord struct {
	ID           string    `json:"id" bson:"_id" dynamodbav:"id"`
	UserID       string    `json:"userId" bson:"userId" dynamodbav:"user_id"`
	ProductID    string    `json:"productId" bson:"productId" dynamodbav:"product_id"`
	ProductName  string    `json:"productName" bson:"productName" dynamodbav:"product_name"`
	Price        float64   `json:"price" bson:"price" dynamodbav:"price"`
	PurchaseDate time.Time `json:"purchaseDate" bson:"purchaseDate" dynamodbav:"purchase_date"`
}

// PurchaseEvent is published to SNS after a successful checkout so the
// notification pipeline can pick it up.
type PurchaseEvent struct {
	Event     string    `json:"event"` // "purchase.completed"
	UserID    string    `json:"user_id"`
	ItemCount int       `json:"item_count"`
	Timestamp time.Time `json:"timestamp"`
}
