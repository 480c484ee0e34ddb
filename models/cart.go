package models

// CartLine is one pending purchase intent. Lines are keyed by user; at
// most one line exists per (user, product) pair, enforced by the
// add-to-cart path before insert.
type CartLine struct {
	ID          string  `json:"id" bson:"_id" dynamodbav:"id"`
	UserID      string  `json:"userId" bson:"userId" dynamodbav:"user_id"`
	ProductID   string  `json:"productId" bson:"productId" dynamodbav:"product_id"`
	ProductName string  `json:"productName" bson:"productName" dynamodbav:"product_name"`
	Price       float64 `json:"price" bson:"price" dynamodbav:"price"`
	Quantity    int     `json:"quantity" bson:"quantity" dynamodbav:"quantity"`
}

// AddToCartRequest is the body for POST /cart/add.
type AddToCartRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}
