package models

// CheckoutRequest is the body for POST /payment. CourseID selects
// single-item mode; without it the whole cart is checked out.
// ProductName and Price are only consulted on the direct-purchase path,
// after a cart lookup for CourseID comes back empty.
type CheckoutRequest struct {
	UserID      string   `json:"userId"`
	CourseID    string   `json:"courseId"`
	ProductName string   `json:"productName"`
	Price       *float64 `json:"price"`
}

// SingleItem reports whether the request targets one course rather than
// the whole cart.
func (r CheckoutRequest) SingleItem() bool {
	return r.CourseID != ""
}

// HasDirectPurchaseFields reports whether the request carries enough to
// record a purchase with no antecedent cart line.
func (r CheckoutRequest) HasDirectPurchaseFields() bool {
	return r.ProductName != "" && r.Price != nil && *r.Price >= 0
}

// CheckoutResult is the outcome of a successful checkout.
type CheckoutResult struct {
	Message   string `json:"message"`
	ItemCount int    `json:"-"`
}
