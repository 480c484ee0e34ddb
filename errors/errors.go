package errors

import (
	"fmt"
	"net/http"
)

// Error is an application error carrying the HTTP status it maps to.
// Kind identifies the taxonomy bucket and is what errors.Is compares;
// Message is the caller-facing text. The wrapped cause is logged by
// callers but never serialized to the response body.
type Error struct {
	Kind    string `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any Error of the same Kind, so copies produced by Wrap and
// WithMessage still compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind
}

// New creates a new Error
func New(kind string, code int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Checkout error taxonomy.
var (
	ErrInvalidRequest     = New("invalid_request", http.StatusBadRequest, "Invalid payment data. UserId is required.", nil)
	ErrEmptyCart          = New("empty_cart", http.StatusBadRequest, "Cart is empty. No payment to process.", nil)
	ErrNotFoundDownstream = New("not_found_downstream", http.StatusNotFound, "Referenced product could not be found.", nil)
	ErrCheckoutInProgress = New("checkout_in_progress", http.StatusConflict, "A checkout for this user is already in progress. Please retry shortly.", nil)
	ErrPersistence        = New("persistence", http.StatusInternalServerError, "Error processing the payment. If the problem persists, please contact support.", nil)
	ErrDuplicateCartLine  = New("duplicate_cart_line", http.StatusConflict, "Course is already in your cart.", nil)
)

// Wrap attaches a cause to a sentinel without mutating it.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// WithMessage returns a copy of the sentinel carrying a more specific
// caller-facing message.
func WithMessage(sentinel *Error, message string) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: message}
}
