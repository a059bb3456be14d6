package order

import (
	"errors"
	"strings"
)

const (
	CodeEmptyCart                = "EMPTY_CART"
	CodeInvalidQuantity          = "INVALID_QUANTITY"
	CodeInvalidInput             = "INVALID_INPUT"
	CodeUnsupportedPaymentMethod = "UNSUPPORTED_PAYMENT_METHOD"
	CodeProductNotFound          = "PRODUCT_NOT_FOUND"
)

// Error is a checkout rejection with a stable code clients can branch on.
type Error struct {
	Code      string
	ProductID string
	Field     string
}

func (e *Error) Error() string {
	if e.Code == CodeProductNotFound {
		return CodeProductNotFound + ":" + e.ProductID
	}
	return e.Code
}

// Reason is the metric label for the error, without the product id.
func (e *Error) Reason() string {
	return strings.ToLower(e.Code)
}

func newError(code string) *Error {
	return &Error{Code: code}
}

func productNotFound(id string) *Error {
	return &Error{Code: CodeProductNotFound, ProductID: id}
}

var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidStatus    = errors.New("invalid order status")
)
