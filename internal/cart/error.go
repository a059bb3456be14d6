package cart

import "errors"

var (
	ErrMissingCartID    = errors.New("missing cart id")
	ErrMissingProductID = errors.New("missing product id")
	ErrItemNotInCart    = errors.New("item not in cart")
)
