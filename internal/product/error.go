package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("invalid product price")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrUnknownCategory = errors.New("unknown category")
)
