package orders

import "errors"

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidTotal    = errors.New("order total must be positive")
	ErrOrderNotFound   = errors.New("order not found")
)
