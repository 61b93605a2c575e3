package catalog

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductReferenced = errors.New("product referenced by existing orders")
)
