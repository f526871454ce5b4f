package checkout

import "errors"

var (
	ErrEmptyBasket  = errors.New("basket is empty, nothing to checkout")
	ErrMissingPrice = errors.New("some items have no price set")
	ErrInvalidPrice = errors.New("some items have a negative price")
)
