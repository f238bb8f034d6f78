package cart

import (
	"errors"

	"github.com/angelmondragon/storefront-backend/internal/discount"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a whole number of at least 1")
	ErrItemNotFound    = errors.New("item is not in the cart")
	// ErrInvalidDiscountCode matches every rejected discount code.
	ErrInvalidDiscountCode = discount.ErrInvalidCode
)
