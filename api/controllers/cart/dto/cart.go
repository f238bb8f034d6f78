package dto

import (
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
)

// CartLine is one line of the rendered cart. Amounts are fixed two-decimal strings.
type CartLine struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	Image           string  `json:"image"`
	Category        string  `json:"category"`
	Rating          float64 `json:"rating"`
	Quantity        int     `json:"quantity"`
	Price           string  `json:"price"`
	DiscountedPrice string  `json:"discounted_price"`
	LineSubtotal    string  `json:"line_subtotal"`
	LineTotal       string  `json:"line_total"`
	CanDecrement    bool    `json:"can_decrement"`
}

type Cart struct {
	Items              []CartLine `json:"items"`
	ItemCount          int        `json:"item_count"`
	Subtotal           string     `json:"subtotal"`
	DiscountedTotal    string     `json:"discounted_total"`
	TotalDiscount      string     `json:"total_discount"`
	DiscountCode       string     `json:"discount_code,omitempty"`
	DiscountPercentage int        `json:"discount_percentage"`
	Error              string     `json:"error,omitempty"`
}

// AddItemResponse tells the client where to go after adding.
type AddItemResponse struct {
	Cart     Cart   `json:"cart"`
	Navigate string `json:"navigate"`
}

type AddItemRequest struct {
	ProductID catalog.ID `json:"product_id" validate:"required"`
}

type QuantityRequest struct {
	Quantity cart.QuantityInput `json:"quantity"`
}

type DiscountRequest struct {
	Code string `json:"code" validate:"max=64"`
}
