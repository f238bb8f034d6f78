package cart

import "github.com/shopspring/decimal"

// LineSummary is a line with its derived prices.
type LineSummary struct {
	LineItem
	DiscountedPrice decimal.Decimal
	LineSubtotal    decimal.Decimal
	LineTotal       decimal.Decimal
	CanDecrement    bool
}

// Summary is a consistent read of the whole cart.
type Summary struct {
	Lines              []LineSummary
	ItemCount          int
	Subtotal           decimal.Decimal
	DiscountedTotal    decimal.Decimal
	TotalDiscount      decimal.Decimal
	DiscountCode       string
	DiscountPercentage int
	Error              string
}
