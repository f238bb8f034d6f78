package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/money"
)

// LineItem is one cart row. Product fields are copied at add time.
type LineItem struct {
	ProductID catalog.ID
	Name      string
	Image     string
	Category  string
	Price     decimal.Decimal
	Rating    float64
	Quantity  int
}

func newLineItem(p catalog.Product) LineItem {
	return LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.Image,
		Category:  p.Category,
		Price:     p.Price,
		Rating:    p.Rating,
		Quantity:  1,
	}
}

// Subtotal is price * quantity, unrounded.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DiscountedPrice is the unit price after pct, rounded to cents.
func (l LineItem) DiscountedPrice(pct int) decimal.Decimal {
	return money.ApplyPercentOff(l.Price, pct)
}

// DiscountedTotal multiplies the rounded unit price by quantity.
func (l LineItem) DiscountedTotal(pct int) decimal.Decimal {
	return l.DiscountedPrice(pct).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CanDecrement reports whether the minus control is enabled.
func (l LineItem) CanDecrement() bool {
	return l.Quantity > 1
}
