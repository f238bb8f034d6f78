package cart

import (
	"github.com/angelmondragon/storefront-backend/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/storefront-backend/internal/cart"
)

func newCart(summary cartsvc.Summary) dto.Cart {
	lines := make([]dto.CartLine, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		lines = append(lines, dto.CartLine{
			ProductID:       line.ProductID.String(),
			Name:            line.Name,
			Image:           line.Image,
			Category:        line.Category,
			Rating:          line.Rating,
			Quantity:        line.Quantity,
			Price:           line.Price.StringFixed(2),
			DiscountedPrice: line.DiscountedPrice.StringFixed(2),
			LineSubtotal:    line.LineSubtotal.StringFixed(2),
			LineTotal:       line.LineTotal.StringFixed(2),
			CanDecrement:    line.CanDecrement,
		})
	}
	return dto.Cart{
		Items:              lines,
		ItemCount:          summary.ItemCount,
		Subtotal:           summary.Subtotal.StringFixed(2),
		DiscountedTotal:    summary.DiscountedTotal.StringFixed(2),
		TotalDiscount:      summary.TotalDiscount.StringFixed(2),
		DiscountCode:       summary.DiscountCode,
		DiscountPercentage: summary.DiscountPercentage,
		Error:              summary.Error,
	}
}
