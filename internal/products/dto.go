package product

import (
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// ToModel maps a catalog product to its row. position keeps feed order.
func ToModel(p catalog.Product, position int) models.Product {
	return models.Product{
		ID:              p.ID.String(),
		Position:        position,
		Name:            p.Name,
		Description:     p.Description,
		Image:           p.Image,
		Category:        p.Category,
		Price:           p.Price,
		Rating:          p.Rating,
		Reviews:         p.Reviews,
		DiscountPercent: p.Discount,
	}
}

// ToDomain maps a row back to a catalog product.
func ToDomain(m models.Product) catalog.Product {
	return catalog.Product{
		ID:          catalog.ID(m.ID),
		Name:        m.Name,
		Description: m.Description,
		Image:       m.Image,
		Category:    m.Category,
		Price:       m.Price,
		Rating:      m.Rating,
		Reviews:     m.Reviews,
		Discount:    m.DiscountPercent,
	}
}
