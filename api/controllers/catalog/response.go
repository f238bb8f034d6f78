package catalog

import (
	"github.com/angelmondragon/storefront-backend/api/controllers/catalog/dto"
	catalogsvc "github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

func newProduct(p catalogsvc.Product, displayPercent int) dto.Product {
	return dto.Product{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
		Price:       p.Price.StringFixed(2),
		SalePrice:   catalogsvc.SalePrice(p, displayPercent).StringFixed(2),
		Rating:      p.Rating,
		Reviews:     p.Reviews,
		Discount:    p.Discount,
	}
}

func newView(view catalogsvc.View, status enums.CatalogStatus, displayPercent int) dto.View {
	items := make([]dto.Product, 0, len(view.Items))
	for _, p := range view.Items {
		item := newProduct(p, displayPercent)
		if stars, ok := view.UserRatings[p.ID]; ok {
			item.UserRating = &stars
		}
		items = append(items, item)
	}
	return dto.View{
		Status: status.String(),
		Query: dto.Query{
			Category: view.Query.Category,
			PriceMin: view.Query.PriceRange.Min.StringFixed(2),
			PriceMax: view.Query.PriceRange.Max.StringFixed(2),
			Sort:     view.Query.Sort.String(),
			Page:     view.Query.Page,
			PageSize: view.Query.PageSize,
		},
		Items:      items,
		Page:       view.Page.Page,
		PageSize:   view.Page.PageSize,
		TotalPages: view.TotalPages,
		TotalCount: view.TotalCount,
	}
}

func newFacets(f catalogsvc.Facets) dto.Facets {
	presets := make([]dto.PricePreset, 0, len(f.PricePresets))
	for _, p := range f.PricePresets {
		presets = append(presets, dto.PricePreset{
			Label: p.Label,
			Min:   p.Range.Min.StringFixed(2),
			Max:   p.Range.Max.StringFixed(2),
		})
	}
	return dto.Facets{
		Categories:   f.Categories,
		PricePresets: presets,
		SortKeys:     f.SortKeys,
	}
}
