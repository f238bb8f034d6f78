package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/money"
)

// PricePreset is one entry of the price filter dropdown.
type PricePreset struct {
	Label string     `json:"label"`
	Range PriceRange `json:"range"`
}

// PricePresets mirror the storefront's price dropdown.
var PricePresets = []PricePreset{
	{Label: "All Prices", Range: DefaultPriceRange},
	{Label: "$0 - $50", Range: PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(50)}},
	{Label: "$50 - $100", Range: PriceRange{Min: decimal.NewFromInt(50), Max: decimal.NewFromInt(100)}},
	{Label: "$100 - $500", Range: PriceRange{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(500)}},
	{Label: "$500 - $1000", Range: PriceRange{Min: decimal.NewFromInt(500), Max: decimal.NewFromInt(1000)}},
}

// Facets lists the filter choices available for a product set.
type Facets struct {
	Categories   []string      `json:"categories"`
	PricePresets []PricePreset `json:"price_presets"`
	SortKeys     []string      `json:"sort_keys"`
}

// BuildFacets collects the distinct categories of products in sorted order.
func BuildFacets(products []Product) Facets {
	seen := map[string]struct{}{}
	categories := []string{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)

	return Facets{
		Categories:   categories,
		PricePresets: PricePresets,
		SortKeys: []string{
			enums.SortNone.String(),
			enums.SortPriceAsc.String(),
			enums.SortPriceDesc.String(),
			enums.SortRatingDesc.String(),
		},
	}
}

// SalePrice is the advertised price after the storefront-wide display discount.
func SalePrice(p Product, displayPercent int) decimal.Decimal {
	return money.ApplyPercentOff(p.Price, displayPercent)
}

// AverageRating is the mean of ratings rounded to one decimal; 0 when empty.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var total int64
	for _, r := range ratings {
		total += int64(r)
	}
	avg := decimal.NewFromInt(total).Div(decimal.NewFromInt(int64(len(ratings)))).Round(1)
	return avg.InexactFloat64()
}
