package catalog

import (
	"sort"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

// Page is one slice of an ordered product list.
type Page struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	TotalCount int       `json:"total_count"`
}

// View is the derived catalog state a display layer renders.
type View struct {
	Query Query `json:"query"`
	Page
	// UserRatings holds per-session star annotations for the items on this page.
	UserRatings map[ID]int `json:"user_ratings,omitempty"`
}

// Filter keeps products in category (any when empty) whose price lies in r.
// The input is not modified.
func Filter(products []Product, category string, r PriceRange) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if !r.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort returns a stably ordered copy of products. Equal keys keep input order.
func Sort(products []Product, key enums.SortKey) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	var less func(i, j int) bool
	switch key {
	case enums.SortPriceAsc:
		less = func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) }
	case enums.SortPriceDesc:
		less = func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) }
	case enums.SortRatingDesc:
		less = func(i, j int) bool { return out[i].Rating > out[j].Rating }
	default:
		return out
	}
	sort.SliceStable(out, less)
	return out
}

// Paginate slices products into page number page of size pageSize.
// An empty set reports zero pages; pages past the end are empty.
func Paginate(products []Product, page, pageSize int) Page {
	pageSize = pagination.NormalizePageSize(pageSize)
	if page < 1 {
		page = 1
	}
	start, end := pagination.Bounds(page, pageSize, len(products))
	items := make([]Product, end-start)
	copy(items, products[start:end])
	return Page{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pagination.TotalPages(len(products), pageSize),
		TotalCount: len(products),
	}
}

// DeriveView runs filter, sort and paginate for q over products.
func DeriveView(products []Product, q Query) View {
	q = q.normalized()
	filtered := Filter(products, q.Category, q.PriceRange)
	ordered := Sort(filtered, q.Sort)
	return View{
		Query: q,
		Page:  Paginate(ordered, q.Page, q.PageSize),
	}
}
