package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

var (
	ErrInvalidPage    = fmt.Errorf("page must be between 1 and %d", pagination.MaxPage)
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrInvalidSort    = errors.New("invalid sort key")
	ErrUnknownProduct = errors.New("unknown product")
)

const (
	MinUserRating = 1
	MaxUserRating = 5
)

// FilterChange carries a partial filter update. Nil fields are left alone.
type FilterChange struct {
	Category   *string
	PriceRange *PriceRange
	Sort       *enums.SortKey
}

// Browser owns one client's catalog query and star annotations.
// All methods are safe for concurrent use.
type Browser struct {
	mu       sync.Mutex
	defaults Defaults
	query    Query
	ratings  map[ID]int
}

func NewBrowser(defaults Defaults) *Browser {
	return &Browser{
		defaults: defaults,
		query:    defaults.Query(),
		ratings:  map[ID]int{},
	}
}

// Query returns the current query.
func (b *Browser) Query() Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

// SetCategory selects a category; empty means any. The page resets to 1.
func (b *Browser) SetCategory(category string) {
	_ = b.ApplyFilters(FilterChange{Category: &category})
}

// SetPriceRange replaces the price filter and resets the page.
func (b *Browser) SetPriceRange(r PriceRange) {
	_ = b.ApplyFilters(FilterChange{PriceRange: &r})
}

// SetSort changes the ordering and resets the page.
func (b *Browser) SetSort(key enums.SortKey) error {
	return b.ApplyFilters(FilterChange{Sort: &key})
}

// ApplyFilters applies every field of change at once. Any change, even to the
// same value, moves the browser back to page 1. Invalid input leaves the query
// untouched.
func (b *Browser) ApplyFilters(change FilterChange) error {
	if change.Sort != nil && !change.Sort.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSort, *change.Sort)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if change.Category != nil {
		b.query.Category = *change.Category
	}
	if change.PriceRange != nil {
		b.query.PriceRange = *change.PriceRange
	}
	if change.Sort != nil {
		b.query.Sort = *change.Sort
	}
	b.query.Page = 1
	return nil
}

// SetPage moves to page n. Pages past the last one are allowed and render empty.
func (b *Browser) SetPage(n int) error {
	if n < 1 || n > pagination.MaxPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, n)
	}
	b.mu.Lock()
	b.query.Page = n
	b.mu.Unlock()
	return nil
}

// Reset restores the default query. Ratings are kept.
func (b *Browser) Reset() {
	b.mu.Lock()
	b.query = b.defaults.Query()
	b.mu.Unlock()
}

// Rate records the client's star rating for a product in products.
// It never changes the product's own rating.
func (b *Browser) Rate(products []Product, id ID, stars int) error {
	if stars < MinUserRating || stars > MaxUserRating {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, stars)
	}
	if !containsID(products, id) {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	b.mu.Lock()
	b.ratings[id] = stars
	b.mu.Unlock()
	return nil
}

// UserRating returns the client's rating for id, if any.
func (b *Browser) UserRating(id ID) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stars, ok := b.ratings[id]
	return stars, ok
}

// View derives the current page over products.
func (b *Browser) View(products []Product) View {
	b.mu.Lock()
	q := b.query
	b.mu.Unlock()

	view := DeriveView(products, q)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range view.Items {
		if stars, ok := b.ratings[p.ID]; ok {
			if view.UserRatings == nil {
				view.UserRatings = map[ID]int{}
			}
			view.UserRatings[p.ID] = stars
		}
	}
	return view
}

func containsID(products []Product, id ID) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}
