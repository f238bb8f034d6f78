package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

// PriceRange is an inclusive [Min, Max] filter. Min > Max matches nothing.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Contains reports whether price falls inside the range.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return r.Min.LessThanOrEqual(price) && price.LessThanOrEqual(r.Max)
}

// Query is the full set of inputs that derive a catalog view.
type Query struct {
	Category   string        `json:"category"`
	PriceRange PriceRange    `json:"price_range"`
	Sort       enums.SortKey `json:"sort"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

func (q Query) normalized() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	q.PageSize = pagination.NormalizePageSize(q.PageSize)
	if !q.Sort.IsValid() {
		q.Sort = enums.SortNone
	}
	return q
}

// Defaults seed new queries.
type Defaults struct {
	PageSize   int
	PriceRange PriceRange
}

// DefaultPriceRange covers the whole storefront ("All Prices").
var DefaultPriceRange = PriceRange{
	Min: decimal.Zero,
	Max: decimal.NewFromInt(1000),
}

// Query returns the first page of the unfiltered, unsorted catalog.
// A zero price range falls back to DefaultPriceRange.
func (d Defaults) Query() Query {
	r := d.PriceRange
	if r.Min.IsZero() && r.Max.IsZero() {
		r = DefaultPriceRange
	}
	return Query{
		PriceRange: r,
		Sort:       enums.SortNone,
		Page:       1,
		PageSize:   pagination.NormalizePageSize(d.PageSize),
	}
}
