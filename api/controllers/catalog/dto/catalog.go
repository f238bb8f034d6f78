package dto

import "github.com/shopspring/decimal"

// Product is the wire shape of a catalog entry. Amounts are fixed two-decimal strings.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	SalePrice   string  `json:"sale_price"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
	Discount    *int    `json:"discount,omitempty"`
	UserRating  *int    `json:"user_rating,omitempty"`
}

type Query struct {
	Category string `json:"category"`
	PriceMin string `json:"price_min"`
	PriceMax string `json:"price_max"`
	Sort     string `json:"sort"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// View is one rendered catalog page.
type View struct {
	Status     string    `json:"status"`
	Query      Query     `json:"query"`
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	TotalCount int       `json:"total_count"`
}

type PricePreset struct {
	Label string `json:"label"`
	Min   string `json:"min"`
	Max   string `json:"max"`
}

type Facets struct {
	Categories   []string      `json:"categories"`
	PricePresets []PricePreset `json:"price_presets"`
	SortKeys     []string      `json:"sort_keys"`
}

// FilterRequest is a partial filter update; omitted fields keep their value.
// Prices accept JSON numbers or strings.
type FilterRequest struct {
	Category *string          `json:"category" validate:"omitempty,max=100"`
	PriceMin *decimal.Decimal `json:"price_min"`
	PriceMax *decimal.Decimal `json:"price_max"`
	Sort     *string          `json:"sort" validate:"omitempty,max=32"`
}

type PageRequest struct {
	Page int `json:"page" validate:"required,min=1,max=2147483647"`
}

type RatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type RatingResponse struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	View      View   `json:"view"`
}
