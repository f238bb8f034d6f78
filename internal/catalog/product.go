package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidProduct marks product records that cannot be served.
var ErrInvalidProduct = errors.New("invalid product")

// ID identifies a product. Feeds may send it as a JSON string or number.
type ID string

// UnmarshalJSON accepts both "42" and 42.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Product is an immutable catalog entry.
type Product struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	// Discount is a display badge percentage, unrelated to cart discount codes.
	Discount *int `json:"discount,omitempty"`
}

// Validate checks the field ranges of a single product.
func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(string(p.ID)) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	case p.Price.IsNegative():
		return fmt.Errorf("%w %s: price must not be negative", ErrInvalidProduct, p.ID)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w %s: rating must be within [0,5]", ErrInvalidProduct, p.ID)
	case p.Reviews < 0:
		return fmt.Errorf("%w %s: reviews must not be negative", ErrInvalidProduct, p.ID)
	case p.Discount != nil && (*p.Discount < 0 || *p.Discount > 100):
		return fmt.Errorf("%w %s: discount must be within [0,100]", ErrInvalidProduct, p.ID)
	}
	return nil
}

// ValidateSet validates every product and enforces unique ids.
func ValidateSet(products []Product) error {
	seen := make(map[ID]struct{}, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w %s: duplicate id", ErrInvalidProduct, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
