package enums

import (
	"fmt"
	"strings"
)

// SortKey selects the ordering applied to the catalog view.
type SortKey string

const (
	SortNone       SortKey = "none"
	SortPriceAsc   SortKey = "priceAsc"
	SortPriceDesc  SortKey = "priceDesc"
	SortRatingDesc SortKey = "ratingDesc"
)

var validSortKeys = []SortKey{
	SortNone,
	SortPriceAsc,
	SortPriceDesc,
	SortRatingDesc,
}

// sortKeyAliases keeps the values the storefront UI has always sent working.
var sortKeyAliases = map[string]SortKey{
	"":             SortNone,
	"priceLowHigh": SortPriceAsc,
	"priceHighLow": SortPriceDesc,
	"rating":       SortRatingDesc,
}

// String implements fmt.Stringer.
func (k SortKey) String() string {
	return string(k)
}

// IsValid reports whether the value is a known SortKey.
func (k SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseSortKey converts raw input, including UI aliases, into a SortKey.
func ParseSortKey(value string) (SortKey, error) {
	trimmed := strings.TrimSpace(value)
	if alias, ok := sortKeyAliases[trimmed]; ok {
		return alias, nil
	}
	for _, candidate := range validSortKeys {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}
