package enums

import "testing"

func TestParseSortKey(t *testing.T) {
	cases := map[string]SortKey{
		"":             SortNone,
		"none":         SortNone,
		"priceAsc":     SortPriceAsc,
		"PRICEASC":     SortPriceAsc,
		"priceLowHigh": SortPriceAsc,
		"priceDesc":    SortPriceDesc,
		"priceHighLow": SortPriceDesc,
		"ratingDesc":   SortRatingDesc,
		"rating":       SortRatingDesc,
	}
	for raw, want := range cases {
		got, err := ParseSortKey(raw)
		if err != nil {
			t.Fatalf("ParseSortKey(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseSortKey(%q) = %s, want %s", raw, got, want)
		}
		if !got.IsValid() {
			t.Fatalf("parsed key %s should be valid", got)
		}
	}

	if _, err := ParseSortKey("newest"); err == nil {
		t.Fatal("expected unknown sort key to fail")
	}
	if SortKey("rating").IsValid() {
		t.Fatal("aliases are not canonical keys")
	}
}
