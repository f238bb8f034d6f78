package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseQuantity reads a quantity typed by a user. NaN, infinities, fractions
// and anything below 1 are rejected with ErrInvalidQuantity.
func ParseQuantity(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidQuantity)
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidQuantity, raw)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidQuantity, raw)
	}
	if value != math.Trunc(value) {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidQuantity, raw)
	}
	if value < 1 {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidQuantity, trimmed)
	}
	if value > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s is too large", ErrInvalidQuantity, trimmed)
	}
	return int(value), nil
}

// QuantityInput accepts a quantity sent as a JSON number or string.
type QuantityInput string

func (q *QuantityInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = QuantityInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidQuantity, data)
	}
	*q = QuantityInput(n.String())
	return nil
}

// Int validates and converts the input.
func (q QuantityInput) Int() (int, error) {
	return ParseQuantity(string(q))
}
