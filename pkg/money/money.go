// Package money holds the decimal helpers used for every monetary value the
// storefront exposes. Amounts are shopspring decimals; rounding is to cents.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const Places = 2

var hundred = decimal.NewFromInt(100)

// Round2 rounds to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ApplyPercentOff returns round2(price * (1 - pct/100)).
func ApplyPercentOff(price decimal.Decimal, pct int) decimal.Decimal {
	if pct <= 0 {
		return Round2(price)
	}
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(pct)).Div(hundred))
	return Round2(price.Mul(factor))
}

// Parse reads a non-negative amount such as "19.99".
func Parse(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", raw)
	}
	return value, nil
}

// Sum adds the amounts without intermediate rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}
