// Package discount resolves cart discount codes to percentage rules.
package discount

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCode is matched by every lookup failure.
	ErrInvalidCode = errors.New("invalid discount code")
	// ErrEmptyCode is returned when no code was entered.
	ErrEmptyCode = fmt.Errorf("%w: empty", ErrInvalidCode)
	// ErrUnknownCode is returned when the code matches no rule.
	ErrUnknownCode = fmt.Errorf("%w: unknown", ErrInvalidCode)
)

// DefaultRules is the reference rule set.
var DefaultRules = map[string]int{
	"DISCOUNT10": 10,
	"SALE20":     20,
}

// Rule maps a normalized code to a percentage off the base price.
type Rule struct {
	Code       string `json:"code"`
	Percentage int    `json:"percentage"`
}

// RuleSet is an immutable code lookup. The zero value matches nothing.
type RuleSet struct {
	rules map[string]int
}

// NewRuleSet validates and normalizes the provided code table.
func NewRuleSet(rules map[string]int) (*RuleSet, error) {
	normalized := make(map[string]int, len(rules))
	for code, pct := range rules {
		key := Normalize(code)
		if key == "" {
			return nil, fmt.Errorf("discount code must not be empty")
		}
		if pct < 1 || pct > 100 {
			return nil, fmt.Errorf("discount %s: percentage must be between 1 and 100, got %d", key, pct)
		}
		if _, dup := normalized[key]; dup {
			return nil, fmt.Errorf("discount %s defined twice", key)
		}
		normalized[key] = pct
	}
	return &RuleSet{rules: normalized}, nil
}

// Default returns the reference rule set.
func Default() *RuleSet {
	set, err := NewRuleSet(DefaultRules)
	if err != nil {
		panic(err)
	}
	return set
}

// FromConfig builds a rule set from configuration, falling back to the defaults
// when nothing was configured.
func FromConfig(rules map[string]int) (*RuleSet, error) {
	if len(rules) == 0 {
		return Default(), nil
	}
	return NewRuleSet(rules)
}

// Normalize trims and uppercases a code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup resolves code case-insensitively. There is no partial matching.
func (s *RuleSet) Lookup(code string) (Rule, error) {
	key := Normalize(code)
	if key == "" {
		return Rule{}, ErrEmptyCode
	}
	if s == nil {
		return Rule{}, ErrUnknownCode
	}
	pct, ok := s.rules[key]
	if !ok {
		return Rule{}, ErrUnknownCode
	}
	return Rule{Code: key, Percentage: pct}, nil
}

// Rules lists the configured rules ordered by code.
func (s *RuleSet) Rules() []Rule {
	if s == nil {
		return nil
	}
	out := make([]Rule, 0, len(s.rules))
	for code, pct := range s.rules {
		out = append(out, Rule{Code: code, Percentage: pct})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
