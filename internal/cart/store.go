package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/discount"
	"github.com/angelmondragon/storefront-backend/pkg/money"
)

// Store is one client's cart. Every exported method is atomic.
type Store struct {
	mu    sync.Mutex
	rules *discount.RuleSet

	items        []LineItem
	discountPct  int
	discountCode string
	lastError    string
}

// NewStore builds an empty cart resolving codes against rules.
func NewStore(rules *discount.RuleSet) *Store {
	if rules == nil {
		rules = discount.Default()
	}
	return &Store{rules: rules}
}

// Add puts one unit of p in the cart, merging with an existing line.
func (s *Store) Add(p catalog.Product) LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i].Quantity++
		return s.items[i]
	}
	item := newLineItem(p)
	s.items = append(s.items, item)
	return item
}

// Remove drops the line for id. Absent ids are ignored.
func (s *Store) Remove(id catalog.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
}

// UpdateQuantity sets the quantity of an existing line.
func (s *Store) UpdateQuantity(id catalog.ID, quantity int) (LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		err := fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
		s.lastError = ErrInvalidQuantity.Error()
		return LineItem{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return LineItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	s.items[i].Quantity = quantity
	if s.lastError == ErrInvalidQuantity.Error() {
		s.lastError = ""
	}
	return s.items[i], nil
}

// RejectQuantity records a quantity that failed parsing before reaching the store.
func (s *Store) RejectQuantity() {
	s.mu.Lock()
	s.lastError = ErrInvalidQuantity.Error()
	s.mu.Unlock()
}

// Increment adds one unit to an existing line.
func (s *Store) Increment(id catalog.ID) (LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return LineItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	s.items[i].Quantity++
	return s.items[i], nil
}

// Decrement removes one unit. At quantity 1 the line is returned unchanged.
func (s *Store) Decrement(id catalog.ID) (LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return LineItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if s.items[i].CanDecrement() {
		s.items[i].Quantity--
	}
	return s.items[i], nil
}

// ApplyDiscountCode activates the rule matching code. A rejected code revokes
// any active discount.
func (s *Store) ApplyDiscountCode(code string) (discount.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, err := s.rules.Lookup(code)
	if err != nil {
		s.discountPct = 0
		s.discountCode = ""
		if errors.Is(err, discount.ErrEmptyCode) {
			s.lastError = "enter a discount code"
		} else {
			s.lastError = ErrInvalidDiscountCode.Error()
		}
		return discount.Rule{}, err
	}
	s.discountPct = rule.Percentage
	s.discountCode = rule.Code
	s.lastError = ""
	return rule, nil
}

// DiscountPercentage is the active percentage, 0 when none.
func (s *Store) DiscountPercentage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discountPct
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns the line for id.
func (s *Store) Item(id catalog.ID) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return LineItem{}, false
}

// Subtotal sums price*quantity and rounds once.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotal()
}

// DiscountedTotal sums the per-line rounded discounted totals.
func (s *Store) DiscountedTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discountedTotal()
}

// TotalDiscount is round2(subtotal - discounted total).
func (s *Store) TotalDiscount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return money.Round2(s.subtotal().Sub(s.discountedTotal()))
}

// LastError is the most recent user-facing problem, empty when none.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Clear empties the cart and revokes the discount.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.discountPct = 0
	s.discountCode = ""
	s.lastError = ""
}

// Snapshot captures every derived value under one lock.
func (s *Store) Snapshot() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]LineSummary, 0, len(s.items))
	count := 0
	for _, item := range s.items {
		lines = append(lines, LineSummary{
			LineItem:        item,
			DiscountedPrice: item.DiscountedPrice(s.discountPct),
			LineSubtotal:    money.Round2(item.Subtotal()),
			LineTotal:       item.DiscountedTotal(s.discountPct),
			CanDecrement:    item.CanDecrement(),
		})
		count += item.Quantity
	}
	subtotal := s.subtotal()
	total := s.discountedTotal()
	return Summary{
		Lines:              lines,
		ItemCount:          count,
		Subtotal:           subtotal,
		DiscountedTotal:    total,
		TotalDiscount:      money.Round2(subtotal.Sub(total)),
		DiscountCode:       s.discountCode,
		DiscountPercentage: s.discountPct,
		Error:              s.lastError,
	}
}

func (s *Store) subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range s.items {
		sum = sum.Add(item.Subtotal())
	}
	return money.Round2(sum)
}

func (s *Store) discountedTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range s.items {
		sum = sum.Add(item.DiscountedTotal(s.discountPct))
	}
	return sum
}

func (s *Store) indexOf(id catalog.ID) int {
	for i, item := range s.items {
		if item.ProductID == id {
			return i
		}
	}
	return -1
}
