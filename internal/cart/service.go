package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/discount"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// Discount attempt outcomes reported to the recorder.
const (
	OutcomeApplied = "applied"
	OutcomeUnknown = "unknown"
	OutcomeEmpty   = "empty"
)

type productLookup interface {
	Get(id catalog.ID) (catalog.Product, bool)
}

type discountRecorder interface {
	DiscountAttempt(outcome string)
}

// Service runs cart actions against a client's store and maps domain
// failures onto API error codes.
type Service interface {
	AddItem(ctx context.Context, store *Store, productID catalog.ID) (LineItem, error)
	UpdateQuantity(ctx context.Context, store *Store, productID catalog.ID, quantity QuantityInput) (LineItem, error)
	Increment(ctx context.Context, store *Store, productID catalog.ID) (LineItem, error)
	Decrement(ctx context.Context, store *Store, productID catalog.ID) (LineItem, error)
	Remove(ctx context.Context, store *Store, productID catalog.ID)
	ApplyDiscount(ctx context.Context, store *Store, code string) (discount.Rule, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Products productLookup
	Notifier Notifier
	Recorder discountRecorder
}

type service struct {
	products productLookup
	notifier Notifier
	recorder discountRecorder
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = Notifiers{}
	}
	return &service{
		products: params.Products,
		notifier: notifier,
		recorder: params.Recorder,
	}, nil
}

// AddItem adds one unit of a catalog product and notifies listeners.
func (s *service) AddItem(ctx context.Context, store *Store, productID catalog.ID) (LineItem, error) {
	if strings.TrimSpace(productID.String()) == "" {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, ok := s.products.Get(productID)
	if !ok {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", productID))
	}
	item := store.Add(product)
	s.notifier.ItemAdded(ctx, item)
	return item, nil
}

// UpdateQuantity parses raw user input and applies it to the line.
func (s *service) UpdateQuantity(ctx context.Context, store *Store, productID catalog.ID, quantity QuantityInput) (LineItem, error) {
	q, err := quantity.Int()
	if err != nil {
		store.RejectQuantity()
		return LineItem{}, mapError(err)
	}
	item, err := store.UpdateQuantity(productID, q)
	if err != nil {
		return LineItem{}, mapError(err)
	}
	return item, nil
}

func (s *service) Increment(ctx context.Context, store *Store, productID catalog.ID) (LineItem, error) {
	item, err := store.Increment(productID)
	if err != nil {
		return LineItem{}, mapError(err)
	}
	return item, nil
}

func (s *service) Decrement(ctx context.Context, store *Store, productID catalog.ID) (LineItem, error) {
	item, err := store.Decrement(productID)
	if err != nil {
		return LineItem{}, mapError(err)
	}
	return item, nil
}

func (s *service) Remove(ctx context.Context, store *Store, productID catalog.ID) {
	store.Remove(productID)
}

// ApplyDiscount resolves code against the store's rules.
func (s *service) ApplyDiscount(ctx context.Context, store *Store, code string) (discount.Rule, error) {
	rule, err := store.ApplyDiscountCode(code)
	s.record(err)
	if err != nil {
		return discount.Rule{}, mapError(err)
	}
	return rule, nil
}

func (s *service) record(err error) {
	if s.recorder == nil {
		return
	}
	switch {
	case err == nil:
		s.recorder.DiscountAttempt(OutcomeApplied)
	case errors.Is(err, discount.ErrEmptyCode):
		s.recorder.DiscountAttempt(OutcomeEmpty)
	default:
		s.recorder.DiscountAttempt(OutcomeUnknown)
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	case errors.Is(err, ErrItemNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, err.Error())
	case errors.Is(err, ErrInvalidDiscountCode):
		return pkgerrors.Wrap(pkgerrors.CodeInvalidDiscount, err, err.Error())
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart operation failed")
	}
}
