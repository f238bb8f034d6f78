package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/api/controllers/catalog/dto"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	catalogsvc "github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/sessions"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

func sessionFromRequest(r *http.Request) (*sessions.Session, error) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return session, nil
}

// SessionView renders the caller's current catalog page.
func SessionView(store productCatalog, opts Options, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSessionView(w, store, opts, session)
	}
}

// SessionFilters applies a partial filter update. Any accepted update returns to page 1.
func SessionFilters(store productCatalog, opts Options, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload dto.FilterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		change, err := toFilterChange(payload, session.Browser.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.Browser.ApplyFilters(change); err != nil {
			responses.WriteError(r.Context(), logg, w, mapBrowserError(err))
			return
		}

		writeSessionView(w, store, opts, session)
	}
}

// SessionResetFilters restores the default query. Star ratings survive.
func SessionResetFilters(store productCatalog, opts Options, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session.Browser.Reset()
		writeSessionView(w, store, opts, session)
	}
}

// SessionPage moves the caller to another page without touching filters.
func SessionPage(store productCatalog, opts Options, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload dto.PageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.Browser.SetPage(payload.Page); err != nil {
			responses.WriteError(r.Context(), logg, w, mapBrowserError(err))
			return
		}

		writeSessionView(w, store, opts, session)
	}
}

// SessionRate records the caller's star rating for a product.
func SessionRate(store productCatalog, opts Options, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := catalogsvc.ID(strings.TrimSpace(chi.URLParam(r, "productId")))
		var payload dto.RatingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.Browser.Rate(store.Products(), id, payload.Rating); err != nil {
			responses.WriteError(r.Context(), logg, w, mapBrowserError(err))
			return
		}

		view := session.Browser.View(store.Products())
		responses.WriteSuccess(w, dto.RatingResponse{
			ProductID: id.String(),
			Rating:    payload.Rating,
			View:      newView(view, catalogStatus(store), opts.DisplayDiscountPercent),
		})
	}
}

func writeSessionView(w http.ResponseWriter, store productCatalog, opts Options, session *sessions.Session) {
	view := session.Browser.View(store.Products())
	opts.recordView(viewKindSession)
	responses.WriteSuccess(w, newView(view, catalogStatus(store), opts.DisplayDiscountPercent))
}

// toFilterChange fills a one-sided price update from the current range.
func toFilterChange(payload dto.FilterRequest, current catalogsvc.Query) (catalogsvc.FilterChange, error) {
	var change catalogsvc.FilterChange

	if payload.Category != nil {
		category := strings.TrimSpace(*payload.Category)
		change.Category = &category
	}

	if payload.PriceMin != nil || payload.PriceMax != nil {
		r := current.PriceRange
		if payload.PriceMin != nil {
			r.Min = *payload.PriceMin
		}
		if payload.PriceMax != nil {
			r.Max = *payload.PriceMax
		}
		if r.Min.LessThan(decimal.Zero) || r.Max.LessThan(decimal.Zero) {
			return change, pkgerrors.New(pkgerrors.CodeValidation, "price range must not be negative").
				WithDetails(map[string]any{"price_min": r.Min.String(), "price_max": r.Max.String()})
		}
		change.PriceRange = &r
	}

	if payload.Sort != nil {
		key, err := enums.ParseSortKey(*payload.Sort)
		if err != nil {
			return change, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort").WithDetails(map[string]any{"field": "sort"})
		}
		change.Sort = &key
	}
	return change, nil
}

func mapBrowserError(err error) error {
	switch {
	case errors.Is(err, catalogsvc.ErrUnknownProduct):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	case errors.Is(err, catalogsvc.ErrInvalidPage),
		errors.Is(err, catalogsvc.ErrInvalidRating),
		errors.Is(err, catalogsvc.ErrInvalidSort):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "catalog update failed")
	}
}
