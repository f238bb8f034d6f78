package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	catalogsvc "github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

const maxCategoryLength = 100

// View kinds reported to the metrics recorder.
const (
	viewKindList    = "list"
	viewKindProduct = "product"
	viewKindSession = "session"
)

type productCatalog interface {
	Products() []catalogsvc.Product
	Get(id catalogsvc.ID) (catalogsvc.Product, bool)
	Status() (enums.CatalogStatus, error)
}

type viewRecorder interface {
	CatalogViewed(kind string)
}

// Options shapes every catalog response.
type Options struct {
	Defaults               catalogsvc.Defaults
	DisplayDiscountPercent int
	Metrics                viewRecorder
}

func (o Options) recordView(kind string) {
	if o.Metrics != nil {
		o.Metrics.CatalogViewed(kind)
	}
}

func catalogStatus(store productCatalog) enums.CatalogStatus {
	status, _ := store.Status()
	return status
}

// ListProducts derives a catalog page purely from query parameters.
// A catalog that failed to load renders as an empty view.
func ListProducts(store productCatalog, opts Options, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		q, err := parseQuery(r, opts.Defaults.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := catalogsvc.DeriveView(store.Products(), q)
		opts.recordView(viewKindList)
		responses.WriteSuccess(w, newView(view, catalogStatus(store), opts.DisplayDiscountPercent))
	}
}

// GetProduct returns one product with its display sale price.
func GetProduct(store productCatalog, opts Options, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "productId"))
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		product, ok := store.Get(catalogsvc.ID(id))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		opts.recordView(viewKindProduct)
		responses.WriteSuccess(w, newProduct(product, opts.DisplayDiscountPercent))
	}
}

// Facets lists categories, price presets and sort keys for the loaded catalog.
func Facets(store productCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, newFacets(catalogsvc.BuildFacets(store.Products())))
	}
}

func parseQuery(r *http.Request, base catalogsvc.Query) (catalogsvc.Query, error) {
	q := base
	q.Category = validators.ParseQueryString(r, "category", maxCategoryLength)

	var err error
	if q.PriceRange.Min, err = validators.ParseQueryDecimal(r, "price_min", base.PriceRange.Min); err != nil {
		return q, err
	}
	if q.PriceRange.Max, err = validators.ParseQueryDecimal(r, "price_max", base.PriceRange.Max); err != nil {
		return q, err
	}

	if raw := r.URL.Query().Get("sort"); raw != "" {
		key, err := enums.ParseSortKey(raw)
		if err != nil {
			return q, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort").WithDetails(map[string]any{"field": "sort"})
		}
		q.Sort = key
	}

	if q.Page, err = validators.ParseQueryInt(r, "page", 1, 1, pagination.MaxPage); err != nil {
		return q, err
	}
	if q.PageSize, err = validators.ParseQueryInt(r, "page_size", base.PageSize, 1, pagination.MaxPageSize); err != nil {
		return q, err
	}
	return q, nil
}
