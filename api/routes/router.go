package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-backend/api/controllers/cart"
	catalogcontrollers "github.com/angelmondragon/storefront-backend/api/controllers/catalog"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/sessions"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// DiscountPolicyName scopes the discount-attempt rate limit counters.
const DiscountPolicyName = "discount"

// Dependencies are the services the HTTP layer routes to. DB, Redis and
// RateLimiter are optional and must be left nil when not configured.
type Dependencies struct {
	Catalog     *catalog.Catalog
	Sessions    *sessions.Registry
	Cart        cart.Service
	DB          controllers.Pinger
	Redis       controllers.Pinger
	RateLimiter redis.RateLimiter
	Metrics     *metrics.StorefrontMetrics
	Gatherer    prometheus.Gatherer
}

// CatalogDefaults builds the starting catalog query from configuration.
func CatalogDefaults(cfg config.CatalogConfig) catalog.Defaults {
	return catalog.Defaults{
		PageSize: cfg.PageSize,
		PriceRange: catalog.PriceRange{
			Min: cfg.DefaultPriceMin,
			Max: cfg.DefaultPriceMax,
		},
	}
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins, cfg.Session.Header),
	)

	discountPolicy := middleware.NewRateLimitPolicy(
		DiscountPolicyName,
		cfg.RateLimit.DiscountWindow,
		cfg.RateLimit.DiscountIPLimit,
		cfg.RateLimit.DiscountSessionLimit,
	)

	catalogOpts := catalogcontrollers.Options{
		Defaults:               CatalogDefaults(cfg.Catalog),
		DisplayDiscountPercent: cfg.Catalog.DisplayDiscountPercent,
	}
	if deps.Metrics != nil {
		catalogOpts.Metrics = deps.Metrics
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, controllers.ReadinessDeps{
			Catalog: deps.Catalog,
			DB:      deps.DB,
			Redis:   deps.Redis,
		}, logg))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", catalogcontrollers.ListProducts(deps.Catalog, catalogOpts, logg))
			r.Get("/products/{productId}", catalogcontrollers.GetProduct(deps.Catalog, catalogOpts, logg))
			r.Get("/facets", catalogcontrollers.Facets(deps.Catalog, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.Session.Header, deps.Sessions, logg))

			r.Route("/session/catalog", func(r chi.Router) {
				r.Get("/", catalogcontrollers.SessionView(deps.Catalog, catalogOpts, logg))
				r.Patch("/filters", catalogcontrollers.SessionFilters(deps.Catalog, catalogOpts, logg))
				r.Delete("/filters", catalogcontrollers.SessionResetFilters(deps.Catalog, catalogOpts, logg))
				r.Put("/page", catalogcontrollers.SessionPage(deps.Catalog, catalogOpts, logg))
				r.Put("/ratings/{productId}", catalogcontrollers.SessionRate(deps.Catalog, catalogOpts, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(logg))
				r.Delete("/", cartcontrollers.CartClear(logg))
				r.Post("/items", cartcontrollers.CartAddItem(deps.Cart, logg))
				r.Patch("/items/{productId}", cartcontrollers.CartUpdateQuantity(deps.Cart, logg))
				r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(deps.Cart, logg))
				r.Post("/items/{productId}/increment", cartcontrollers.CartIncrement(deps.Cart, logg))
				r.Post("/items/{productId}/decrement", cartcontrollers.CartDecrement(deps.Cart, logg))
				r.With(middleware.RateLimit(discountPolicy, deps.RateLimiter, logg)).
					Post("/discount", cartcontrollers.CartApplyDiscount(deps.Cart, logg))
			})
		})
	})

	return r
}
