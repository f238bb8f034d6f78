package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/sessions"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

const sessionHeader = "X-Storefront-Session"

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (f *fakeLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", CORSOrigins: []string{"http://localhost:3000"}},
		Catalog: config.CatalogConfig{
			PageSize:               2,
			DefaultPriceMin:        decimal.Zero,
			DefaultPriceMax:        decimal.NewFromInt(1000),
			DisplayDiscountPercent: 10,
		},
		Session: config.SessionConfig{Header: sessionHeader},
		RateLimit: config.RateLimitConfig{
			DiscountWindow:       time.Minute,
			DiscountSessionLimit: 2,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestRouter(t *testing.T, limiter *fakeLimiter) http.Handler {
	t.Helper()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	reg := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(reg)

	products := catalog.New(logg).WithRecorder(storefrontMetrics)
	err := products.Load(context.Background(), catalog.SourceFunc(func(context.Context) ([]catalog.Product, error) {
		return []catalog.Product{
			{ID: "1", Name: "Headphones", Category: "electronics", Price: decimal.NewFromInt(100), Rating: 4.5},
			{ID: "2", Name: "Mug", Category: "home", Price: decimal.NewFromInt(50), Rating: 4.0},
			{ID: "3", Name: "Lamp", Category: "home", Price: decimal.NewFromInt(30), Rating: 3.5},
		}, nil
	}))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Products: products,
		Notifier: cart.MetricsNotifier{Recorder: storefrontMetrics},
		Recorder: storefrontMetrics,
	})
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}

	deps := Dependencies{
		Catalog:  products,
		Sessions: sessions.NewRegistry(sessions.Params{Defaults: CatalogDefaults(cfg.Catalog)}),
		Cart:     cartService,
		DB:       stubPinger{},
		Metrics:  storefrontMetrics,
		Gatherer: reg,
	}
	if limiter != nil {
		deps.RateLimiter = limiter
	}
	return NewRouter(cfg, logg, deps)
}

func do(t *testing.T, handler http.Handler, method, target, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if session != "" {
		req.Header.Set(sessionHeader, session)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	if rec := do(t, router, http.MethodGet, "/health/live", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", rec.Code)
	}
	rec := do(t, router, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestPublicCatalogDoesNotNeedSession(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/api/v1/catalog/products?category=home&sort=priceAsc", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get(sessionHeader) != "" {
		t.Fatalf("stateless catalog should not issue a session")
	}
	if !strings.Contains(rec.Body.String(), `"total_count":2`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	if rec := do(t, router, http.MethodGet, "/api/v1/catalog/products/3", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("product: expected 200 got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/api/v1/catalog/facets", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("facets: expected 200 got %d", rec.Code)
	}
}

func TestCartFlowKeepsStatePerSession(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodPost, "/api/v1/cart/items", "", `{"product_id":"1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	session := rec.Header().Get(sessionHeader)
	if session == "" {
		t.Fatalf("expected session header")
	}

	do(t, router, http.MethodPost, "/api/v1/cart/items", session, `{"product_id":"1"}`)
	do(t, router, http.MethodPost, "/api/v1/cart/discount", session, `{"code":"DISCOUNT10"}`)

	rec = do(t, router, http.MethodGet, "/api/v1/cart", session, "")
	var envelope struct {
		Data struct {
			ItemCount       int    `json:"item_count"`
			Subtotal        string `json:"subtotal"`
			DiscountedTotal string `json:"discounted_total"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ItemCount != 2 || envelope.Data.Subtotal != "200.00" || envelope.Data.DiscountedTotal != "180.00" {
		t.Fatalf("unexpected cart %+v", envelope.Data)
	}

	other := do(t, router, http.MethodGet, "/api/v1/cart", "", "")
	if other.Header().Get(sessionHeader) == session {
		t.Fatalf("a new client must get its own session")
	}
	if !strings.Contains(other.Body.String(), `"item_count":0`) {
		t.Fatalf("sessions leaked state: %s", other.Body.String())
	}
}

func TestSessionFiltersResetPageOverHTTP(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodPut, "/api/v1/session/catalog/page", "", `{"page":2}`)
	session := rec.Header().Get(sessionHeader)
	if !strings.Contains(rec.Body.String(), `"page":2`) {
		t.Fatalf("expected page 2, got %s", rec.Body.String())
	}

	rec = do(t, router, http.MethodPatch, "/api/v1/session/catalog/filters", session, `{"category":"home"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Page       int `json:"page"`
			TotalCount int `json:"total_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Page != 1 || envelope.Data.TotalCount != 2 {
		t.Fatalf("expected filtered first page, got %+v", envelope.Data)
	}
}

func TestDiscountAttemptsAreRateLimited(t *testing.T) {
	router := newTestRouter(t, &fakeLimiter{counts: map[string]int64{}})

	first := do(t, router, http.MethodPost, "/api/v1/cart/discount", "", `{"code":"NOPE"}`)
	session := first.Header().Get(sessionHeader)
	if first.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", first.Code)
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/cart/discount", session, `{"code":"NOPE"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/cart/discount", session, `{"code":"SALE20"}`); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
}

func TestMetricsEndpointExposesStorefrontCounters(t *testing.T) {
	router := newTestRouter(t, nil)
	do(t, router, http.MethodPost, "/api/v1/cart/items", "", `{"product_id":"2"}`)

	rec := do(t, router, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"storefront_cart_items_added_total", "storefront_catalog_loads_total"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in metrics output", want)
		}
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(t, nil)
	if rec := do(t, router, http.MethodGet, "/api/v1/nope", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
