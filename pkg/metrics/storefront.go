package metrics

import "github.com/prometheus/client_golang/prometheus"

// StorefrontMetrics counts shopper actions.
type StorefrontMetrics struct {
	cartAdds       *prometheus.CounterVec
	discounts      *prometheus.CounterVec
	catalogViews   *prometheus.CounterVec
	activeSessions prometheus.Gauge
	catalogLoads   *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartAdds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_items_added_total",
		Help: "Products added to carts.",
	}, []string{"category"})
	discounts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_discount_attempts_total",
		Help: "Discount code submissions by outcome.",
	}, []string{"outcome"})
	catalogViews := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_views_total",
		Help: "Catalog views served.",
	}, []string{"kind"})
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_active_sessions",
		Help: "Shopper sessions held in memory.",
	})
	catalogLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_loads_total",
		Help: "Product catalog loads by result.",
	}, []string{"status"})
	reg.MustRegister(cartAdds, discounts, catalogViews, activeSessions, catalogLoads)
	return &StorefrontMetrics{
		cartAdds:       cartAdds,
		discounts:      discounts,
		catalogViews:   catalogViews,
		activeSessions: activeSessions,
		catalogLoads:   catalogLoads,
	}
}

func (m *StorefrontMetrics) CartItemAdded(category string) {
	if m == nil || m.cartAdds == nil {
		return
	}
	m.cartAdds.WithLabelValues(normalizeLabel(category)).Inc()
}

func (m *StorefrontMetrics) DiscountAttempt(outcome string) {
	if m == nil || m.discounts == nil {
		return
	}
	m.discounts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *StorefrontMetrics) CatalogViewed(kind string) {
	if m == nil || m.catalogViews == nil {
		return
	}
	m.catalogViews.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (m *StorefrontMetrics) SetActiveSessions(n int) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func (m *StorefrontMetrics) CatalogLoaded(status string) {
	if m == nil || m.catalogLoads == nil {
		return
	}
	m.catalogLoads.WithLabelValues(normalizeLabel(status)).Inc()
}
