package cart

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/metrics"
)

// Module provides the shared cart cache and reports its size as metrics.
var Module = fx.Options(
	fx.Provide(NewCache),
	fx.Invoke(ReportMetrics),
)

// ReportMetrics keeps the cart gauges in step with published snapshots.
func ReportMetrics(cache *Cache, m *metrics.Metrics) {
	m.CartItems.Set(float64(cache.ItemCount()))
	cache.Subscribe(func(order *model.Order) {
		m.CartPublications.Inc()
		m.CartItems.Set(float64(order.ItemCount()))
	})
}
