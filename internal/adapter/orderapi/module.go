package orderapi

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/metrics"
	"github.com/polkiloo/storefront/internal/pkg/resilience"
)

// Module exposes the order service client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

func newClient(p clientParams) (repository.OrderRepository, error) {
	return NewHTTPClient(p.Config.OrderServiceAddress, Options{
		Timeout:       p.Config.RequestTimeout,
		SessionCookie: p.Config.SessionCookie,
		Breaker: resilience.Options{
			FailureRatio: p.Config.BreakerFailureRatio,
			OpenTimeout:  p.Config.BreakerOpenTimeout,
		},
	}, p.Metrics, p.Logger)
}
