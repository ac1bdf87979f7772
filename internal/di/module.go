package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/adapter/orderapi"
	"github.com/polkiloo/storefront/internal/app"
	"github.com/polkiloo/storefront/internal/cart"
	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/logger"
	"github.com/polkiloo/storefront/internal/metrics"
	"github.com/polkiloo/storefront/internal/server/http/router"
	"github.com/polkiloo/storefront/internal/usecase"
)

// Module assembles the storefront graph. Extra options are appended last so
// tests can replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		orderapi.Module,
		cart.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
