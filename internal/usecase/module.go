package usecase

import "go.uber.org/fx"

// Module provides cart, order and reorder use cases to the fx container.
var Module = fx.Provide(
	NewCartUseCase,
	NewOrderUseCase,
	NewReorderUseCase,
)
