package metrics

import "go.uber.org/fx"

// Module provides the metrics registry.
var Module = fx.Provide(New)
