package router

import "go.uber.org/fx"

// Module registers views gateway router construction for fx runtime.
var Module = fx.Provide(Setup)
