package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/metrics"
	"github.com/polkiloo/storefront/internal/server/http/handlers"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
)

const (
	cartStreamPath  = "/api/cart/stream"
	countStreamPath = "/api/cart/count/stream"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{cartStreamPath, countStreamPath})))

	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	streamHandler := handlers.NewStreamHandler(facade)

	engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := engine.Group("/api")

	cart := api.Group("/cart")
	cart.GET("", cartHandler.Snapshot)
	cart.DELETE("", cartHandler.Clear)
	cart.GET("/count", cartHandler.Count)
	cart.GET("/stream", streamHandler.Cart)
	cart.GET("/count/stream", streamHandler.Count)

	users := api.Group("/users/:userID")
	users.GET("/cart", cartHandler.Load)
	users.POST("/cart", cartHandler.Open)
	users.GET("/orders", orderHandler.History)

	orders := api.Group("/orders/:orderID")
	orders.GET("", orderHandler.Get)
	orders.POST("/cancel", orderHandler.Cancel)
	orders.POST("/redo", orderHandler.Redo)
	orders.POST("/checkout", cartHandler.Checkout)
	orders.POST("/items", cartHandler.AddItem)
	orders.DELETE("/items", cartHandler.ClearItems)
	orders.PUT("/items/:productID", cartHandler.UpdateItem)
	orders.DELETE("/items/:productID", cartHandler.RemoveItem)

	return engine
}
