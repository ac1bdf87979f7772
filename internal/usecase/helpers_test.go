package usecase

import (
	"io"
	"log/slog"

	"github.com/polkiloo/storefront/internal/cart"
	testhelpers "github.com/polkiloo/storefront/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newCartUseCase(repo *testhelpers.OrderRepositoryStub) (*CartUseCase, *cart.Cache) {
	cache := cart.NewCache()
	return NewCartUseCase(repo, cache, testLogger()), cache
}
