package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/storefront/internal/cart"
	"github.com/polkiloo/storefront/internal/config"
	"github.com/polkiloo/storefront/internal/domain/model"
	testhelpers "github.com/polkiloo/storefront/internal/test"
	"github.com/polkiloo/storefront/internal/usecase"
)

func newFacade() (*StorefrontFacade, *testhelpers.OrderRepositoryStub, *cart.Cache) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	repo := &testhelpers.OrderRepositoryStub{}
	cache := cart.NewCache()
	carts := usecase.NewCartUseCase(repo, cache, logger)
	orders := usecase.NewOrderUseCase(repo, cache, &config.Config{HistoryPageSize: 5}, logger)
	reorders := usecase.NewReorderUseCase(repo, carts, nil, logger)
	return NewStorefrontFacade(carts, orders, reorders, cache), repo, cache
}

func TestStorefrontFacadeCartLifecycle(t *testing.T) {
	facade, repo, _ := newFacade()
	ctx := context.Background()

	order, err := facade.GetOrCreateCart(ctx, "user-1", "1 Main St")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.CallCount("Create"))
	assert.Equal(t, order.ID, facade.Cart().ID)

	_, err = facade.AddItem(ctx, order.ID, model.OrderItem{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, facade.CartItemCount())

	_, err = facade.UpdateItem(ctx, order.ID, "p1", model.OrderItem{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, facade.CartItemCount())

	_, err = facade.RemoveItem(ctx, order.ID, "p1")
	require.NoError(t, err)
	_, err = facade.ClearItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, facade.CartItemCount())
	require.NotNil(t, facade.Cart())

	placed, err := facade.Checkout(ctx, order.ID, model.CheckoutRequest{ShippingAddress: "1 Main St", PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, placed.Status)
	assert.Nil(t, facade.Cart())
}

func TestStorefrontFacadeWatchAndClear(t *testing.T) {
	facade, repo, _ := newFacade()
	repo.ActiveCartFn = func(context.Context, string) (*model.Order, error) {
		return &model.Order{ID: "cart-1", Status: model.OrderStatusPending, Items: []model.OrderItem{{ProductID: "p1", Quantity: 2}}}, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counts := facade.WatchCartItemCount(ctx)
	carts := facade.WatchCart(ctx)
	assert.Equal(t, 0, <-counts)
	assert.Nil(t, <-carts)

	_, err := facade.LoadCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, receive(t, counts))
	assert.Equal(t, "cart-1", receive(t, carts).ID)

	facade.ClearCart()
	assert.Equal(t, 0, receive(t, counts))
	assert.Nil(t, receive(t, carts))
}

func TestStorefrontFacadeSyncCartObservesRemoteCheckout(t *testing.T) {
	facade, repo, _ := newFacade()
	ctx := context.Background()

	require.NoError(t, facade.SyncCart(ctx))
	assert.Zero(t, repo.CallCount("ActiveCart"), "sync must not run before a cart is tracked")

	repo.ActiveCartFn = func(context.Context, string) (*model.Order, error) {
		return &model.Order{ID: "cart-1", Status: model.OrderStatusPending}, nil
	}
	_, err := facade.LoadCart(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, facade.Cart())

	repo.ActiveCartFn = nil
	require.NoError(t, facade.SyncCart(ctx))
	assert.Nil(t, facade.Cart())

	repo.ActiveCartFn = func(context.Context, string) (*model.Order, error) {
		return nil, errors.New("connection refused")
	}
	assert.Error(t, facade.SyncCart(ctx))
}

func TestStorefrontFacadeRedoOrder(t *testing.T) {
	facade, repo, _ := newFacade()
	repo.RedoFn = func(_ context.Context, orderID string) (*model.ReorderReport, error) {
		return &model.ReorderReport{
			Order:   &model.Order{ID: "cart-9", Status: model.OrderStatusPending, Items: []model.OrderItem{{ProductID: "p1", Quantity: 1}}},
			Message: "All items were added",
		}, nil
	}

	report, err := facade.RedoOrder(context.Background(), "order-1", false)
	require.NoError(t, err)
	assert.Equal(t, model.ReorderOutcomeFull, report.Outcome())
	assert.Nil(t, facade.Cart(), "plain redo leaves the cart alone")

	_, err = facade.RedoOrder(context.Background(), "order-1", true)
	require.NoError(t, err)
	require.NotNil(t, facade.Cart())
	assert.Equal(t, "cart-9", facade.Cart().ID)
}

func TestStorefrontFacadeOrders(t *testing.T) {
	facade, repo, _ := newFacade()
	ctx := context.Background()
	repo.GetFn = func(_ context.Context, orderID string) (*model.Order, error) {
		return &model.Order{ID: orderID, Status: model.OrderStatusShipping}, nil
	}

	order, err := facade.Order(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	var got model.PageRequest
	repo.ListByUserFn = func(_ context.Context, _ string, page model.PageRequest) (*model.OrderPage, error) {
		got = page
		return &model.OrderPage{}, nil
	}
	_, err = facade.OrderHistory(ctx, "user-1", model.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Size)

	result, err := facade.CancelOrder(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, result.Cancelled())
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cart update")
	}
	var zero T
	return zero
}
