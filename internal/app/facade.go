package app

import (
	"context"

	"github.com/polkiloo/storefront/internal/cart"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/usecase"
)

// StorefrontFacade exposes cart, order and reorder use cases to the views
// gateway and the cart synchronizer.
type StorefrontFacade struct {
	carts    *usecase.CartUseCase
	orders   *usecase.OrderUseCase
	reorders *usecase.ReorderUseCase
	cache    *cart.Cache
}

func NewStorefrontFacade(carts *usecase.CartUseCase, orders *usecase.OrderUseCase, reorders *usecase.ReorderUseCase, cache *cart.Cache) *StorefrontFacade {
	return &StorefrontFacade{carts: carts, orders: orders, reorders: reorders, cache: cache}
}

func (f *StorefrontFacade) Cart() *model.Order {
	return f.cache.Read()
}

func (f *StorefrontFacade) CartItemCount() int {
	return f.cache.ItemCount()
}

func (f *StorefrontFacade) WatchCart(ctx context.Context) <-chan *model.Order {
	return f.cache.Watch(ctx)
}

func (f *StorefrontFacade) WatchCartItemCount(ctx context.Context) <-chan int {
	return f.cache.WatchItemCount(ctx)
}

func (f *StorefrontFacade) ClearCart() {
	f.carts.ClearCart()
}

func (f *StorefrontFacade) LoadCart(ctx context.Context, userID string) (*model.Order, error) {
	return f.carts.LoadCart(ctx, userID)
}

func (f *StorefrontFacade) GetOrCreateCart(ctx context.Context, userID, shippingAddress string) (*model.Order, error) {
	return f.carts.GetOrCreateCart(ctx, userID, shippingAddress)
}

func (f *StorefrontFacade) SyncCart(ctx context.Context) error {
	return f.carts.SyncCart(ctx)
}

func (f *StorefrontFacade) AddItem(ctx context.Context, orderID string, item model.OrderItem) (*model.Order, error) {
	return f.carts.AddItem(ctx, orderID, item)
}

func (f *StorefrontFacade) UpdateItem(ctx context.Context, orderID, productID string, item model.OrderItem) (*model.Order, error) {
	return f.carts.UpdateItem(ctx, orderID, productID, item)
}

func (f *StorefrontFacade) RemoveItem(ctx context.Context, orderID, productID string) (*model.Order, error) {
	return f.carts.RemoveItem(ctx, orderID, productID)
}

func (f *StorefrontFacade) ClearItems(ctx context.Context, orderID string) (*model.Order, error) {
	return f.carts.ClearItems(ctx, orderID)
}

func (f *StorefrontFacade) Checkout(ctx context.Context, orderID string, req model.CheckoutRequest) (*model.Order, error) {
	return f.carts.Checkout(ctx, orderID, req)
}

func (f *StorefrontFacade) Order(ctx context.Context, orderID string) (*model.Order, error) {
	return f.orders.Get(ctx, orderID)
}

func (f *StorefrontFacade) OrderHistory(ctx context.Context, userID string, page model.PageRequest) (*model.OrderPage, error) {
	return f.orders.History(ctx, userID, page)
}

func (f *StorefrontFacade) CancelOrder(ctx context.Context, orderID string) (*model.CancelResult, error) {
	return f.orders.Cancel(ctx, orderID)
}

// RedoOrder recreates a past order, publishing the result as the cart when
// intoCart is set.
func (f *StorefrontFacade) RedoOrder(ctx context.Context, orderID string, intoCart bool) (*model.ReorderReport, error) {
	if intoCart {
		return f.reorders.ReorderIntoCart(ctx, orderID)
	}
	return f.reorders.RedoOrder(ctx, orderID)
}
