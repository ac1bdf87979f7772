package handlers

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// CartFacade covers the cached cart and its mutations.
type CartFacade interface {
	Cart() *model.Order
	CartItemCount() int
	WatchCart(ctx context.Context) <-chan *model.Order
	WatchCartItemCount(ctx context.Context) <-chan int
	ClearCart()

	LoadCart(ctx context.Context, userID string) (*model.Order, error)
	GetOrCreateCart(ctx context.Context, userID, shippingAddress string) (*model.Order, error)
	AddItem(ctx context.Context, orderID string, item model.OrderItem) (*model.Order, error)
	UpdateItem(ctx context.Context, orderID, productID string, item model.OrderItem) (*model.Order, error)
	RemoveItem(ctx context.Context, orderID, productID string) (*model.Order, error)
	ClearItems(ctx context.Context, orderID string) (*model.Order, error)
	Checkout(ctx context.Context, orderID string, req model.CheckoutRequest) (*model.Order, error)
}

// OrderFacade covers placed orders.
type OrderFacade interface {
	Order(ctx context.Context, orderID string) (*model.Order, error)
	OrderHistory(ctx context.Context, userID string, page model.PageRequest) (*model.OrderPage, error)
	CancelOrder(ctx context.Context, orderID string) (*model.CancelResult, error)
	RedoOrder(ctx context.Context, orderID string, intoCart bool) (*model.ReorderReport, error)
}

// StorefrontFacade aggregates all operations served by the gateway.
type StorefrontFacade interface {
	CartFacade
	OrderFacade
}
