package test

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// StorefrontFacadeStub provides controllable behaviour for gateway endpoints.
// Unset functions return a default pending cart.
type StorefrontFacadeStub struct {
	CartFn       func() *model.Order
	WatchCartFn  func(context.Context) <-chan *model.Order
	WatchCountFn func(context.Context) <-chan int
	ClearCartFn  func()
	LoadCartFn   func(context.Context, string) (*model.Order, error)
	OpenCartFn   func(context.Context, string, string) (*model.Order, error)
	AddItemFn    func(context.Context, string, model.OrderItem) (*model.Order, error)
	UpdateItemFn func(context.Context, string, string, model.OrderItem) (*model.Order, error)
	RemoveItemFn func(context.Context, string, string) (*model.Order, error)
	ClearItemsFn func(context.Context, string) (*model.Order, error)
	CheckoutFn   func(context.Context, string, model.CheckoutRequest) (*model.Order, error)
	OrderFn      func(context.Context, string) (*model.Order, error)
	HistoryFn    func(context.Context, string, model.PageRequest) (*model.OrderPage, error)
	CancelFn     func(context.Context, string) (*model.CancelResult, error)
	RedoFn       func(context.Context, string, bool) (*model.ReorderReport, error)
}

// DefaultCart is returned by stubs without a configured function.
func DefaultCart(orderID string) *model.Order {
	return &model.Order{ID: orderID, UserID: "user-1", Status: model.OrderStatusPending}
}

// Cart returns the configured cached cart.
func (s StorefrontFacadeStub) Cart() *model.Order {
	if s.CartFn != nil {
		return s.CartFn()
	}
	return nil
}

// CartItemCount counts items of Cart.
func (s StorefrontFacadeStub) CartItemCount() int {
	return s.Cart().ItemCount()
}

// WatchCart returns the configured channel or one closed after the snapshot.
func (s StorefrontFacadeStub) WatchCart(ctx context.Context) <-chan *model.Order {
	if s.WatchCartFn != nil {
		return s.WatchCartFn(ctx)
	}
	ch := make(chan *model.Order, 1)
	ch <- s.Cart()
	close(ch)
	return ch
}

// WatchCartItemCount returns the configured channel or one closed after the snapshot.
func (s StorefrontFacadeStub) WatchCartItemCount(ctx context.Context) <-chan int {
	if s.WatchCountFn != nil {
		return s.WatchCountFn(ctx)
	}
	ch := make(chan int, 1)
	ch <- s.CartItemCount()
	close(ch)
	return ch
}

// ClearCart invokes ClearCartFn when set.
func (s StorefrontFacadeStub) ClearCart() {
	if s.ClearCartFn != nil {
		s.ClearCartFn()
	}
}

func (s StorefrontFacadeStub) LoadCart(ctx context.Context, userID string) (*model.Order, error) {
	if s.LoadCartFn != nil {
		return s.LoadCartFn(ctx, userID)
	}
	return DefaultCart("cart-1"), nil
}

func (s StorefrontFacadeStub) GetOrCreateCart(ctx context.Context, userID, shippingAddress string) (*model.Order, error) {
	if s.OpenCartFn != nil {
		return s.OpenCartFn(ctx, userID, shippingAddress)
	}
	return DefaultCart("cart-1"), nil
}

func (s StorefrontFacadeStub) AddItem(ctx context.Context, orderID string, item model.OrderItem) (*model.Order, error) {
	if s.AddItemFn != nil {
		return s.AddItemFn(ctx, orderID, item)
	}
	order := DefaultCart(orderID)
	order.Items = []model.OrderItem{item}
	return order, nil
}

func (s StorefrontFacadeStub) UpdateItem(ctx context.Context, orderID, productID string, item model.OrderItem) (*model.Order, error) {
	if s.UpdateItemFn != nil {
		return s.UpdateItemFn(ctx, orderID, productID, item)
	}
	order := DefaultCart(orderID)
	order.Items = []model.OrderItem{item}
	return order, nil
}

func (s StorefrontFacadeStub) RemoveItem(ctx context.Context, orderID, productID string) (*model.Order, error) {
	if s.RemoveItemFn != nil {
		return s.RemoveItemFn(ctx, orderID, productID)
	}
	return DefaultCart(orderID), nil
}

func (s StorefrontFacadeStub) ClearItems(ctx context.Context, orderID string) (*model.Order, error) {
	if s.ClearItemsFn != nil {
		return s.ClearItemsFn(ctx, orderID)
	}
	return DefaultCart(orderID), nil
}

func (s StorefrontFacadeStub) Checkout(ctx context.Context, orderID string, req model.CheckoutRequest) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, orderID, req)
	}
	order := DefaultCart(orderID)
	order.Status = model.OrderStatusProcessing
	order.ShippingAddress = req.ShippingAddress
	order.PaymentMethod = req.PaymentMethod
	return order, nil
}

func (s StorefrontFacadeStub) Order(ctx context.Context, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return DefaultCart(orderID), nil
}

func (s StorefrontFacadeStub) OrderHistory(ctx context.Context, userID string, page model.PageRequest) (*model.OrderPage, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, userID, page)
	}
	return &model.OrderPage{Page: page.Page, Size: page.Size}, nil
}

func (s StorefrontFacadeStub) CancelOrder(ctx context.Context, orderID string) (*model.CancelResult, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID)
	}
	order := DefaultCart(orderID)
	order.Status = model.OrderStatusCancelled
	return &model.CancelResult{Order: order}, nil
}

func (s StorefrontFacadeStub) RedoOrder(ctx context.Context, orderID string, intoCart bool) (*model.ReorderReport, error) {
	if s.RedoFn != nil {
		return s.RedoFn(ctx, orderID, intoCart)
	}
	return &model.ReorderReport{Order: DefaultCart("cart-2"), Message: "All items were added"}, nil
}
