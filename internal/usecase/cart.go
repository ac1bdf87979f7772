package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/polkiloo/storefront/internal/cart"
	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// CartUseCase is the only writer of the cart cache. Every mutation goes
// through the order service and the cache mirrors the last good answer.
type CartUseCase struct {
	orders repository.OrderRepository
	cache  *cart.Cache
	logger *slog.Logger

	creating singleflight.Group

	mu   sync.Mutex
	user string

	// generation changes whenever the cart is torn down locally so an
	// in-flight sync cannot publish a stale answer afterwards.
	genMu      sync.Mutex
	generation uint64
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(orders repository.OrderRepository, cache *cart.Cache, logger *slog.Logger) *CartUseCase {
	return &CartUseCase{orders: orders, cache: cache, logger: logger}
}

// GetActiveCart returns the user's pending order or nil when there is none.
func (u *CartUseCase) GetActiveCart(ctx context.Context, userID string) (*model.Order, error) {
	if userID == "" {
		return nil, domainErrors.ErrMissingUserID
	}
	order, err := u.orders.ActiveCart(ctx, userID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// LoadCart fetches the user's cart and publishes it, absence included.
func (u *CartUseCase) LoadCart(ctx context.Context, userID string) (*model.Order, error) {
	order, err := u.GetActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.setUser(userID)
	u.publish(order)
	return order, nil
}

// GetOrCreateCart publishes the user's cart, creating an empty pending order
// when none exists. Concurrent calls for one user share a single lookup and
// at most one create; the first caller's shipping address is used.
func (u *CartUseCase) GetOrCreateCart(ctx context.Context, userID, shippingAddress string) (*model.Order, error) {
	if userID == "" {
		return nil, domainErrors.ErrMissingUserID
	}

	// The shared call outlives any single caller so a finished create is
	// always published.
	shared := context.WithoutCancel(ctx)
	ch := u.creating.DoChan(userID, func() (any, error) {
		return u.getOrCreate(shared, userID, shippingAddress)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Order).Clone(), nil
	}
}

func (u *CartUseCase) getOrCreate(ctx context.Context, userID, shippingAddress string) (*model.Order, error) {
	order, err := u.GetActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		order, err = u.orders.Create(ctx, model.OrderDraft{
			UserID:          userID,
			ShippingAddress: shippingAddress,
			Status:          model.OrderStatusPending,
			Items:           []model.OrderItem{},
		})
		if err != nil {
			return nil, err
		}
		u.logger.Debug("cart created", slog.String("user_id", userID), slog.String("order_id", order.ID))
	}
	u.setUser(userID)
	u.publish(order)
	return order, nil
}

// SyncCart reloads the cart of the user whose cart is currently tracked.
// It does nothing before the first load.
func (u *CartUseCase) SyncCart(ctx context.Context) error {
	u.genMu.Lock()
	gen := u.generation
	u.genMu.Unlock()

	userID := u.CurrentUser()
	if userID == "" {
		return nil
	}
	order, err := u.GetActiveCart(ctx, userID)
	if err != nil {
		return err
	}

	u.genMu.Lock()
	defer u.genMu.Unlock()
	if u.generation != gen {
		u.logger.Debug("stale cart sync dropped", slog.String("user_id", userID))
		return nil
	}
	u.setUser(userID)
	u.publish(order)
	return nil
}

// AddItem adds an item to the order.
func (u *CartUseCase) AddItem(ctx context.Context, orderID string, item model.OrderItem) (*model.Order, error) {
	if err := validateItem(orderID, item); err != nil {
		return nil, err
	}
	order, err := u.orders.AddItem(ctx, orderID, item)
	if err != nil {
		return nil, err
	}
	u.publishIfCart(order)
	return order, nil
}

// UpdateItem changes an item line. A zero quantity removes the line.
func (u *CartUseCase) UpdateItem(ctx context.Context, orderID, productID string, item model.OrderItem) (*model.Order, error) {
	if item.Quantity == 0 {
		return u.RemoveItem(ctx, orderID, productID)
	}
	if productID == "" {
		return nil, domainErrors.ErrMissingProductID
	}
	item.ProductID = productID
	if err := validateItem(orderID, item); err != nil {
		return nil, err
	}
	order, err := u.orders.UpdateItem(ctx, orderID, productID, item)
	if err != nil {
		return nil, err
	}
	u.publishIfCart(order)
	return order, nil
}

// RemoveItem drops an item line.
func (u *CartUseCase) RemoveItem(ctx context.Context, orderID, productID string) (*model.Order, error) {
	if orderID == "" {
		return nil, domainErrors.ErrMissingOrderID
	}
	if productID == "" {
		return nil, domainErrors.ErrMissingProductID
	}
	order, err := u.orders.RemoveItem(ctx, orderID, productID)
	if err != nil {
		return nil, err
	}
	u.publishIfCart(order)
	return order, nil
}

// ClearItems empties the order.
func (u *CartUseCase) ClearItems(ctx context.Context, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, domainErrors.ErrMissingOrderID
	}
	order, err := u.orders.ClearItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	u.publishIfCart(order)
	return order, nil
}

// Checkout places the order. The cache is cleared once the order leaves
// PENDING.
func (u *CartUseCase) Checkout(ctx context.Context, orderID string, req model.CheckoutRequest) (*model.Order, error) {
	if err := validateCheckout(orderID, req); err != nil {
		return nil, err
	}
	order, err := u.orders.Checkout(ctx, orderID, req)
	if err != nil {
		return nil, err
	}
	u.genMu.Lock()
	defer u.genMu.Unlock()
	u.generation++
	if order.IsCart() {
		u.publish(order)
	} else {
		u.publish(nil)
	}
	return order, nil
}

// ClearCart forgets the cached cart without calling the order service.
func (u *CartUseCase) ClearCart() {
	u.genMu.Lock()
	defer u.genMu.Unlock()
	u.generation++
	u.setUser("")
	u.publish(nil)
}

// Cart returns the cached cart.
func (u *CartUseCase) Cart() *model.Order {
	return u.cache.Read()
}

// CurrentUser returns the user whose cart is tracked.
func (u *CartUseCase) CurrentUser() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.user
}

// adopt publishes an order produced outside the regular mutations, such as a
// reordered cart.
func (u *CartUseCase) adopt(order *model.Order) {
	if order.UserID != "" {
		u.setUser(order.UserID)
	}
	u.publish(order)
}

func (u *CartUseCase) setUser(userID string) {
	u.mu.Lock()
	u.user = userID
	u.mu.Unlock()
}

func (u *CartUseCase) publishIfCart(order *model.Order) {
	if order == nil {
		return
	}
	if !order.IsCart() {
		u.logger.Debug("order left pending, cart not updated",
			slog.String("order_id", order.ID),
			slog.String("status", string(order.Status)),
		)
		return
	}
	u.publish(order)
}

func (u *CartUseCase) publish(order *model.Order) {
	if order == nil {
		u.logger.Debug("cart cleared")
	} else {
		u.logger.Debug("cart published", slog.String("order_id", order.ID), slog.Int("items", order.ItemCount()))
	}
	u.cache.Replace(order)
}
