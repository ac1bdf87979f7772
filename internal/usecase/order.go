package usecase

import (
	"context"
	"log/slog"

	"github.com/go-faster/errors"

	"github.com/polkiloo/storefront/internal/cart"
	"github.com/polkiloo/storefront/internal/config"
	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

const fallbackPageSize = 10

// OrderUseCase covers placed orders: lookup, history and cancellation.
type OrderUseCase struct {
	orders   repository.OrderRepository
	cache    *cart.Cache
	pageSize int
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, cache *cart.Cache, cfg *config.Config, logger *slog.Logger) *OrderUseCase {
	pageSize := fallbackPageSize
	if cfg != nil && cfg.HistoryPageSize > 0 {
		pageSize = cfg.HistoryPageSize
	}
	return &OrderUseCase{orders: orders, cache: cache, pageSize: pageSize, logger: logger}
}

// Get returns a single order.
func (u *OrderUseCase) Get(ctx context.Context, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, domainErrors.ErrMissingOrderID
	}
	return u.orders.Get(ctx, orderID)
}

// History returns a page of the user's orders. Missing paging falls back to
// the first page of the configured size.
func (u *OrderUseCase) History(ctx context.Context, userID string, page model.PageRequest) (*model.OrderPage, error) {
	if userID == "" {
		return nil, domainErrors.ErrMissingUserID
	}
	if page.Page < 0 {
		page.Page = 0
	}
	if page.Size <= 0 {
		page.Size = u.pageSize
	}
	return u.orders.ListByUser(ctx, userID, page)
}

// Cancel asks the order service to cancel an order. A refusal comes back in
// CancelResult.Error. Cancelling the cached cart clears the cache.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID string) (*model.CancelResult, error) {
	if orderID == "" {
		return nil, domainErrors.ErrMissingOrderID
	}
	result, err := u.orders.Cancel(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !result.Cancelled() {
		u.logger.Info("order cancellation refused", slog.String("order_id", orderID), slog.String("reason", result.Error))
		return result, nil
	}
	if current := u.cache.Read(); current != nil && current.ID == orderID {
		u.cache.Replace(nil)
	}
	return result, nil
}

// UpdateStatus requests a status change after checking it against the
// order's current status.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if orderID == "" {
		return nil, domainErrors.ErrMissingOrderID
	}
	current, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(current.Status, status) {
		return nil, errors.Wrapf(domainErrors.ErrInvalidStatusTransition, "%s to %s", current.Status, status)
	}
	order, err := u.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	if cached := u.cache.Read(); cached != nil && cached.ID == orderID && !order.IsCart() {
		u.cache.Replace(nil)
	}
	return order, nil
}
