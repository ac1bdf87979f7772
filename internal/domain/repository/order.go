package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// OrderRepository describes operations of the remote order service.
// ActiveCart returns errors.ErrNotFound when the user has no pending order.
type OrderRepository interface {
	Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	Get(ctx context.Context, orderID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	Cancel(ctx context.Context, orderID string) (*model.CancelResult, error)
	ListByUser(ctx context.Context, userID string, page model.PageRequest) (*model.OrderPage, error)
	ActiveCart(ctx context.Context, userID string) (*model.Order, error)

	AddItem(ctx context.Context, orderID string, item model.OrderItem) (*model.Order, error)
	UpdateItem(ctx context.Context, orderID, productID string, item model.OrderItem) (*model.Order, error)
	RemoveItem(ctx context.Context, orderID, productID string) (*model.Order, error)
	ClearItems(ctx context.Context, orderID string) (*model.Order, error)

	Checkout(ctx context.Context, orderID string, req model.CheckoutRequest) (*model.Order, error)
	Redo(ctx context.Context, orderID string) (*model.ReorderReport, error)
}
