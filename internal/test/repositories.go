package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

// OrderRepositoryStub allows tests to customize order service behaviour.
// Unset functions fall back to simple defaults. Calls records invoked
// operation names in order.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, model.OrderDraft) (*model.Order, error)
	GetFn          func(context.Context, string) (*model.Order, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus) (*model.Order, error)
	CancelFn       func(context.Context, string) (*model.CancelResult, error)
	ListByUserFn   func(context.Context, string, model.PageRequest) (*model.OrderPage, error)
	ActiveCartFn   func(context.Context, string) (*model.Order, error)
	AddItemFn      func(context.Context, string, model.OrderItem) (*model.Order, error)
	UpdateItemFn   func(context.Context, string, string, model.OrderItem) (*model.Order, error)
	RemoveItemFn   func(context.Context, string, string) (*model.Order, error)
	ClearItemsFn   func(context.Context, string) (*model.Order, error)
	CheckoutFn     func(context.Context, string, model.CheckoutRequest) (*model.Order, error)
	RedoFn         func(context.Context, string) (*model.ReorderReport, error)

	mu    sync.Mutex
	Calls []string
}

func (s *OrderRepositoryStub) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, name)
}

// CallCount returns how many times the named operation ran.
func (s *OrderRepositoryStub) CallCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, call := range s.Calls {
		if call == name {
			n++
		}
	}
	return n
}

// Create returns a pending order built from the draft by default.
func (s *OrderRepositoryStub) Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	s.record("Create")
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	return &model.Order{
		ID:              "order-1",
		UserID:          draft.UserID,
		ShippingAddress: draft.ShippingAddress,
		Status:          draft.Status,
		Items:           draft.Items,
	}, nil
}

// Get returns not found unless overridden.
func (s *OrderRepositoryStub) Get(ctx context.Context, orderID string) (*model.Order, error) {
	s.record("Get")
	if s.GetFn != nil {
		return s.GetFn(ctx, orderID)
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateStatus echoes the requested status.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	s.record("UpdateStatus")
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

// Cancel accepts the cancellation by default.
func (s *OrderRepositoryStub) Cancel(ctx context.Context, orderID string) (*model.CancelResult, error) {
	s.record("Cancel")
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID)
	}
	return &model.CancelResult{Order: &model.Order{ID: orderID, Status: model.OrderStatusCancelled}}, nil
}

// ListByUser returns an empty page by default.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID string, page model.PageRequest) (*model.OrderPage, error) {
	s.record("ListByUser")
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID, page)
	}
	return &model.OrderPage{Page: page.Page, Size: page.Size}, nil
}

// ActiveCart reports no cart by default.
func (s *OrderRepositoryStub) ActiveCart(ctx context.Context, userID string) (*model.Order, error) {
	s.record("ActiveCart")
	if s.ActiveCartFn != nil {
		return s.ActiveCartFn(ctx, userID)
	}
	return nil, domainErrors.ErrNotFound
}

// AddItem returns a pending order holding only the added item by default.
func (s *OrderRepositoryStub) AddItem(ctx context.Context, orderID string, item model.OrderItem) (*model.Order, error) {
	s.record("AddItem")
	if s.AddItemFn != nil {
		return s.AddItemFn(ctx, orderID, item)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPending, Items: []model.OrderItem{item}}, nil
}

// UpdateItem returns a pending order holding only the updated item by default.
func (s *OrderRepositoryStub) UpdateItem(ctx context.Context, orderID, productID string, item model.OrderItem) (*model.Order, error) {
	s.record("UpdateItem")
	if s.UpdateItemFn != nil {
		return s.UpdateItemFn(ctx, orderID, productID, item)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPending, Items: []model.OrderItem{item}}, nil
}

// RemoveItem returns an empty pending order by default.
func (s *OrderRepositoryStub) RemoveItem(ctx context.Context, orderID, productID string) (*model.Order, error) {
	s.record("RemoveItem")
	if s.RemoveItemFn != nil {
		return s.RemoveItemFn(ctx, orderID, productID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPending}, nil
}

// ClearItems returns an empty pending order by default.
func (s *OrderRepositoryStub) ClearItems(ctx context.Context, orderID string) (*model.Order, error) {
	s.record("ClearItems")
	if s.ClearItemsFn != nil {
		return s.ClearItemsFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPending}, nil
}

// Checkout moves the order to processing by default.
func (s *OrderRepositoryStub) Checkout(ctx context.Context, orderID string, req model.CheckoutRequest) (*model.Order, error) {
	s.record("Checkout")
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, orderID, req)
	}
	return &model.Order{
		ID:              orderID,
		Status:          model.OrderStatusProcessing,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}, nil
}

// Redo returns an empty full report by default.
func (s *OrderRepositoryStub) Redo(ctx context.Context, orderID string) (*model.ReorderReport, error) {
	s.record("Redo")
	if s.RedoFn != nil {
		return s.RedoFn(ctx, orderID)
	}
	return &model.ReorderReport{Order: &model.Order{ID: "redo-" + orderID, Status: model.OrderStatusPending}}, nil
}
