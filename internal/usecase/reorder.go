package usecase

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/metrics"
)

// conflictReport is implemented by transport errors carrying a reorder
// report in a 409 body.
type conflictReport interface {
	error
	ConflictReport() *model.ReorderReport
}

// ReorderUseCase rebuilds carts from past orders against current stock.
type ReorderUseCase struct {
	orders  repository.OrderRepository
	carts   *CartUseCase
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewReorderUseCase constructs ReorderUseCase. m may be nil.
func NewReorderUseCase(orders repository.OrderRepository, carts *CartUseCase, m *metrics.Metrics, logger *slog.Logger) *ReorderUseCase {
	return &ReorderUseCase{orders: orders, carts: carts, metrics: m, logger: logger}
}

// RedoOrder asks the order service to recreate orderID's items. Full,
// partial and empty results are all returned as a report; only transport
// faults are errors. The cache is not touched.
func (u *ReorderUseCase) RedoOrder(ctx context.Context, orderID string) (*model.ReorderReport, error) {
	if orderID == "" {
		return nil, domainErrors.ErrMissingOrderID
	}

	report, err := u.orders.Redo(ctx, orderID)
	var conflict conflictReport
	switch {
	case err == nil:
	case errors.As(err, &conflict):
		report = conflict.ConflictReport()
	default:
		return nil, err
	}

	if report == nil || (report.Order == nil && len(report.OutOfStockProducts) == 0) {
		u.logger.Warn("reorder report without order or out of stock products", slog.String("order_id", orderID))
		return nil, domainErrors.ErrMalformedReport
	}

	outcome := report.Outcome()
	if u.metrics != nil {
		u.metrics.ReorderOutcomes.WithLabelValues(string(outcome)).Inc()
	}
	u.logger.Info("order redone",
		slog.String("order_id", orderID),
		slog.String("outcome", string(outcome)),
		slog.Int("out_of_stock", len(report.OutOfStockProducts)),
		slog.Int("partially_filled", len(report.PartiallyFilledProducts)),
	)
	return report, nil
}

// ReorderIntoCart redoes the order and publishes the resulting cart when it
// holds items.
func (u *ReorderUseCase) ReorderIntoCart(ctx context.Context, orderID string) (*model.ReorderReport, error) {
	report, err := u.RedoOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if report.Order.IsCart() && len(report.Order.Items) > 0 {
		u.carts.adopt(report.Order)
	}
	return report, nil
}
