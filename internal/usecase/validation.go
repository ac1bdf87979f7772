package usecase

import (
	"strings"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

func validateItem(orderID string, item model.OrderItem) error {
	if orderID == "" {
		return domainErrors.ErrMissingOrderID
	}
	if item.ProductID == "" {
		return domainErrors.ErrMissingProductID
	}
	if item.Quantity < 1 {
		return domainErrors.ErrInvalidQuantity
	}
	return nil
}

func validateCheckout(orderID string, req model.CheckoutRequest) error {
	if orderID == "" {
		return domainErrors.ErrMissingOrderID
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return domainErrors.ErrMissingShippingAddress
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return domainErrors.ErrMissingPaymentMethod
	}
	return nil
}
