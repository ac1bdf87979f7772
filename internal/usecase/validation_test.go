package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

func TestValidateItem(t *testing.T) {
	cases := []struct {
		name    string
		orderID string
		item    model.OrderItem
		want    error
	}{
		{name: "valid", orderID: "o1", item: model.OrderItem{ProductID: "p1", Quantity: 1}},
		{name: "missing order", item: model.OrderItem{ProductID: "p1", Quantity: 1}, want: domainErrors.ErrMissingOrderID},
		{name: "missing product", orderID: "o1", item: model.OrderItem{Quantity: 1}, want: domainErrors.ErrMissingProductID},
		{name: "zero quantity", orderID: "o1", item: model.OrderItem{ProductID: "p1"}, want: domainErrors.ErrInvalidQuantity},
		{name: "negative quantity", orderID: "o1", item: model.OrderItem{ProductID: "p1", Quantity: -2}, want: domainErrors.ErrInvalidQuantity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateItem(tc.orderID, tc.item); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateCheckout(t *testing.T) {
	cases := []struct {
		name    string
		orderID string
		req     model.CheckoutRequest
		want    error
	}{
		{name: "valid", orderID: "o1", req: model.CheckoutRequest{ShippingAddress: "Main St 1", PaymentMethod: "card"}},
		{name: "missing order", req: model.CheckoutRequest{ShippingAddress: "a", PaymentMethod: "card"}, want: domainErrors.ErrMissingOrderID},
		{name: "blank address", orderID: "o1", req: model.CheckoutRequest{ShippingAddress: "  ", PaymentMethod: "card"}, want: domainErrors.ErrMissingShippingAddress},
		{name: "missing payment", orderID: "o1", req: model.CheckoutRequest{ShippingAddress: "a"}, want: domainErrors.ErrMissingPaymentMethod},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateCheckout(tc.orderID, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
