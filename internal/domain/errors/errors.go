package errors

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidQuantity         = errors.New("quantity must be at least 1")
	ErrMissingOrderID          = errors.New("order id is required")
	ErrMissingProductID        = errors.New("product id is required")
	ErrMissingUserID           = errors.New("user id is required")
	ErrMissingShippingAddress  = errors.New("shipping address is required")
	ErrMissingPaymentMethod    = errors.New("payment method is required")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrMalformedReport         = errors.New("malformed reorder report")
)
