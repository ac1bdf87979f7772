package dto

// CreateCartRequest opens a cart for a user.
type CreateCartRequest struct {
	ShippingAddress string `json:"shippingAddress"`
}

// CartCountResponse is the badge count of the cart.
type CartCountResponse struct {
	Count int `json:"count"`
}

// CartEvent is streamed to views whenever the cart changes. Cart is nil
// when there is no cart.
type CartEvent struct {
	Cart  *OrderResponse `json:"cart"`
	Count int            `json:"count"`
}
