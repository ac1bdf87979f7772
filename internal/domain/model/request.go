package model

// OrderDraft describes a new order submitted to the order service.
type OrderDraft struct {
	UserID          string
	ShippingAddress string
	Status          OrderStatus
	Items           []OrderItem
}

// CheckoutRequest carries checkout details for a cart.
type CheckoutRequest struct {
	ShippingAddress string
	PaymentMethod   string
}

// CancelResult is the outcome of a cancellation request. Error holds the
// service's explanation when the order could not be cancelled.
type CancelResult struct {
	Order *Order
	Error string
}

// Cancelled reports whether the service accepted the cancellation.
func (r CancelResult) Cancelled() bool {
	return r.Error == ""
}

// PageRequest selects a page of order history.
type PageRequest struct {
	Page int
	Size int
}

// OrderPage is a page of a user's orders.
type OrderPage struct {
	Orders        []Order
	Page          int
	Size          int
	TotalElements int
	TotalPages    int
}

// HasNext reports whether more pages follow.
func (p OrderPage) HasNext() bool {
	return p.Page+1 < p.TotalPages
}
