package model

// OrderStatus describes order lifecycle as reported by the order service.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipping   OrderStatus = "SHIPPING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusShipping: true, OrderStatusCancelled: true},
	OrderStatusShipping:   {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// progress is the position of a status on the delivery tracker.
var progress = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipping,
	OrderStatusShipped,
	OrderStatusDelivered,
}

var labels = map[OrderStatus]string{
	OrderStatusPending:    "In cart",
	OrderStatusProcessing: "Processing",
	OrderStatusShipping:   "Shipping",
	OrderStatusShipped:    "Shipped",
	OrderStatusDelivered:  "Delivered",
	OrderStatusCancelled:  "Cancelled",
}

// CanTransition reports whether the order service may move an order from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// IsCart reports whether an order in this status is the user's cart.
func (s OrderStatus) IsCart() bool {
	return s == OrderStatusPending
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	next, ok := validNext[s]
	return ok && len(next) == 0
}

// CanCancel reports whether the client may request cancellation.
// The storefront only offers cancellation while an order is being shipped.
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusShipping
}

// Label returns a human readable status name.
func (s OrderStatus) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Step returns the zero-based position on the delivery tracker, or -1 for
// cancelled and unknown statuses.
func (s OrderStatus) Step() int {
	for i, st := range progress {
		if st == s {
			return i
		}
	}
	return -1
}
