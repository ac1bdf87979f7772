package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID   string
	Quantity    int
	UnitPrice   *decimal.Decimal
	ProductName string
	SellerID    string
	ImageURL    string
}

// Subtotal returns unit price times quantity, zero when the price is unknown.
func (i OrderItem) Subtotal() decimal.Decimal {
	if i.UnitPrice == nil {
		return decimal.Zero
	}
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DisplayName returns the product name, falling back to its identifier.
func (i OrderItem) DisplayName() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	return i.ProductID
}

// Order describes an order held by the remote order service.
// An order in PENDING status is the user's cart.
type Order struct {
	ID              string
	UserID          string
	ShippingAddress string
	Status          OrderStatus
	Items           []OrderItem
	PaymentMethod   string
	CreatedAt       time.Time
	OrderDate       *time.Time
	UpdatedAt       time.Time
	Removed         bool
}

// IsCart reports whether the order is a draft order.
func (o *Order) IsCart() bool {
	return o != nil && o.Status.IsCart()
}

// ItemCount sums item quantities. A nil order has no items.
func (o *Order) ItemCount() int {
	if o == nil {
		return 0
	}
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// Total sums line subtotals rounded to cents.
func (o *Order) Total() decimal.Decimal {
	if o == nil {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

// Item returns the line for productID.
func (o *Order) Item(productID string) (OrderItem, bool) {
	if o == nil {
		return OrderItem{}, false
	}
	for _, item := range o.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return OrderItem{}, false
}

// Clone returns a deep copy so callers cannot mutate shared snapshots.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Items != nil {
		cp.Items = make([]OrderItem, len(o.Items))
		for i, item := range o.Items {
			cp.Items[i] = item
			if item.UnitPrice != nil {
				price := *item.UnitPrice
				cp.Items[i].UnitPrice = &price
			}
		}
	}
	if o.OrderDate != nil {
		d := *o.OrderDate
		cp.OrderDate = &d
	}
	return &cp
}
