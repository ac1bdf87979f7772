package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRequest carries an item added to or updated in a cart.
type ItemRequest struct {
	ProductID   string           `json:"productId"`
	Quantity    int              `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ProductName string           `json:"productName,omitempty"`
	SellerID    string           `json:"sellerId,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
}

// ItemResponse is an order line as shown to views.
type ItemResponse struct {
	ProductID   string           `json:"productId"`
	Name        string           `json:"name"`
	Quantity    int              `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Subtotal    decimal.Decimal  `json:"subtotal"`
	SellerID    string           `json:"sellerId,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
}

// OrderResponse is an order with display helpers resolved.
type OrderResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	ShippingAddress string          `json:"shippingAddress"`
	Status          string          `json:"status"`
	StatusLabel     string          `json:"statusLabel"`
	Step            int             `json:"step"`
	Cancellable     bool            `json:"cancellable"`
	Items           []ItemResponse  `json:"items"`
	ItemCount       int             `json:"itemCount"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
	OrderDate       *time.Time      `json:"orderDate,omitempty"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
}

// HistoryResponse is a page of past orders.
type HistoryResponse struct {
	Orders        []OrderResponse `json:"orders"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int             `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
	HasNext       bool            `json:"hasNext"`
}

// CheckoutRequest carries checkout details.
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

// CancelResponse reports whether a cancellation was accepted.
type CancelResponse struct {
	Cancelled bool           `json:"cancelled"`
	Error     string         `json:"error,omitempty"`
	Order     *OrderResponse `json:"order,omitempty"`
}

// ErrorResponse carries an error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
