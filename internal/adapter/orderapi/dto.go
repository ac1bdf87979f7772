package orderapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// wirePrice is a decimal written as a bare JSON number. Quoted and unquoted
// prices are both accepted on decode.
type wirePrice struct {
	decimal.Decimal
}

func (p wirePrice) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

type itemPayload struct {
	ProductID   string     `json:"productId"`
	Quantity    int        `json:"quantity"`
	Price       *wirePrice `json:"price,omitempty"`
	ProductName string     `json:"productName,omitempty"`
	SellerID    string     `json:"sellerId,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
}

type orderPayload struct {
	ID              string        `json:"id,omitempty"`
	UserID          string        `json:"userId"`
	ShippingAddress string        `json:"shippingAddress"`
	Status          string        `json:"status"`
	Items           []itemPayload `json:"items"`
	PaymentMethod   string        `json:"paymentMethod,omitempty"`
	CreatedAt       *time.Time    `json:"createdAt,omitempty"`
	OrderDate       *time.Time    `json:"orderDate,omitempty"`
	UpdatedAt       *time.Time    `json:"updatedAt,omitempty"`
	Removed         bool          `json:"removed,omitempty"`
}

type statusPayload struct {
	Status string `json:"status"`
}

type checkoutPayload struct {
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

// cancelPayload is either an order or an {"error": "..."} refusal.
type cancelPayload struct {
	orderPayload
	Error string `json:"error"`
}

type reportPayload struct {
	Order                   *orderPayload `json:"order"`
	Message                 string        `json:"message"`
	OutOfStockProducts      []string      `json:"outOfStockProducts"`
	PartiallyFilledProducts []string      `json:"partiallyFilledProducts"`
}

type pagePayload struct {
	Content       []orderPayload `json:"content"`
	Number        int            `json:"number"`
	Size          int            `json:"size"`
	TotalElements int            `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
}

func itemFromModel(item model.OrderItem) itemPayload {
	p := itemPayload{
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
		ProductName: item.ProductName,
		SellerID:    item.SellerID,
		ImageURL:    item.ImageURL,
	}
	if item.UnitPrice != nil {
		p.Price = &wirePrice{Decimal: *item.UnitPrice}
	}
	return p
}

func (p itemPayload) toModel() model.OrderItem {
	item := model.OrderItem{
		ProductID:   p.ProductID,
		Quantity:    p.Quantity,
		ProductName: p.ProductName,
		SellerID:    p.SellerID,
		ImageURL:    p.ImageURL,
	}
	if p.Price != nil {
		price := p.Price.Decimal
		item.UnitPrice = &price
	}
	return item
}

func draftPayload(draft model.OrderDraft) orderPayload {
	p := orderPayload{
		UserID:          draft.UserID,
		ShippingAddress: draft.ShippingAddress,
		Status:          string(draft.Status),
		Items:           make([]itemPayload, 0, len(draft.Items)),
	}
	for _, item := range draft.Items {
		p.Items = append(p.Items, itemFromModel(item))
	}
	return p
}

func (p orderPayload) toModel() *model.Order {
	order := &model.Order{
		ID:              p.ID,
		UserID:          p.UserID,
		ShippingAddress: p.ShippingAddress,
		Status:          model.OrderStatus(p.Status),
		PaymentMethod:   p.PaymentMethod,
		OrderDate:       p.OrderDate,
		Removed:         p.Removed,
	}
	if p.CreatedAt != nil {
		order.CreatedAt = *p.CreatedAt
	}
	if p.UpdatedAt != nil {
		order.UpdatedAt = *p.UpdatedAt
	}
	if len(p.Items) > 0 {
		order.Items = make([]model.OrderItem, 0, len(p.Items))
		for _, item := range p.Items {
			order.Items = append(order.Items, item.toModel())
		}
	}
	return order
}

func (p reportPayload) toModel() *model.ReorderReport {
	report := &model.ReorderReport{
		Message:                 p.Message,
		OutOfStockProducts:      p.OutOfStockProducts,
		PartiallyFilledProducts: p.PartiallyFilledProducts,
	}
	if p.Order != nil {
		report.Order = p.Order.toModel()
	}
	return report
}

func (p pagePayload) toModel() *model.OrderPage {
	page := &model.OrderPage{
		Orders:        make([]model.Order, 0, len(p.Content)),
		Page:          p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
	for _, order := range p.Content {
		page.Orders = append(page.Orders, *order.toModel())
	}
	return page
}
