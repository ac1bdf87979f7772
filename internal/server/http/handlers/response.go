package handlers

import (
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

func toOrderResponse(order *model.Order) *dto.OrderResponse {
	if order == nil {
		return nil
	}
	items := make([]dto.ItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.ItemResponse{
			ProductID: item.ProductID,
			Name:      item.DisplayName(),
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
			Subtotal:  item.Subtotal(),
			SellerID:  item.SellerID,
			ImageURL:  item.ImageURL,
		})
	}
	return &dto.OrderResponse{
		ID:              order.ID,
		UserID:          order.UserID,
		ShippingAddress: order.ShippingAddress,
		Status:          string(order.Status),
		StatusLabel:     order.Status.Label(),
		Step:            order.Status.Step(),
		Cancellable:     order.Status.CanCancel(),
		Items:           items,
		ItemCount:       order.ItemCount(),
		Total:           order.Total(),
		PaymentMethod:   order.PaymentMethod,
		CreatedAt:       timePtr(order.CreatedAt),
		OrderDate:       order.OrderDate,
		UpdatedAt:       timePtr(order.UpdatedAt),
	}
}

func toHistoryResponse(page *model.OrderPage) dto.HistoryResponse {
	orders := make([]dto.OrderResponse, 0, len(page.Orders))
	for i := range page.Orders {
		orders = append(orders, *toOrderResponse(&page.Orders[i]))
	}
	return dto.HistoryResponse{
		Orders:        orders,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		HasNext:       page.HasNext(),
	}
}

func toReorderResponse(report *model.ReorderReport) dto.ReorderResponse {
	sections := make([]dto.ReportSection, 0, 2)
	for _, s := range report.Sections() {
		sections = append(sections, dto.ReportSection{Title: s.Title, Products: s.Products})
	}
	return dto.ReorderResponse{
		Outcome:                 string(report.Outcome()),
		Message:                 report.Message,
		Summary:                 report.Summary(),
		Order:                   toOrderResponse(report.Order),
		OutOfStockProducts:      nonNil(report.OutOfStockProducts),
		PartiallyFilledProducts: nonNil(report.PartiallyFilledProducts),
		Sections:                sections,
	}
}

func toItem(req dto.ItemRequest) model.OrderItem {
	return model.OrderItem{
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		UnitPrice:   req.Price,
		ProductName: req.ProductName,
		SellerID:    req.SellerID,
		ImageURL:    req.ImageURL,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
