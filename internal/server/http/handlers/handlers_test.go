package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/polkiloo/storefront/internal/adapter/orderapi"
	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	testhelpers "github.com/polkiloo/storefront/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, pattern, path string, handler gin.HandlerFunc, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, pattern, handler)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", resp.Body.String(), err)
	}
	return out
}

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domainErrors.ErrInvalidQuantity, http.StatusUnprocessableEntity},
		{"wrapped validation", fmt.Errorf("add: %w", domainErrors.ErrMissingPaymentMethod), http.StatusUnprocessableEntity},
		{"not found", domainErrors.ErrNotFound, http.StatusNotFound},
		{"transition", domainErrors.ErrInvalidStatusTransition, http.StatusConflict},
		{"client error passes through", &orderapi.StatusError{StatusCode: http.StatusForbidden}, http.StatusForbidden},
		{"server error", &orderapi.StatusError{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway},
		{"breaker open", gobreaker.ErrOpenState, http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"malformed report", domainErrors.ErrMalformedReport, http.StatusBadGateway},
		{"network", fmt.Errorf("dial tcp: connection refused"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestCartHandlerSnapshot(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/cart", "/cart", NewCartHandler(testhelpers.StorefrontFacadeStub{}).Snapshot, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 without cart, got %d", resp.Code)
	}

	facade := testhelpers.StorefrontFacadeStub{CartFn: func() *model.Order {
		return &model.Order{ID: "cart-1", Status: model.OrderStatusPending, Items: []model.OrderItem{
			{ProductID: "prod-1", Quantity: 2, UnitPrice: price("10")},
			{ProductID: "prod-2", ProductName: "Lamp", Quantity: 1, UnitPrice: price("20")},
		}}
	}}
	resp = performRequest(t, http.MethodGet, "/cart", "/cart", NewCartHandler(facade).Snapshot, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decode[dto.OrderResponse](t, resp)
	if body.ItemCount != 3 || !body.Total.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected 3 items totalling 40, got %d %s", body.ItemCount, body.Total)
	}
	if body.StatusLabel != "In cart" || body.Items[0].Name != "prod-1" || body.Items[1].Name != "Lamp" {
		t.Fatalf("unexpected display fields %+v", body)
	}

	resp = performRequest(t, http.MethodGet, "/cart/count", "/cart/count", NewCartHandler(facade).Count, nil)
	if count := decode[dto.CartCountResponse](t, resp); count.Count != 3 {
		t.Fatalf("expected count 3, got %d", count.Count)
	}
}

func TestCartHandlerClear(t *testing.T) {
	cleared := false
	facade := testhelpers.StorefrontFacadeStub{ClearCartFn: func() { cleared = true }}
	resp := performRequest(t, http.MethodDelete, "/cart", "/cart", NewCartHandler(facade).Clear, nil)
	if resp.Code != http.StatusNoContent || !cleared {
		t.Fatalf("expected cart to be cleared with 204, got %d cleared=%v", resp.Code, cleared)
	}
}

func TestCartHandlerLoad(t *testing.T) {
	facade := testhelpers.StorefrontFacadeStub{LoadCartFn: func(_ context.Context, userID string) (*model.Order, error) {
		if userID == "user-1" {
			return nil, nil
		}
		return testhelpers.DefaultCart("cart-" + userID), nil
	}}
	h := NewCartHandler(facade)

	resp := performRequest(t, http.MethodGet, "/users/:userID/cart", "/users/user-1/cart", h.Load, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for absent cart, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodGet, "/users/:userID/cart", "/users/u2/cart", h.Load, nil)
	if got := decode[dto.OrderResponse](t, resp); got.ID != "cart-u2" {
		t.Fatalf("expected cart-u2, got %q", got.ID)
	}
}

func TestCartHandlerOpen(t *testing.T) {
	var gotAddress string
	facade := testhelpers.StorefrontFacadeStub{OpenCartFn: func(_ context.Context, userID, address string) (*model.Order, error) {
		gotAddress = address
		return testhelpers.DefaultCart("cart-1"), nil
	}}
	h := NewCartHandler(facade)

	body, _ := json.Marshal(dto.CreateCartRequest{ShippingAddress: "1 Main St"})
	resp := performRequest(t, http.MethodPost, "/users/:userID/cart", "/users/user-1/cart", h.Open, body)
	if resp.Code != http.StatusOK || gotAddress != "1 Main St" {
		t.Fatalf("expected cart opened with address, got %d %q", resp.Code, gotAddress)
	}

	gotAddress = "unset"
	resp = performRequest(t, http.MethodPost, "/users/:userID/cart", "/users/user-1/cart", h.Open, nil)
	if resp.Code != http.StatusOK || gotAddress != "" {
		t.Fatalf("expected empty body to be accepted, got %d %q", resp.Code, gotAddress)
	}

	resp = performRequest(t, http.MethodPost, "/users/:userID/cart", "/users/user-1/cart", h.Open, []byte("{"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}
}

func TestCartHandlerAddItem(t *testing.T) {
	var got model.OrderItem
	facade := testhelpers.StorefrontFacadeStub{AddItemFn: func(_ context.Context, orderID string, item model.OrderItem) (*model.Order, error) {
		got = item
		if item.Quantity < 1 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		order := testhelpers.DefaultCart(orderID)
		order.Items = []model.OrderItem{item}
		return order, nil
	}}
	h := NewCartHandler(facade)

	body := []byte(`{"productId":"prod-1","quantity":2,"price":10.5}`)
	resp := performRequest(t, http.MethodPost, "/orders/:orderID/items", "/orders/cart-1/items", h.AddItem, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got.ProductID != "prod-1" || got.Quantity != 2 || got.UnitPrice == nil || !got.UnitPrice.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("unexpected item passed to facade %+v", got)
	}
	if order := decode[dto.OrderResponse](t, resp); !order.Total.Equal(decimal.NewFromInt(21)) {
		t.Fatalf("expected total 21, got %s", order.Total)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:orderID/items", "/orders/cart-1/items", h.AddItem, []byte(`{"productId":"prod-1","quantity":0}`))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for zero quantity, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:orderID/items", "/orders/cart-1/items", h.AddItem, []byte(`nope`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}
}

func TestCartHandlerUpdateAndRemoveItem(t *testing.T) {
	var updated, removed string
	facade := testhelpers.StorefrontFacadeStub{
		UpdateItemFn: func(_ context.Context, orderID, productID string, item model.OrderItem) (*model.Order, error) {
			updated = fmt.Sprintf("%s/%s/%s/%d", orderID, productID, item.ProductID, item.Quantity)
			return testhelpers.DefaultCart(orderID), nil
		},
		RemoveItemFn: func(_ context.Context, orderID, productID string) (*model.Order, error) {
			removed = orderID + "/" + productID
			return nil, &orderapi.StatusError{StatusCode: http.StatusNotFound, Status: "404 Not Found"}
		},
	}
	h := NewCartHandler(facade)

	resp := performRequest(t, http.MethodPut, "/orders/:orderID/items/:productID", "/orders/cart-1/items/prod-9", h.UpdateItem, []byte(`{"quantity":4}`))
	if resp.Code != http.StatusOK || updated != "cart-1/prod-9/prod-9/4" {
		t.Fatalf("expected path product to win, got %d %q", resp.Code, updated)
	}

	resp = performRequest(t, http.MethodDelete, "/orders/:orderID/items/:productID", "/orders/cart-1/items/prod-9", h.RemoveItem, nil)
	if resp.Code != http.StatusNotFound || removed != "cart-1/prod-9" {
		t.Fatalf("expected order service 404 to pass through, got %d %q", resp.Code, removed)
	}
}

func TestCartHandlerClearItemsAndCheckout(t *testing.T) {
	var req model.CheckoutRequest
	facade := testhelpers.StorefrontFacadeStub{
		ClearItemsFn: func(context.Context, string) (*model.Order, error) {
			return nil, &orderapi.StatusError{StatusCode: http.StatusServiceUnavailable}
		},
		CheckoutFn: func(_ context.Context, orderID string, r model.CheckoutRequest) (*model.Order, error) {
			req = r
			order := testhelpers.DefaultCart(orderID)
			order.Status = model.OrderStatusProcessing
			return order, nil
		},
	}
	h := NewCartHandler(facade)

	resp := performRequest(t, http.MethodDelete, "/orders/:orderID/items", "/orders/cart-1/items", h.ClearItems, nil)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for service failure, got %d", resp.Code)
	}

	body, _ := json.Marshal(dto.CheckoutRequest{ShippingAddress: "1 Main St", PaymentMethod: "card"})
	resp = performRequest(t, http.MethodPost, "/orders/:orderID/checkout", "/orders/cart-1/checkout", h.Checkout, body)
	if resp.Code != http.StatusOK || req.PaymentMethod != "card" || req.ShippingAddress != "1 Main St" {
		t.Fatalf("unexpected checkout %d %+v", resp.Code, req)
	}
	if order := decode[dto.OrderResponse](t, resp); order.Status != string(model.OrderStatusProcessing) || order.Step != 1 {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestOrderHandlerHistory(t *testing.T) {
	var got model.PageRequest
	facade := testhelpers.StorefrontFacadeStub{HistoryFn: func(_ context.Context, userID string, page model.PageRequest) (*model.OrderPage, error) {
		got = page
		return &model.OrderPage{
			Orders:        []model.Order{{ID: "o1", Status: model.OrderStatusDelivered}},
			Page:          page.Page,
			Size:          page.Size,
			TotalElements: 3,
			TotalPages:    3,
		}, nil
	}}
	h := NewOrderHandler(facade)

	resp := performRequest(t, http.MethodGet, "/users/:userID/orders", "/users/user-1/orders?page=1&size=1", h.History, nil)
	if resp.Code != http.StatusOK || got.Page != 1 || got.Size != 1 {
		t.Fatalf("unexpected paging %d %+v", resp.Code, got)
	}
	page := decode[dto.HistoryResponse](t, resp)
	if len(page.Orders) != 1 || !page.HasNext || page.Orders[0].StatusLabel != model.OrderStatusDelivered.Label() {
		t.Fatalf("unexpected page %+v", page)
	}

	resp = performRequest(t, http.MethodGet, "/users/:userID/orders", "/users/user-1/orders?page=x", h.History, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad page, got %d", resp.Code)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	facade := testhelpers.StorefrontFacadeStub{
		OrderFn: func(context.Context, string) (*model.Order, error) { return nil, domainErrors.ErrNotFound },
	}
	h := NewOrderHandler(facade)

	resp := performRequest(t, http.MethodGet, "/orders/:orderID", "/orders/o1", h.Get, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestOrderHandlerCancel(t *testing.T) {
	refused := testhelpers.StorefrontFacadeStub{CancelFn: func(context.Context, string) (*model.CancelResult, error) {
		return &model.CancelResult{Error: "Order can only be cancelled while it is shipping"}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/orders/:orderID/cancel", "/orders/o1/cancel", NewOrderHandler(refused).Cancel, nil)
	result := decode[dto.CancelResponse](t, resp)
	if resp.Code != http.StatusOK || result.Cancelled || result.Error == "" || result.Order != nil {
		t.Fatalf("expected refusal in body, got %d %+v", resp.Code, result)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:orderID/cancel", "/orders/o1/cancel", NewOrderHandler(testhelpers.StorefrontFacadeStub{}).Cancel, nil)
	result = decode[dto.CancelResponse](t, resp)
	if !result.Cancelled || result.Order == nil || result.Order.Status != string(model.OrderStatusCancelled) {
		t.Fatalf("expected cancelled order, got %+v", result)
	}
}

func TestOrderHandlerRedo(t *testing.T) {
	var intoCart bool
	facade := testhelpers.StorefrontFacadeStub{RedoFn: func(_ context.Context, orderID string, cart bool) (*model.ReorderReport, error) {
		intoCart = cart
		switch orderID {
		case "none":
			return &model.ReorderReport{
				Message:            "None of the items could be added to your cart",
				OutOfStockProducts: []string{"'Product B' is out of stock"},
			}, nil
		case "partial":
			return &model.ReorderReport{
				Order:                   testhelpers.DefaultCart("cart-2"),
				Message:                 "Some items could not be added",
				PartiallyFilledProducts: []string{"'Product A' has only 3 available instead of 5"},
			}, nil
		default:
			return nil, domainErrors.ErrMalformedReport
		}
	}}
	h := NewOrderHandler(facade)

	resp := performRequest(t, http.MethodPost, "/orders/:orderID/redo", "/orders/partial/redo?goToCart=true", h.Redo, nil)
	report := decode[dto.ReorderResponse](t, resp)
	if resp.Code != http.StatusOK || !intoCart || report.Outcome != string(model.ReorderOutcomePartial) {
		t.Fatalf("unexpected partial redo %d %v %+v", resp.Code, intoCart, report)
	}
	if len(report.Sections) != 1 || report.Sections[0].Title != "Partially available" || len(report.OutOfStockProducts) != 0 {
		t.Fatalf("unexpected sections %+v", report.Sections)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:orderID/redo", "/orders/none/redo", h.Redo, nil)
	report = decode[dto.ReorderResponse](t, resp)
	if resp.Code != http.StatusConflict || intoCart || report.Outcome != string(model.ReorderOutcomeNone) || report.Order != nil {
		t.Fatalf("expected 409 with report, got %d %+v", resp.Code, report)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:orderID/redo", "/orders/bad/redo", h.Redo, nil)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for malformed report, got %d", resp.Code)
	}
}
