package orderapi

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/publicsuffix"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/metrics"
	"github.com/polkiloo/storefront/internal/pkg/requestid"
	"github.com/polkiloo/storefront/internal/pkg/resilience"
)

const defaultTimeout = 10 * time.Second

// Options configure an HTTPClient.
type Options struct {
	Timeout time.Duration
	// SessionCookie is a name=value pair sent with every request.
	SessionCookie string
	Breaker       resilience.Options
	// Transport replaces http.DefaultTransport underneath the tracing layer.
	Transport http.RoundTripper
}

// HTTPClient implements repository.OrderRepository against the order service REST API.
type HTTPClient struct {
	rest    *resty.Client
	breaker *resilience.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ repository.OrderRepository = (*HTTPClient)(nil)

// NewHTTPClient creates an order service client rooted at baseURL.
// m may be nil.
func NewHTTPClient(baseURL string, opts Options, m *metrics.Metrics, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse order service url")
	}
	if !parsed.IsAbs() {
		return nil, errors.New("order service url must be absolute")
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}
	if opts.SessionCookie != "" {
		name, value, ok := strings.Cut(opts.SessionCookie, "=")
		if !ok || name == "" {
			return nil, errors.New("session cookie must be in name=value form")
		}
		jar.SetCookies(parsed, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	rest := resty.New().
		SetBaseURL(strings.TrimRight(parsed.String(), "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetCookieJar(jar).
		SetTransport(otelhttp.NewTransport(transport)).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	breakerOpts := opts.Breaker
	if breakerOpts.IsFailure == nil {
		breakerOpts.IsFailure = isServiceFailure
	}
	var state *prometheus.GaugeVec
	if m != nil {
		state = m.BreakerState
	}

	return &HTTPClient{
		rest:    rest,
		breaker: resilience.NewBreaker("order-service", breakerOpts, state, logger),
		metrics: m,
		logger:  logger,
	}, nil
}

// Create submits a new order.
func (c *HTTPClient) Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	resp, err := c.do(ctx, "create", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(draftPayload(draft)).Post("/orders")
	})
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		return c.decodeOrder("create", resp)
	default:
		return nil, c.statusError("create", resp)
	}
}

// Get fetches a single order.
func (c *HTTPClient) Get(ctx context.Context, orderID string) (*model.Order, error) {
	resp, err := c.do(ctx, "get", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("orderID", orderID).Get("/orders/{orderID}")
	})
	if err != nil {
		return nil, err
	}
	return c.orderResponse("get", resp)
}

// UpdateStatus requests a status change.
func (c *HTTPClient) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	resp, err := c.do(ctx, "update_status", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("orderID", orderID).
			SetBody(statusPayload{Status: string(status)}).
			Put("/orders/{orderID}/status")
	})
	if err != nil {
		return nil, err
	}
	return c.orderResponse("update_status", resp)
}

// Cancel asks the service to cancel an order. A refusal is reported in
// CancelResult.Error rather than as an error.
func (c *HTTPClient) Cancel(ctx context.Context, orderID string) (*model.CancelResult, error) {
	resp, err := c.do(ctx, "cancel", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("orderID", orderID).Delete("/orders/{orderID}")
	})
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent, http.StatusConflict:
		result := &model.CancelResult{}
		if isEmptyBody(resp.Body()) {
			if resp.StatusCode() == http.StatusConflict {
				result.Error = resp.Status()
			}
			return result, nil
		}
		var data cancelPayload
		if err := json.Unmarshal(resp.Body(), &data); err != nil {
			return nil, errors.Wrap(err, "decode cancel response")
		}
		switch {
		case data.Error != "":
			result.Error = data.Error
		case resp.StatusCode() == http.StatusConflict:
			result.Error = resp.Status()
		case data.ID != "":
			result.Order = data.orderPayload.toModel()
		}
		return result, nil
	default:
		return nil, c.statusError("cancel", resp)
	}
}

// ListByUser fetches a page of the user's orders.
func (c *HTTPClient) ListByUser(ctx context.Context, userID string, page model.PageRequest) (*model.OrderPage, error) {
	resp, err := c.do(ctx, "list_by_user", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("userID", userID).
			SetQueryParam("page", strconv.Itoa(page.Page)).
			SetQueryParam("size", strconv.Itoa(page.Size)).
			Get("/orders/user/{userID}")
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, c.statusError("list_by_user", resp)
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) > 0 && body[0] == '[' {
		var orders []orderPayload
		if err := json.Unmarshal(body, &orders); err != nil {
			return nil, errors.Wrap(err, "decode order list")
		}
		return pagePayload{Content: orders, Number: page.Page, Size: len(orders), TotalElements: len(orders), TotalPages: 1}.toModel(), nil
	}
	var data pagePayload
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, errors.Wrap(err, "decode order page")
	}
	return data.toModel(), nil
}

// ActiveCart fetches the user's PENDING order. It returns
// domainErrors.ErrNotFound when the service has none.
func (c *HTTPClient) ActiveCart(ctx context.Context, userID string) (*model.Order, error) {
	resp, err := c.do(ctx, "active_cart", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("userID", userID).Get("/orders/user/{userID}/cart")
	})
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		if isEmptyBody(resp.Body()) {
			return nil, domainErrors.ErrNotFound
		}
		return c.decodeOrder("active_cart", resp)
	case http.StatusNoContent, http.StatusNotFound:
		return nil, domainErrors.ErrNotFound
	default:
		return nil, c.statusError("active_cart", resp)
	}
}

// AddItem appends an item to an order.
func (c *HTTPClient) AddItem(ctx context.Context, orderID string, item model.OrderItem) (*model.Order, error) {
	resp, err := c.do(ctx, "add_item", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("orderID", orderID).
			SetBody(itemFromModel(item)).
			Post("/orders/{orderID}/items")
	})
	if err != nil {
		return nil, err
	}
	return c.orderResponse("add_item", resp)
}

// UpdateItem replaces the line for productID.
func (c *HTTPClient) UpdateItem(ctx context.Context, orderID, productID string, item model.OrderItem) (*model.Order, error) {
	resp, err := c.do(ctx, "update_item", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParams(map[string]string{"orderID": orderID, "productID": productID}).
			SetBody(itemFromModel(item)).
			Put("/orders/{orderID}/items/{productID}")
	})
	if err != nil {
		return nil, err
	}
	return c.orderResponse("update_item", resp)
}

// RemoveItem drops the line for productID.
func (c *HTTPClient) RemoveItem(ctx context.Context, orderID, productID string) (*model.Order, error) {
	resp, err := c.do(ctx, "remove_item", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParams(map[string]string{"orderID": orderID, "productID": productID}).
			Delete("/orders/{orderID}/items/{productID}")
	})
	if err != nil {
		return nil, err
	}
	return c.orderResponse("remove_item", resp)
}

// ClearItems removes every line of an order.
func (c *HTTPClient) ClearItems(ctx context.Context, orderID string) (*model.Order, error) {
	resp, err := c.do(ctx, "clear_items", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("orderID", orderID).Delete("/orders/{orderID}/items")
	})
	if err != nil {
		return nil, err
	}
	return c.orderResponse("clear_items", resp)
}

// Checkout submits the cart for processing.
func (c *HTTPClient) Checkout(ctx context.Context, orderID string, req model.CheckoutRequest) (*model.Order, error) {
	resp, err := c.do(ctx, "checkout", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("orderID", orderID).
			SetBody(checkoutPayload{ShippingAddress: req.ShippingAddress, PaymentMethod: req.PaymentMethod}).
			Post("/orders/{orderID}/checkout")
	})
	if err != nil {
		return nil, err
	}
	return c.orderResponse("checkout", resp)
}

// Redo asks the service to rebuild a cart from a past order. A 409 answer is
// returned as *ConflictError carrying the service's report, nil when the
// body is empty.
func (c *HTTPClient) Redo(ctx context.Context, orderID string) (*model.ReorderReport, error) {
	resp, err := c.do(ctx, "redo", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("orderID", orderID).Post("/orders/{orderID}/redo")
	})
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		report, err := decodeReport(resp.Body())
		if err != nil {
			return nil, err
		}
		return report, nil
	case http.StatusConflict:
		if isEmptyBody(resp.Body()) {
			return nil, &ConflictError{}
		}
		report, err := decodeReport(resp.Body())
		if err != nil {
			return nil, err
		}
		return nil, &ConflictError{Report: report}
	default:
		return nil, c.statusError("redo", resp)
	}
}

// do runs a request through the breaker. 5xx answers come back as
// *StatusError so they count against the breaker.
func (c *HTTPClient) do(ctx context.Context, operation string, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		req := c.rest.R().
			SetContext(ctx).
			SetHeader(requestid.Header, requestid.Ensure(ctx))
		resp, err := send(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, c.statusError(operation, resp)
		}
		return resp, nil
	})
	c.observe(operation, start, result, err)
	if err != nil {
		return nil, err
	}
	return result.(*resty.Response), nil
}

func (c *HTTPClient) orderResponse(operation string, resp *resty.Response) (*model.Order, error) {
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, c.statusError(operation, resp)
	}
	return c.decodeOrder(operation, resp)
}

func (c *HTTPClient) decodeOrder(operation string, resp *resty.Response) (*model.Order, error) {
	var data orderPayload
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, errors.Wrapf(err, "decode %s response", operation)
	}
	return data.toModel(), nil
}

func decodeReport(body []byte) (*model.ReorderReport, error) {
	var data reportPayload
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, errors.Wrap(err, "decode reorder report")
	}
	return data.toModel(), nil
}

func (c *HTTPClient) statusError(operation string, resp *resty.Response) error {
	body := string(resp.Body())
	c.logger.Error("order service request failed",
		slog.String("operation", operation),
		slog.Int("status", resp.StatusCode()),
		slog.String("body", body),
	)
	return &StatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       body,
	}
}

func (c *HTTPClient) observe(operation string, start time.Time, result any, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.TransportDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	c.metrics.TransportRequests.WithLabelValues(operation, outcome(result, err)).Inc()
}

func outcome(result any, err error) string {
	var statusErr *StatusError
	switch {
	case resilience.IsOpen(err):
		return "circuit_open"
	case errors.As(err, &statusErr):
		return "server_error"
	case err != nil:
		return "network_error"
	}
	resp, _ := result.(*resty.Response)
	if resp == nil {
		return "network_error"
	}
	switch code := resp.StatusCode(); {
	case code < 300:
		return "ok"
	case code == http.StatusNotFound:
		return "not_found"
	case code == http.StatusConflict:
		return "conflict"
	default:
		return "client_error"
	}
}

// isServiceFailure counts network faults and 5xx answers. Caller
// cancellation and 4xx answers leave the breaker alone.
func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}

func isEmptyBody(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
