package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

// OrderHandler serves placed orders.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(f OrderFacade) *OrderHandler {
	return &OrderHandler{facade: f}
}

// Get returns a single order.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// History returns a page of the user's orders.
func (h *OrderHandler) History(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	size, ok := queryInt(c, "size")
	if !ok {
		return
	}

	result, err := h.facade.OrderHistory(c.Request.Context(), c.Param("userID"), model.PageRequest{Page: page, Size: size})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHistoryResponse(result))
}

// Cancel requests cancellation. A refusal is reported in the body with 200.
func (h *OrderHandler) Cancel(c *gin.Context) {
	result, err := h.facade.CancelOrder(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CancelResponse{
		Cancelled: result.Cancelled(),
		Error:     result.Error,
		Order:     toOrderResponse(result.Order),
	})
}

// Redo recreates a past order. With goToCart=true the result replaces the
// cached cart. Nothing reordered answers 409 with the report.
func (h *OrderHandler) Redo(c *gin.Context) {
	intoCart, _ := strconv.ParseBool(c.Query("goToCart"))
	report, err := h.facade.RedoOrder(c.Request.Context(), c.Param("orderID"), intoCart)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if report.Outcome() == model.ReorderOutcomeNone {
		status = http.StatusConflict
	}
	c.JSON(status, toReorderResponse(report))
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondBadRequest(c, "invalid "+key)
		return 0, false
	}
	return n, true
}
