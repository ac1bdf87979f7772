package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/server/http/dto"
)

// StreamHandler pushes cart changes to views as server-sent events.
type StreamHandler struct {
	facade CartFacade
}

// NewStreamHandler constructs StreamHandler.
func NewStreamHandler(f CartFacade) *StreamHandler {
	return &StreamHandler{facade: f}
}

// Cart streams "cart" events carrying the cart and its item count. The
// current snapshot is sent first.
func (h *StreamHandler) Cart(c *gin.Context) {
	updates := h.facade.WatchCart(c.Request.Context())
	c.Stream(func(io.Writer) bool {
		order, ok := <-updates
		if !ok {
			return false
		}
		c.SSEvent("cart", dto.CartEvent{Cart: toOrderResponse(order), Count: order.ItemCount()})
		return true
	})
}

// Count streams "count" events with the cart badge count.
func (h *StreamHandler) Count(c *gin.Context) {
	updates := h.facade.WatchCartItemCount(c.Request.Context())
	c.Stream(func(io.Writer) bool {
		count, ok := <-updates
		if !ok {
			return false
		}
		c.SSEvent("count", dto.CartCountResponse{Count: count})
		return true
	})
}
