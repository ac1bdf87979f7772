package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

// CartHandler serves the cached cart and cart mutations.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(f CartFacade) *CartHandler {
	return &CartHandler{facade: f}
}

// Snapshot returns the cached cart, 204 when there is none.
func (h *CartHandler) Snapshot(c *gin.Context) {
	respondCart(c, h.facade.Cart())
}

// Count returns the cart badge count.
func (h *CartHandler) Count(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CartCountResponse{Count: h.facade.CartItemCount()})
}

// Clear forgets the cached cart.
func (h *CartHandler) Clear(c *gin.Context) {
	h.facade.ClearCart()
	c.Status(http.StatusNoContent)
}

// Load refreshes the cart of the user from the order service.
func (h *CartHandler) Load(c *gin.Context) {
	order, err := h.facade.LoadCart(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCart(c, order)
}

// Open returns the user's cart, creating one when absent.
func (h *CartHandler) Open(c *gin.Context) {
	var req dto.CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, "invalid request")
		return
	}
	order, err := h.facade.GetOrCreateCart(c.Request.Context(), c.Param("userID"), req.ShippingAddress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// AddItem adds an item to an order.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request")
		return
	}
	h.respondOrder(c)(h.facade.AddItem(c.Request.Context(), c.Param("orderID"), toItem(req)))
}

// UpdateItem replaces an item line. A zero quantity removes it.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request")
		return
	}
	productID := c.Param("productID")
	req.ProductID = productID
	h.respondOrder(c)(h.facade.UpdateItem(c.Request.Context(), c.Param("orderID"), productID, toItem(req)))
}

// RemoveItem deletes an item line.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.respondOrder(c)(h.facade.RemoveItem(c.Request.Context(), c.Param("orderID"), c.Param("productID")))
}

// ClearItems empties an order.
func (h *CartHandler) ClearItems(c *gin.Context) {
	h.respondOrder(c)(h.facade.ClearItems(c.Request.Context(), c.Param("orderID")))
}

// Checkout submits the cart.
func (h *CartHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request")
		return
	}
	h.respondOrder(c)(h.facade.Checkout(c.Request.Context(), c.Param("orderID"), model.CheckoutRequest{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}))
}

func (h *CartHandler) respondOrder(c *gin.Context) func(*model.Order, error) {
	return func(order *model.Order, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		respondCart(c, order)
	}
}

func respondCart(c *gin.Context, order *model.Order) {
	if order == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}
