package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/adapter/orderapi"
	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/pkg/resilience"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

var validationErrors = []error{
	domainErrors.ErrInvalidQuantity,
	domainErrors.ErrMissingOrderID,
	domainErrors.ErrMissingProductID,
	domainErrors.ErrMissingUserID,
	domainErrors.ErrMissingShippingAddress,
	domainErrors.ErrMissingPaymentMethod,
}

// statusFor maps use case and transport errors to gateway responses.
func statusFor(err error) int {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}

	var statusErr *orderapi.StatusError
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500:
		return statusErr.StatusCode
	case resilience.IsOpen(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}
