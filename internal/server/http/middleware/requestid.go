package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/pkg/requestid"
)

// RequestID reuses a valid incoming X-Request-ID or generates one, echoes it
// in the response and stores it in the request context so order service
// calls carry the same ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if !requestid.Valid(id) {
			id = requestid.Ensure(c.Request.Context())
		}
		c.Header(requestid.Header, id)
		c.Request = c.Request.WithContext(requestid.WithID(c.Request.Context(), id))
		c.Next()
	}
}
