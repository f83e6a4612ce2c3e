package handlers

import (
	"context"

	"github.com/SAP-F-2025/valentine-service/internal/services"
	"github.com/SAP-F-2025/valentine-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware makes sure every request carries an X-Request-ID and
// exposes it to services through the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(utils.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			c.Request.Header.Set(utils.RequestIDHeader, requestID)
		}
		c.Header(utils.RequestIDHeader, requestID)

		ctx := context.WithValue(c.Request.Context(), services.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// clientKey identifies a caller for rate limiting.
func clientKey(c *gin.Context) string {
	return c.ClientIP()
}
