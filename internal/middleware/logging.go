package middleware

import (
	"time"

	"collabkanban/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id, stores a request-scoped logger in
// the request context and logs the outcome once the handler returns.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLog := log.With("request_id", requestID)
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(), reqLog))

		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if id, ok := AccountID(c); ok {
			fields = append(fields, "account_id", id)
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLog.Errorw("request failed", fields...)
		case status >= 400:
			reqLog.Infow("request refused", fields...)
		default:
			reqLog.Debugw("request served", fields...)
		}
	}
}
