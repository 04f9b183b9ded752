package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pushkit/pushkit/logger"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code, and duration. Health-check paths are silently
// skipped. Streaming requests log once, at disconnect.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"status":             c.Writer.Status(),
			logger.FieldDuration: time.Since(start).Milliseconds(),
		}
		if id := c.GetString("request_id"); id != "" {
			fields[logger.FieldRequestID] = id
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("Request completed", fields)
		case c.Writer.Status() >= 400:
			logger.Warn("Request completed", fields)
		default:
			logger.Debug("Request completed", fields)
		}
	}
}

func isHealthEndpoint(path string) bool {
	switch path {
	case "/health", "/metrics", "/info":
		return true
	}
	return false
}
