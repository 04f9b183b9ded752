package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pushkit/pushkit/observability"
)

// Tracing returns middleware that wraps each request in an OpenTelemetry
// span. For streaming requests the span covers the whole connection
// lifetime.
func Tracing() gin.HandlerFunc {
	tracer := observability.Tracer("github.com/pushkit/pushkit/server")
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(),
			c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", c.FullPath()),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}
