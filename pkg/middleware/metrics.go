package middleware

import (
	"time"

	"creator-market/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request count and latency per matched route.
func MetricsMiddleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveRequest(service, c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
