package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/claimdesk/claimdesk/internal/metrics"
)

// PrometheusMiddleware records request count and latency by route pattern.
// Websocket upgrades are counted but not timed; their duration is the session length.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestsTotal.WithLabelValues(method, route, status).Inc()

		if c.GetHeader("Upgrade") == "websocket" {
			return
		}
		metrics.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
	}
}
