package middleware

import (
	"strconv"
	"time"

	"complaint-tracker-backend/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics mencatat jumlah dan latency request per route template (bukan path mentah,
// supaya id complaint tidak meledakkan cardinality).
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
