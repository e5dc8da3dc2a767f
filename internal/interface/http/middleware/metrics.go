package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/booknotes/pkg/metrics"
)

// Metrics records request count, latency and in-flight requests.
// Paths are labeled by route template to bound cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.HTTPRequestsInProgress != nil {
			metrics.HTTPRequestsInProgress.Inc()
			defer metrics.HTTPRequestsInProgress.Dec()
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
