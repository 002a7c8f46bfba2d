package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	awspkg "github.com/abrekoglu/lignovia-store-sub001/aws"
)

// maxInFlightEmits caps the concurrent CloudWatch emit goroutines; data
// points beyond the cap are dropped rather than queued.
const maxInFlightEmits = 32

// HTTPMetrics records request count, latency and error count per route to
// CloudWatch. Emission happens off the request path with its own timeout
// so a slow CloudWatch call never delays a response.
func HTTPMetrics(metrics *awspkg.MetricsClient, service string) gin.HandlerFunc {
	if metrics == nil || !metrics.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}

	sem := make(chan struct{}, maxInFlightEmits)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		select {
		case sem <- struct{}{}:
		default:
			return
		}
		go func(path, method string, status int, dur time.Duration) {
			defer func() { <-sem }()
			mctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			dims := map[string]string{"Service": service, "Method": method, "Path": path}
			_ = metrics.RecordCount(mctx, awspkg.MetricHTTPRequests, dims)
			_ = metrics.RecordLatency(mctx, awspkg.MetricHTTPLatency, dur, dims)
			if status >= 400 {
				_ = metrics.RecordCount(mctx, awspkg.MetricHTTPErrors, dims)
			}
		}(c.Request.URL.Path, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
