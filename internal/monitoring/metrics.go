package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plateflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plateflow_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	itemTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plateflow_item_transitions_total",
			Help: "Order item status transitions by target status and outcome",
		},
		[]string{"status", "outcome"},
	)

	batchOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plateflow_batch_operations_total",
			Help: "Batch cook starts by outcome",
		},
		[]string{"outcome"},
	)

	kotPrints = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plateflow_kot_prints_total",
			Help: "Kitchen order tickets dispatched to printers",
		},
	)
)

// RequestMetrics records request counts and latencies per route.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}

// RecordItemTransition counts one item status change attempt.
func RecordItemTransition(status string, success bool) {
	itemTransitions.WithLabelValues(status, outcome(success)).Inc()
}

// RecordBatchOperation counts one batch cook start.
func RecordBatchOperation(success bool) {
	batchOperations.WithLabelValues(outcome(success)).Inc()
}

// RecordKOTPrint counts one dispatched kitchen order ticket.
func RecordKOTPrint() {
	kotPrints.Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
