package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics carries the domain counters recorded by the reward services.
type Metrics struct {
	PointsIssued      *prometheus.CounterVec
	PointsRedeemed    prometheus.Counter
	RedemptionsDenied prometheus.Counter
	OutboxPublished   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		PointsIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecopoints_points_issued_total",
			Help: "Points credited to users, by transaction type.",
		}, []string{"type"}),
		PointsRedeemed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ecopoints_points_redeemed_total",
			Help: "Points debited through redemptions.",
		}),
		RedemptionsDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ecopoints_redemptions_denied_total",
			Help: "Redemptions rejected for insufficient balance.",
		}),
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ecopoints_outbox_published_total",
			Help: "Outbox events staged for publication.",
		}),
	}
}

// HTTPMetrics instruments the gin surface.
type HTTPMetrics struct {
	requestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecopoints_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// GinMiddleware records per-request latency against the route template.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
