package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for monitoring service health and performance.
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	StatusUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "package_status_updates_total",
			Help: "Total number of package status updates by status",
		},
		[]string{"status"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notification delivery attempts by channel and outcome",
		},
		[]string{"channel", "status"},
	)

	BroadcastsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_broadcasts_total",
			Help: "Total number of websocket broadcast messages",
		},
	)
)

// Register registers all metrics with the default registry.
func Register() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		StatusUpdatesTotal,
		NotificationsTotal,
		BroadcastsTotal,
	)
}

// Middleware records per-route request counts and durations.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			HTTPRequestsTotal.WithLabelValues(path, c.Request().Method, strconv.Itoa(status)).Inc()
			HTTPRequestDuration.WithLabelValues(path, c.Request().Method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
