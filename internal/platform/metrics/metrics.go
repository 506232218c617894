package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	ordersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lab_orders_created_total",
			Help: "Total number of lab orders created",
		},
	)

	paymentsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_submitted_total",
			Help: "Total number of payment submissions by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	reconciledViews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reconciled_order_payment_views",
			Help: "Number of order/payment views produced by the last reconciliation",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler wrapped for echo.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// Middleware records request count, duration and in-flight gauge per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			err := next(c)

			// The route template keeps label cardinality bounded.
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordOrderCreated records a lab order creation.
func RecordOrderCreated() {
	ordersCreated.Inc()
}

// RecordPaymentSubmitted records a payment submission outcome.
func RecordPaymentSubmitted(method, outcome string) {
	paymentsSubmitted.WithLabelValues(method, outcome).Inc()
}

// RecordReconciledViews records the size of the last reconciled view set.
func RecordReconciledViews(count int) {
	reconciledViews.Set(float64(count))
}
