package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Referral clicks partitioned by classification outcome
	referralClicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_clicks_total",
			Help: "Total referral clicks processed, by outcome",
		},
		[]string{"outcome"},
	)

	// Ambassador orders partitioned by result
	ambassadorOrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ambassador_orders_total",
			Help: "Total ambassador order attempts, by result",
		},
		[]string{"result"},
	)
)

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// CountClick records one classified referral click.
func CountClick(suspicious bool) {
	outcome := "accepted"
	if suspicious {
		outcome = "suspicious"
	}
	referralClicksTotal.WithLabelValues(outcome).Inc()
}

// CountOrder records one order attempt outcome.
func CountOrder(result string) {
	ambassadorOrdersTotal.WithLabelValues(result).Inc()
}
