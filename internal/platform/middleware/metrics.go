package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "magnolia_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "magnolia_http_requests_total",
		Help: "Count of HTTP requests by route and status.",
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(requestDuration, requestsTotal)
}

// Metrics records per-route latency and count histograms/counters for
// Prometheus scraping, mirroring the ambient observability the rest of the
// corpus carries via tracing and structured logs.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			labels := prometheus.Labels{
				"method": c.Request().Method,
				"route":  c.Path(),
				"status": status,
			}
			requestDuration.With(labels).Observe(time.Since(start).Seconds())
			requestsTotal.With(labels).Inc()

			return err
		}
	}
}
