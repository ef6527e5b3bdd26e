package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Most API requests make two to five sheet round trips, so latency sits well
// above the default buckets.
var requestBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 15}

// HTTPMetrics tracks the dashboard and the /api surface.
type HTTPMetrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlightGauge   prometheus.Gauge
	APIRejections   *prometheus.CounterVec
}

// NewHTTPMetrics creates and registers HTTP metrics on the given registry.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds, including sheet round trips.",
			Buckets:   requestBuckets,
		}, []string{"method", "route"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status_code"}),
		InFlightGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of HTTP requests currently being processed.",
		}),
		APIRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "rejections_total",
			Help:      "API requests turned away before reaching the waitlist.",
		}, []string{"route", "reason"}),
	}

	reg.MustRegister(m.RequestDuration, m.RequestsTotal, m.InFlightGauge, m.APIRejections)
	return m
}

// observed reports whether route is recorded. Probes and scrapes are not;
// unknown paths share one label.
func observed(route string) (string, bool) {
	switch {
	case route == "/metrics", route == "/version", strings.HasPrefix(route, "/health/"):
		return "", false
	case route == "":
		return "unmatched", true
	default:
		return route, true
	}
}

func rejectionReason(route string, status int) string {
	if !strings.HasPrefix(route, "/api/") {
		return ""
	}
	switch status {
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return ""
	}
}

// Middleware returns an Echo middleware that records HTTP metrics.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route, ok := observed(c.Path())
			if !ok {
				return next(c)
			}

			m.InFlightGauge.Inc()
			defer m.InFlightGauge.Dec()

			method := c.Request().Method
			timer := prometheus.NewTimer(m.RequestDuration.WithLabelValues(method, route))
			err := next(c)
			timer.ObserveDuration()

			status := responseStatus(c, err)
			m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			if reason := rejectionReason(route, status); reason != "" {
				m.APIRejections.WithLabelValues(route, reason).Inc()
			}
			return err
		}
	}
}

// responseStatus is the status the client will see. Errors returned up the
// chain are written after this middleware, so derive it from the error.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}
