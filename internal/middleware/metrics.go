package middleware

import (
    "context"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector records per-request metrics.
type MetricsCollector interface {
    RecordRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)
    RecordError(ctx context.Context, method, route string, errorType string)
}

// PrometheusCollector implements MetricsCollector with Prometheus vectors.
// Routes are echo route patterns (/products/:id) to keep label
// cardinality bounded.
type PrometheusCollector struct {
    requests *prometheus.CounterVec
    duration *prometheus.HistogramVec
    errors   *prometheus.CounterVec
}

// NewPrometheusCollector creates the collector and registers its vectors with reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
    pc := &PrometheusCollector{
        requests: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: "catalog",
            Name:      "http_requests_total",
            Help:      "HTTP requests by method, route and status code.",
        }, []string{"method", "route", "status"}),
        duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
            Namespace: "catalog",
            Name:      "http_request_duration_seconds",
            Help:      "HTTP request latency.",
            Buckets:   prometheus.DefBuckets,
        }, []string{"method", "route"}),
        errors: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: "catalog",
            Name:      "http_request_errors_total",
            Help:      "Non-2xx/3xx HTTP responses by error class.",
        }, []string{"method", "route", "type"}),
    }
    reg.MustRegister(pc.requests, pc.duration, pc.errors)
    return pc
}

func (pc *PrometheusCollector) RecordRequest(_ context.Context, method, route string, statusCode int, duration time.Duration) {
    pc.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
    pc.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (pc *PrometheusCollector) RecordError(_ context.Context, method, route string, errorType string) {
    pc.errors.WithLabelValues(method, route, errorType).Inc()
}

// Metrics returns an Echo middleware reporting every request to collector.
func Metrics(collector MetricsCollector) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                // let echo's error handler write the status before we read it
                c.Error(err)
            }

            req := c.Request()
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            status := c.Response().Status
            collector.RecordRequest(req.Context(), req.Method, route, status, time.Since(start))
            if status >= 400 {
                collector.RecordError(req.Context(), req.Method, route, categorizeError(status))
            }
            return nil
        }
    }
}

func categorizeError(statusCode int) string {
    switch {
    case statusCode >= 400 && statusCode < 500:
        return "client_error"
    case statusCode >= 500:
        return "server_error"
    default:
        return "unknown_error"
    }
}
