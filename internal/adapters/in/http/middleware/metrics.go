// internal/adapters/in/http/middleware/metrics.go
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	webhookOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_payment_webhook_total",
			Help: "Payment webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	stockUnitsDecremented = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_stock_units_decremented_total",
			Help: "Stock units removed by order fulfilment",
		},
	)
)

// Metrics records request count and latency per route prefix.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw, ok := w.(*statusWriter)
		if !ok {
			sw = &statusWriter{ResponseWriter: w}
		}

		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code())
		route := RouteLabel(r.URL.Path)
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}

// RouteLabel keeps label cardinality bounded: ids are collapsed to "{id}".
func RouteLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] != "api" {
		if path == "/healthz" || path == "/metrics" {
			return path
		}
		return "other"
	}
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i >= 2 && !isStaticSegment(p) {
			p = "{id}"
		}
		out = append(out, p)
	}
	return "/" + strings.Join(out, "/")
}

func isStaticSegment(s string) bool {
	switch s {
	case "products", "categories", "orders", "reviews", "images", "items", "status",
		"me", "profile", "create-preference", "mercadopago", "payments":
		return true
	}
	return false
}

// RecordWebhookOutcome counts a payment webhook delivery (applied, ignored, rejected, error, ...).
func RecordWebhookOutcome(outcome string) {
	webhookOutcomes.WithLabelValues(outcome).Inc()
}

func RecordStockDecrement(units int) {
	if units > 0 {
		stockUnitsDecremented.Add(float64(units))
	}
}

// MetricsHandler serves the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
