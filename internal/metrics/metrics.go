package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Outbound LinxPay API calls, by endpoint path, method and status code.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linxpay_api_requests_total",
			Help: "Total number of LinxPay API requests made (by endpoint and method).",
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linxpay_api_request_duration_seconds",
			Help:    "Duration of LinxPay API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	// OAuth2 token endpoint exchanges.
	TokenExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linxpay_token_exchanges_total",
			Help: "Number of OAuth2 token exchanges by grant type and result.",
		},
		[]string{"grant", "result"}, // result = "ok" | "error"
	)

	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linxpay_validation_failures_total",
			Help: "Outgoing payloads rejected before transmission, by field.",
		},
		[]string{"field"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adapter_errors_total",
			Help: "Count of adapter-level errors by component.",
		},
		[]string{"component", "reason"},
	)
)

// ObserveDuration records the time elapsed since start on a histogram or summary.
func ObserveDuration(v interface{}, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	}
}

func IncAPIRequest(endpoint, method, status string) {
	APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

func IncTokenExchange(grant, result string) {
	TokenExchangesTotal.WithLabelValues(grant, result).Inc()
}

func IncValidationFailure(field string) {
	ValidationFailuresTotal.WithLabelValues(field).Inc()
}

func IncError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}
