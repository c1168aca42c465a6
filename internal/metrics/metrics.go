package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tours",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tours",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets: []float64{
				0.005, 0.01, 0.025, 0.05, 0.1, 0.25,
				0.5, 1, 2.5, 5,
			},
		},
		[]string{"route", "method"},
	)

	PaymentCheckoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tours",
			Name:      "payment_checkouts_total",
			Help:      "Checkout requests built, by result",
		},
		[]string{"result"},
	)

	PaymentNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tours",
			Name:      "payment_notifications_total",
			Help:      "Gateway notifications received, by result",
		},
		[]string{"result"},
	)
)

const (
	ResultApplied           = "applied"
	ResultDuplicate         = "duplicate"
	ResultMismatch          = "mismatch"
	ResultInvalidTransition = "invalid_transition"
	ResultError             = "error"
	ResultOK                = "ok"
	ResultConfigError       = "config_error"
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		PaymentCheckoutsTotal,
		PaymentNotificationsTotal,
	)
}

func IncCheckout(result string) {
	PaymentCheckoutsTotal.WithLabelValues(result).Inc()
}

func IncNotification(result string) {
	PaymentNotificationsTotal.WithLabelValues(result).Inc()
}

func ObserveHTTP(route, method, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
