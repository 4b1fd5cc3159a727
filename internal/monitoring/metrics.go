// Package monitoring defines the Prometheus metrics exposed on /metrics.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingsAdmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_admitted_total",
			Help: "Bookings durably created",
		},
	)

	ticketsAdmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_admitted_total",
			Help: "Tickets across all admitted bookings",
		},
	)

	bookingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_rejected_total",
			Help: "Booking requests rejected, by reason",
		},
		[]string{"reason"},
	)
)

// ObserveRequest records one completed HTTP request.
func ObserveRequest(method, route, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// BookingAdmitted records one successful admission of the given ticket count.
func BookingAdmitted(tickets int) {
	bookingsAdmitted.Inc()
	ticketsAdmitted.Add(float64(tickets))
}

// BookingRejected records one rejected booking request.
func BookingRejected(reason string) {
	bookingsRejected.WithLabelValues(reason).Inc()
}
