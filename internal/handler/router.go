package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// NewRouter builds the chi router with the full middleware stack and all API
// routes. Shared between main and the handler tests.
func NewRouter(logger zerolog.Logger, events *EventHandler, bookings *BookingHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(AccessLog(logger))
	r.Use(cors.AllowAll().Handler)

	r.Get("/health", HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/events", func(r chi.Router) {
		r.Get("/", events.ListEvents)
		r.Post("/", events.CreateEvent)
		r.Get("/{id}", events.GetEvent)
		r.Put("/{id}", events.UpdateEvent)
		r.Delete("/{id}", events.DeleteEvent)
		r.Get("/{id}/bookings", events.ListEventBookings)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", bookings.ListBookings)
		r.Post("/", bookings.CreateBooking)
		r.Delete("/{id}", bookings.CancelBooking)
	})

	return r
}
