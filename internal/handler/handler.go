// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventbook/internal/model"
	"eventbook/internal/service"
)

// Machine-readable error kinds carried in the response envelope next to the
// human-readable message.
const (
	codeValidation = "validation"
	codeNotFound   = "not_found"
	codeDomain     = "domain"
	codeInternal   = "internal"
)

// EventHandler holds the HTTP handlers for the event lifecycle API.
type EventHandler struct {
	events   *service.EventService
	bookings *service.BookingService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *service.EventService, bookings *service.BookingService) *EventHandler {
	return &EventHandler{events: events, bookings: bookings}
}

// BookingHandler holds the HTTP handlers for the booking API.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, model.APIResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, model.APIResponse{Success: false, Error: msg, Code: code})
}

// writeServiceError maps the error taxonomy onto the envelope: validation and
// domain violations are 400, missing entities 404, everything else 500 with a
// generic message so store details never leak to clients.
func writeServiceError(w http.ResponseWriter, err error, notFoundMsg, internalMsg string) {
	switch {
	case model.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error(), codeValidation)
	case model.IsDomain(err):
		writeError(w, http.StatusBadRequest, err.Error(), codeDomain)
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg, codeNotFound)
	default:
		writeError(w, http.StatusInternalServerError, internalMsg, codeInternal)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

// ─── Event handlers ───────────────────────────────────────────────────────────

// ListEvents handles GET /events
// Returns all events ordered by ascending date with their booking counts.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch events", codeInternal)
		return
	}
	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}
	writeData(w, http.StatusOK, events)
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", codeValidation)
		return
	}

	event, err := h.events.CreateEvent(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Event not found", "Failed to create event")
		return
	}
	writeData(w, http.StatusCreated, event)
}

// GetEvent handles GET /events/{id}
// Returns a single event with its bookings and booking count.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.events.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Event not found", "Failed to fetch event")
		return
	}
	writeData(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", codeValidation)
		return
	}

	event, err := h.events.UpdateEvent(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, "Event not found", "Failed to update event")
		return
	}
	writeData(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{id}
// Refuses while any booking still references the event.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.events.DeleteEvent(r.Context(), id); err != nil {
		writeServiceError(w, err, "Event not found", "Failed to delete event")
		return
	}
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true})
}

// ListEventBookings handles GET /events/{id}/bookings
func (h *EventHandler) ListEventBookings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	bookings, err := h.bookings.ListEventBookings(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Event not found", "Failed to fetch bookings")
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeData(w, http.StatusOK, bookings)
}

// ─── Booking handlers ─────────────────────────────────────────────────────────

// ListBookings handles GET /bookings
// Returns every booking with its event embedded, newest first.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListBookings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch bookings", codeInternal)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeData(w, http.StatusOK, bookings)
}

// CreateBooking handles POST /bookings
// Admission is atomic: the capacity check and the insert cannot interleave
// with a concurrent admission for the same event.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", codeValidation)
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Event not found", "Failed to create booking")
		return
	}
	writeData(w, http.StatusCreated, booking)
}

// CancelBooking handles DELETE /bookings/{id}
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.bookings.CancelBooking(r.Context(), id); err != nil {
		writeServiceError(w, err, "Booking not found", "Failed to cancel booking")
		return
	}
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true})
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
