package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"eventbook/internal/model"
	"eventbook/internal/monitoring"
)

// BookingService orchestrates booking admission and cancellation.
type BookingService struct {
	events   EventStore
	bookings BookingStore
}

// NewBookingService constructs a BookingService with its dependencies.
func NewBookingService(events EventStore, bookings BookingStore) *BookingService {
	return &BookingService{events: events, bookings: bookings}
}

// CreateBooking validates the request field by field, then delegates the
// admission decision to the store's atomic Admit. On success exactly one
// booking exists; every rejection leaves no partial state.
func (s *BookingService) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	req.AttendeeName = strings.TrimSpace(req.AttendeeName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := validateBooking(req); err != nil {
		monitoring.BookingRejected("validation")
		return nil, err
	}

	booking, err := s.bookings.Admit(ctx, req)
	if err != nil {
		switch {
		case model.IsDomain(err):
			monitoring.BookingRejected("domain")
		case errors.Is(err, model.ErrNotFound):
			monitoring.BookingRejected("not_found")
		default:
			monitoring.BookingRejected("error")
			return nil, fmt.Errorf("create booking: %w", err)
		}
		return nil, err
	}
	monitoring.BookingAdmitted(booking.Tickets)
	return booking, nil
}

// CancelBooking deletes a booking while the referenced event's date has not
// yet elapsed. Cancellation only frees capacity, so the load and the delete
// need no shared lock.
func (s *BookingService) CancelBooking(ctx context.Context, id string) error {
	if id == "" {
		return model.Validation("Booking ID is required")
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.Event != nil && booking.Event.IsPast(time.Now()) {
		return model.Domain("Cannot cancel booking for past events")
	}
	return s.bookings.Delete(ctx, id)
}

// ListBookings returns every booking with its event embedded, newest first.
func (s *BookingService) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return s.bookings.ListAll(ctx)
}

// ListEventBookings returns all bookings for one event, newest first.
func (s *BookingService) ListEventBookings(ctx context.Context, eventID string) ([]model.Booking, error) {
	if eventID == "" {
		return nil, model.Validation("Event ID is required")
	}
	return s.bookings.ListByEvent(ctx, eventID)
}

// RemainingCapacity reports how many tickets can still be booked against an
// event, clamped at zero. Read-only; reflects the latest committed state.
func (s *BookingService) RemainingCapacity(ctx context.Context, eventID string) (int, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	booked, err := s.bookings.SumTickets(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("sum tickets: %w", err)
	}
	return event.Remaining(booked), nil
}

// validateBooking checks the request fields in a fixed order; messages mirror
// the public form's.
func validateBooking(req model.CreateBookingRequest) error {
	if req.AttendeeName == "" {
		return model.Validation("Attendee name is required")
	}
	if !isValidEmail(req.Email) {
		return model.Validation("Invalid email address")
	}
	if req.Phone == "" {
		return model.Validation("Phone number is required")
	}
	if req.Tickets < 1 {
		return model.Validation("At least 1 ticket is required")
	}
	if req.EventID == "" {
		return model.Validation("Event ID is required")
	}
	return nil
}

// isValidEmail accepts a bare RFC 5322 address without a display name.
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
