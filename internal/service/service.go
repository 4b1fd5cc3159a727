// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"eventbook/internal/model"
)

// EventStore is the persistence surface the event service depends on.
// Implemented by repository.EventRepository and repository.MemoryEventStore.
// Update reads the stored created_at back onto the passed event. Delete
// refuses, atomically with the removal, while any booking references the
// event.
type EventStore interface {
	Create(ctx context.Context, event *model.Event) error
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
}

// BookingStore is the persistence surface the booking service depends on.
// Admit is the atomic admission path: existence, temporal and capacity guards,
// total computation, and insert happen as one unit against committed state.
type BookingStore interface {
	Admit(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error)
	SumTickets(ctx context.Context, eventID string) (int, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

// EventService orchestrates event lifecycle operations.
type EventService struct {
	events   EventStore
	bookings BookingStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, bookings BookingStore) *EventService {
	return &EventService{events: events, bookings: bookings}
}

// CreateEvent validates the request and stores a new event.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	event, err := eventFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// UpdateEvent re-validates the field constraints and replaces all mutable
// fields. Deliberately permissive: capacity may shrink below already-booked
// tickets and the date may move into the past while bookings exist, matching
// the organizer-facing behavior this service replaces.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req model.CreateEventRequest) (*model.Event, error) {
	if id == "" {
		return nil, model.Validation("Event ID is required")
	}
	event, err := eventFromRequest(req)
	if err != nil {
		return nil, err
	}
	event.ID = id
	if err := s.events.Update(ctx, event); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// ListEvents returns all events ordered by ascending date with booking counts.
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// GetEvent returns a single event with its bookings and booking count.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, model.Validation("Event ID is required")
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event bookings: %w", err)
	}
	// The detail projection always carries a bookings array, even when empty.
	if bookings == nil {
		bookings = []model.Booking{}
	}
	event.Bookings = bookings
	return event, nil
}

// DeleteEvent removes an event, refusing while any booking still references
// it. The store makes the guard and the removal atomic.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return model.Validation("Event ID is required")
	}
	return s.events.Delete(ctx, id)
}

// eventFromRequest validates the field constraints and builds an Event.
// Validation messages mirror the public form's.
func eventFromRequest(req model.CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	req.Category = strings.TrimSpace(req.Category)

	if req.Title == "" {
		return nil, model.Validation("Title is required")
	}
	if utf8.RuneCountInString(req.Title) > 100 {
		return nil, model.Validation("Title must be less than 100 characters")
	}
	if req.Date == "" {
		return nil, model.Validation("Date is required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, model.Validation("Invalid date format")
	}
	if req.Time == "" {
		return nil, model.Validation("Time is required")
	}
	if req.Location == "" {
		return nil, model.Validation("Location is required")
	}
	if req.Capacity < 1 {
		return nil, model.Validation("Capacity must be at least 1")
	}
	if req.Capacity > 1000 {
		return nil, model.Validation("Capacity cannot exceed 1000")
	}
	if req.Price.IsNegative() {
		return nil, model.Validation("Price cannot be negative")
	}
	if req.Category == "" {
		return nil, model.Validation("Category is required")
	}

	return &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Time:        req.Time,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Price:       req.Price,
		Category:    req.Category,
	}, nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
