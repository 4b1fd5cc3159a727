package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eventbook/internal/model"
)

// memoryDB is in-memory shared state for the test stores. A single mutex
// serializes admissions the way the event row lock does in postgres.
type memoryDB struct {
	mu       sync.Mutex
	events   map[string]model.Event
	bookings map[string]model.Booking
	order    []string // booking ids in insertion order
}

// MemoryEventStore is an in-memory EventStore. It exists so the service and
// handler layers can be exercised without a database.
type MemoryEventStore struct {
	db *memoryDB
}

// MemoryBookingStore is the in-memory BookingStore sharing state with its
// MemoryEventStore.
type MemoryBookingStore struct {
	db *memoryDB
}

// NewMemoryStore constructs an empty in-memory store pair over shared state.
func NewMemoryStore() (*MemoryEventStore, *MemoryBookingStore) {
	db := &memoryDB{
		events:   make(map[string]model.Event),
		bookings: make(map[string]model.Booking),
	}
	return &MemoryEventStore{db: db}, &MemoryBookingStore{db: db}
}

// Create inserts a new event with a generated UUID.
func (s *MemoryEventStore) Create(_ context.Context, event *model.Event) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := time.Now().UTC()
	event.ID = uuid.New().String()
	event.CreatedAt = now
	event.UpdatedAt = now
	s.db.events[event.ID] = *event
	return nil
}

// List returns all events ordered by ascending date, each with its booking count.
func (s *MemoryEventStore) List(_ context.Context) ([]model.Event, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var events []model.Event
	for _, e := range s.db.events {
		e.Count = &model.EventCount{Bookings: s.db.countLocked(e.ID)}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

// GetByID returns a single event with its booking count, or model.ErrNotFound.
func (s *MemoryEventStore) GetByID(_ context.Context, id string) (*model.Event, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	e, ok := s.db.events[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	e.Count = &model.EventCount{Bookings: s.db.countLocked(id)}
	return &e, nil
}

// Update replaces all mutable fields of an event.
func (s *MemoryEventStore) Update(_ context.Context, event *model.Event) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, ok := s.db.events[event.ID]
	if !ok {
		return model.ErrNotFound
	}
	event.CreatedAt = stored.CreatedAt
	event.UpdatedAt = time.Now().UTC()
	s.db.events[event.ID] = *event
	return nil
}

// Delete removes an event unless any booking still references it; the guard
// and the delete run under the same lock, as in the single-statement postgres
// delete.
func (s *MemoryEventStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.events[id]; !ok {
		return model.ErrNotFound
	}
	if s.db.countLocked(id) > 0 {
		return model.Domain("Cannot delete event with existing bookings")
	}
	delete(s.db.events, id)
	return nil
}

// Admit mirrors the transactional admission of the postgres store: the guards,
// the total from the event's current price, and the insert all run under the
// store lock.
func (s *MemoryBookingStore) Admit(_ context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	event, ok := s.db.events[req.EventID]
	if !ok {
		return nil, model.ErrNotFound
	}
	if event.IsPast(time.Now()) {
		return nil, model.Domain("Cannot book tickets for past events")
	}

	remaining := event.Remaining(s.db.sumLocked(req.EventID))
	if req.Tickets > remaining {
		return nil, model.Domain(fmt.Sprintf("Only %d tickets available", remaining))
	}

	booking := model.Booking{
		ID:           uuid.New().String(),
		EventID:      req.EventID,
		AttendeeName: req.AttendeeName,
		Email:        req.Email,
		Phone:        req.Phone,
		Tickets:      req.Tickets,
		TotalAmount:  event.Price.Mul(decimal.NewFromInt(int64(req.Tickets))),
		CreatedAt:    time.Now().UTC(),
	}
	s.db.bookings[booking.ID] = booking
	s.db.order = append(s.db.order, booking.ID)

	// Embed the event on the returned copy only; stored bookings stay bare.
	embedded := event
	booking.Event = &embedded
	return &booking, nil
}

// SumTickets returns the total tickets booked against an event.
func (s *MemoryBookingStore) SumTickets(_ context.Context, eventID string) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.sumLocked(eventID), nil
}

// ListByEvent returns all bookings for an event, newest first.
func (s *MemoryBookingStore) ListByEvent(_ context.Context, eventID string) ([]model.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var bookings []model.Booking
	for i := len(s.db.order) - 1; i >= 0; i-- {
		b, ok := s.db.bookings[s.db.order[i]]
		if ok && b.EventID == eventID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

// ListAll returns every booking, newest first, with its event embedded.
func (s *MemoryBookingStore) ListAll(_ context.Context) ([]model.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var bookings []model.Booking
	for i := len(s.db.order) - 1; i >= 0; i-- {
		b, ok := s.db.bookings[s.db.order[i]]
		if !ok {
			continue
		}
		if e, ok := s.db.events[b.EventID]; ok {
			event := e
			b.Event = &event
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// GetByID returns a single booking with its event embedded, or model.ErrNotFound.
func (s *MemoryBookingStore) GetByID(_ context.Context, id string) (*model.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	b, ok := s.db.bookings[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if e, ok := s.db.events[b.EventID]; ok {
		event := e
		b.Event = &event
	}
	return &b, nil
}

// Delete removes a booking.
func (s *MemoryBookingStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.bookings[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.db.bookings, id)
	return nil
}

func (db *memoryDB) countLocked(eventID string) int {
	count := 0
	for _, b := range db.bookings {
		if b.EventID == eventID {
			count++
		}
	}
	return count
}

func (db *memoryDB) sumLocked(eventID string) int {
	total := 0
	for _, b := range db.bookings {
		if b.EventID == eventID {
			total += b.Tickets
		}
	}
	return total
}
