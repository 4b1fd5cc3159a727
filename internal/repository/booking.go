package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"eventbook/internal/model"
)

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Admit performs a concurrency-safe booking admission inside a transaction.
//
// The naive read-then-write sequence is racy: two concurrent admissions
// against the same event can both read the same booked-ticket sum before
// either inserts, and jointly overflow capacity. SELECT ... FOR UPDATE takes
// a row-level lock on the event the moment it executes, so a second
// transaction blocks on the same lock until the first commits and then sees
// its booking in the aggregate. The temporal and capacity guards, the total
// computed from the event's current price, and the insert all happen under
// that lock.
func (r *BookingRepository) Admit(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var event model.Event
	err = tx.QueryRow(ctx,
		`SELECT id, title, description, date, time, location, capacity, price, category, created_at, updated_at
		 FROM events WHERE id = $1 FOR UPDATE`,
		req.EventID,
	).Scan(
		&event.ID, &event.Title, &event.Description, &event.Date, &event.Time,
		&event.Location, &event.Capacity, &event.Price, &event.Category,
		&event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	if event.IsPast(time.Now()) {
		err = model.Domain("Cannot book tickets for past events")
		return nil, err
	}

	var bookedTickets int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(tickets), 0) FROM bookings WHERE event_id = $1`,
		req.EventID,
	).Scan(&bookedTickets)
	if err != nil {
		return nil, fmt.Errorf("sum booked tickets: %w", err)
	}

	remaining := event.Remaining(bookedTickets)
	if req.Tickets > remaining {
		err = model.Domain(fmt.Sprintf("Only %d tickets available", remaining))
		return nil, err
	}

	booking := &model.Booking{
		ID:           uuid.New().String(),
		EventID:      req.EventID,
		AttendeeName: req.AttendeeName,
		Email:        req.Email,
		Phone:        req.Phone,
		Tickets:      req.Tickets,
		TotalAmount:  event.Price.Mul(decimal.NewFromInt(int64(req.Tickets))),
		CreatedAt:    time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, event_id, attendee_name, email, phone, tickets, total_amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		booking.ID, booking.EventID, booking.AttendeeName, booking.Email,
		booking.Phone, booking.Tickets, booking.TotalAmount, booking.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	booking.Event = &event
	return booking, nil
}

// SumTickets returns the total tickets booked against an event. A sum over
// zero rows is 0.
func (r *BookingRepository) SumTickets(ctx context.Context, eventID string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(tickets), 0) FROM bookings WHERE event_id = $1`,
		eventID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum tickets: %w", err)
	}
	return total, nil
}

// ListByEvent returns all bookings for an event, newest first.
func (r *BookingRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, attendee_name, email, phone, tickets, total_amount, created_at
		 FROM bookings
		 WHERE event_id = $1
		 ORDER BY created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.EventID, &b.AttendeeName, &b.Email, &b.Phone,
			&b.Tickets, &b.TotalAmount, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListAll returns every booking, newest first, with its event embedded.
func (r *BookingRepository) ListAll(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.event_id, b.attendee_name, b.email, b.phone, b.tickets, b.total_amount, b.created_at,
		        e.id, e.title, e.description, e.date, e.time, e.location, e.capacity, e.price, e.category, e.created_at, e.updated_at
		 FROM bookings b
		 JOIN events e ON e.id = b.event_id
		 ORDER BY b.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		var e model.Event
		if err := rows.Scan(
			&b.ID, &b.EventID, &b.AttendeeName, &b.Email, &b.Phone,
			&b.Tickets, &b.TotalAmount, &b.CreatedAt,
			&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
			&e.Capacity, &e.Price, &e.Category, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.Event = &e
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetByID returns a single booking with its event embedded, or model.ErrNotFound.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	var e model.Event
	err := r.db.QueryRow(ctx,
		`SELECT b.id, b.event_id, b.attendee_name, b.email, b.phone, b.tickets, b.total_amount, b.created_at,
		        e.id, e.title, e.description, e.date, e.time, e.location, e.capacity, e.price, e.category, e.created_at, e.updated_at
		 FROM bookings b
		 JOIN events e ON e.id = b.event_id
		 WHERE b.id = $1`,
		id,
	).Scan(
		&b.ID, &b.EventID, &b.AttendeeName, &b.Email, &b.Phone,
		&b.Tickets, &b.TotalAmount, &b.CreatedAt,
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.Capacity, &e.Price, &e.Category, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	b.Event = &e
	return &b, nil
}

// Delete removes a booking. Cancellation only shrinks the booked-ticket sum,
// so a plain atomic delete is enough. Returns model.ErrNotFound when the id
// does not resolve.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
