// Package repository implements all database queries for the event booking system.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbook/internal/model"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event and returns it with a generated UUID.
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	now := time.Now().UTC()
	event.ID = uuid.New().String()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, title, description, date, time, location, capacity, price, category, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.Title, event.Description, event.Date, event.Time,
		event.Location, event.Capacity, event.Price, event.Category,
		event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns all events ordered by ascending date, each with its booking count.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.title, e.description, e.date, e.time, e.location,
		        e.capacity, e.price, e.category, e.created_at, e.updated_at,
		        COUNT(b.id)
		 FROM events e
		 LEFT JOIN bookings b ON b.event_id = e.id
		 GROUP BY e.id
		 ORDER BY e.date ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var count int
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
			&e.Capacity, &e.Price, &e.Category, &e.CreatedAt, &e.UpdatedAt,
			&count,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Count = &model.EventCount{Bookings: count}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID returns a single event with its booking count, or model.ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT e.id, e.title, e.description, e.date, e.time, e.location,
		        e.capacity, e.price, e.category, e.created_at, e.updated_at,
		        COUNT(b.id)
		 FROM events e
		 LEFT JOIN bookings b ON b.event_id = e.id
		 WHERE e.id = $1
		 GROUP BY e.id`,
		id,
	).Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.Capacity, &e.Price, &e.Category, &e.CreatedAt, &e.UpdatedAt,
		&count,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	e.Count = &model.EventCount{Bookings: count}
	return &e, nil
}

// Update replaces all mutable fields of an event, reading back the stored
// created_at so the returned event is complete. Returns model.ErrNotFound
// when the id does not resolve.
func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	event.UpdatedAt = time.Now().UTC()

	err := r.db.QueryRow(ctx,
		`UPDATE events
		 SET title = $2, description = $3, date = $4, time = $5, location = $6,
		     capacity = $7, price = $8, category = $9, updated_at = $10
		 WHERE id = $1
		 RETURNING created_at`,
		event.ID, event.Title, event.Description, event.Date, event.Time,
		event.Location, event.Capacity, event.Price, event.Category,
		event.UpdatedAt,
	).Scan(&event.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes an event unless any booking still references it. The guard
// and the delete are one statement, so an admission committed between a
// separate check and the delete cannot slip through. Returns model.ErrNotFound
// when the id does not resolve.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM events
		 WHERE id = $1
		   AND NOT EXISTS (SELECT 1 FROM bookings WHERE event_id = $1)`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err = r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check event exists: %w", err)
		}
		if exists {
			return model.Domain("Cannot delete event with existing bookings")
		}
		return model.ErrNotFound
	}
	return nil
}
