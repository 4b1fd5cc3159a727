package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitSchema creates the events and bookings tables if they do not exist.
// Bookings carry a foreign key to events; deletion of an event with bookings
// is blocked at the application layer, the FK only guards against orphans.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY,
	title VARCHAR(100) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	date TIMESTAMP WITH TIME ZONE NOT NULL,
	time VARCHAR(50) NOT NULL,
	location TEXT NOT NULL,
	capacity INTEGER NOT NULL,
	price NUMERIC(10, 2) NOT NULL,
	category VARCHAR(100) NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("create events table: %w", err)
	}

	_, err = pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events(id),
	attendee_name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	tickets INTEGER NOT NULL,
	total_amount NUMERIC(10, 2) NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("create bookings table: %w", err)
	}

	_, err = pool.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS idx_bookings_event_id ON bookings (event_id)`)
	if err != nil {
		return fmt.Errorf("create bookings index: %w", err)
	}
	return nil
}
