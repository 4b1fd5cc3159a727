// Package model defines the core domain types for the event booking system.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money fields serialize as JSON numbers, matching the public API shape.
	decimal.MarshalJSONWithoutQuotes = true
}

// Event represents a bookable occasion with a fixed seat capacity and a
// per-ticket price. Dates are compared at day granularity: an event is past
// only once its calendar date has elapsed.
type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Time        string          `json:"time"`
	Location    string          `json:"location"`
	Capacity    int             `json:"capacity"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	// Bookings and Count are projections, populated only on reads that ask for
	// them. omitzero keeps the key off list responses (nil) while the detail
	// response carries an explicit empty array.
	Bookings []Booking   `json:"bookings,omitzero"`
	Count    *EventCount `json:"_count,omitempty"`
}

// EventCount carries the derived booking count on event projections.
type EventCount struct {
	Bookings int `json:"bookings"`
}

// Remaining returns the seats still available given the number of tickets
// already booked, clamped at zero.
func (e *Event) Remaining(bookedTickets int) int {
	remaining := e.Capacity - bookedTickets
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsPast reports whether the event's calendar date (UTC) is strictly before
// now's calendar date. An event is still bookable on its own day.
func (e *Event) IsPast(now time.Time) bool {
	ey, em, ed := e.Date.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	eventDay := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return eventDay.Before(today)
}

// Booking represents a reservation of one or more tickets against an event.
// TotalAmount is fixed at creation time from the event's then-current price;
// later price changes do not affect existing bookings.
type Booking struct {
	ID           string          `json:"id"`
	EventID      string          `json:"eventId"`
	AttendeeName string          `json:"attendeeName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Tickets      int             `json:"tickets"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	CreatedAt    time.Time       `json:"createdAt"`

	// Event is populated on the all-bookings projection.
	Event *Event `json:"event,omitempty"`
}

// CreateEventRequest is the payload for creating or updating an event.
// Date arrives as a string ("2006-01-02" or RFC 3339) and is parsed by the
// service layer.
type CreateEventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Location    string          `json:"location"`
	Capacity    int             `json:"capacity"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

// CreateBookingRequest is the payload for booking tickets against an event.
type CreateBookingRequest struct {
	EventID      string `json:"eventId"`
	AttendeeName string `json:"attendeeName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Tickets      int    `json:"tickets"`
}

// APIResponse is the uniform JSON envelope for every endpoint. Code is a
// machine-readable error kind carried alongside the human-readable message.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}
