package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbook/internal/model"
	"eventbook/internal/repository"
	"eventbook/internal/service"
)

func newServices() (*service.EventService, *service.BookingService) {
	events, bookings := repository.NewMemoryStore()
	return service.NewEventService(events, bookings), service.NewBookingService(events, bookings)
}

func validEventRequest() model.CreateEventRequest {
	return model.CreateEventRequest{
		Title:       "Go Meetup",
		Description: "Monthly meetup",
		Date:        time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02"),
		Time:        "18:00",
		Location:    "Community Hall",
		Capacity:    50,
		Price:       decimal.NewFromFloat(25.00),
		Category:    "Technology",
	}
}

func TestCreateEventValidation(t *testing.T) {
	eventSvc, _ := newServices()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*model.CreateEventRequest)
		wantErr string
	}{
		{"empty title", func(r *model.CreateEventRequest) { r.Title = "" }, "Title is required"},
		{"whitespace title", func(r *model.CreateEventRequest) { r.Title = "   " }, "Title is required"},
		{"long title", func(r *model.CreateEventRequest) {
			for len(r.Title) <= 100 {
				r.Title += "x"
			}
		}, "Title must be less than 100 characters"},
		{"missing date", func(r *model.CreateEventRequest) { r.Date = "" }, "Date is required"},
		{"bad date", func(r *model.CreateEventRequest) { r.Date = "next tuesday" }, "Invalid date format"},
		{"missing time", func(r *model.CreateEventRequest) { r.Time = "" }, "Time is required"},
		{"missing location", func(r *model.CreateEventRequest) { r.Location = "" }, "Location is required"},
		{"zero capacity", func(r *model.CreateEventRequest) { r.Capacity = 0 }, "Capacity must be at least 1"},
		{"capacity too large", func(r *model.CreateEventRequest) { r.Capacity = 1001 }, "Capacity cannot exceed 1000"},
		{"negative price", func(r *model.CreateEventRequest) { r.Price = decimal.NewFromInt(-1) }, "Price cannot be negative"},
		{"missing category", func(r *model.CreateEventRequest) { r.Category = "" }, "Category is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validEventRequest()
			tt.mutate(&req)
			_, err := eventSvc.CreateEvent(ctx, req)
			require.Error(t, err)
			assert.True(t, model.IsValidation(err))
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestCreateEventBoundaries(t *testing.T) {
	eventSvc, _ := newServices()
	ctx := context.Background()

	req := validEventRequest()
	req.Capacity = 1000
	req.Price = decimal.Zero
	event, err := eventSvc.CreateEvent(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, 1000, event.Capacity)
	assert.False(t, event.CreatedAt.IsZero())
	assert.False(t, event.UpdatedAt.IsZero())
}

func TestListEventsOrderedByDate(t *testing.T) {
	eventSvc, _ := newServices()
	ctx := context.Background()

	later := validEventRequest()
	later.Title = "Later"
	later.Date = time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
	_, err := eventSvc.CreateEvent(ctx, later)
	require.NoError(t, err)

	sooner := validEventRequest()
	sooner.Title = "Sooner"
	sooner.Date = time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	_, err = eventSvc.CreateEvent(ctx, sooner)
	require.NoError(t, err)

	events, err := eventSvc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Sooner", events[0].Title)
	assert.Equal(t, "Later", events[1].Title)
	require.NotNil(t, events[0].Count)
	assert.Equal(t, 0, events[0].Count.Bookings)
}

func TestGetEventIncludesBookings(t *testing.T) {
	eventSvc, bookingSvc := newServices()
	ctx := context.Background()

	event, err := eventSvc.CreateEvent(ctx, validEventRequest())
	require.NoError(t, err)

	_, err = bookingSvc.CreateBooking(ctx, validBookingRequest(event.ID, 2))
	require.NoError(t, err)

	got, err := eventSvc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, got.Bookings, 1)
	assert.Equal(t, 2, got.Bookings[0].Tickets)
	require.NotNil(t, got.Count)
	assert.Equal(t, 1, got.Count.Bookings)
}

func TestGetEventWithoutBookingsHasEmptyArray(t *testing.T) {
	eventSvc, _ := newServices()
	ctx := context.Background()

	event, err := eventSvc.CreateEvent(ctx, validEventRequest())
	require.NoError(t, err)

	got, err := eventSvc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Bookings)
	assert.Empty(t, got.Bookings)
}

func TestGetEventNotFound(t *testing.T) {
	eventSvc, _ := newServices()

	_, err := eventSvc.GetEvent(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateEventStaysPermissive(t *testing.T) {
	eventSvc, bookingSvc := newServices()
	ctx := context.Background()

	req := validEventRequest()
	req.Capacity = 10
	event, err := eventSvc.CreateEvent(ctx, req)
	require.NoError(t, err)

	_, err = bookingSvc.CreateBooking(ctx, validBookingRequest(event.ID, 5))
	require.NoError(t, err)

	// Shrinking capacity below booked tickets is allowed; admission then sees
	// zero remaining and refuses further bookings.
	req.Capacity = 3
	updated, err := eventSvc.UpdateEvent(ctx, event.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Capacity)

	remaining, err := bookingSvc.RemainingCapacity(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = bookingSvc.CreateBooking(ctx, validBookingRequest(event.ID, 1))
	require.Error(t, err)
	assert.True(t, model.IsDomain(err))
	assert.EqualError(t, err, "Only 0 tickets available")
}

func TestUpdateEventPreservesCreatedAt(t *testing.T) {
	eventSvc, _ := newServices()
	ctx := context.Background()

	event, err := eventSvc.CreateEvent(ctx, validEventRequest())
	require.NoError(t, err)
	require.False(t, event.CreatedAt.IsZero())

	req := validEventRequest()
	req.Title = "Renamed"
	updated, err := eventSvc.UpdateEvent(ctx, event.ID, req)
	require.NoError(t, err)
	assert.False(t, updated.CreatedAt.IsZero())
	assert.True(t, updated.CreatedAt.Equal(event.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(event.UpdatedAt))
}

func TestUpdateEventNotFound(t *testing.T) {
	eventSvc, _ := newServices()

	_, err := eventSvc.UpdateEvent(context.Background(), "00000000-0000-0000-0000-000000000000", validEventRequest())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteEventGuard(t *testing.T) {
	eventSvc, bookingSvc := newServices()
	ctx := context.Background()

	empty, err := eventSvc.CreateEvent(ctx, validEventRequest())
	require.NoError(t, err)
	require.NoError(t, eventSvc.DeleteEvent(ctx, empty.ID))

	booked, err := eventSvc.CreateEvent(ctx, validEventRequest())
	require.NoError(t, err)
	booking, err := bookingSvc.CreateBooking(ctx, validBookingRequest(booked.ID, 1))
	require.NoError(t, err)

	err = eventSvc.DeleteEvent(ctx, booked.ID)
	require.Error(t, err)
	assert.True(t, model.IsDomain(err))
	assert.EqualError(t, err, "Cannot delete event with existing bookings")

	// The rejected delete must leave the event and its bookings untouched.
	got, err := eventSvc.GetEvent(ctx, booked.ID)
	require.NoError(t, err)
	require.Len(t, got.Bookings, 1)
	assert.Equal(t, booking.ID, got.Bookings[0].ID)
}

func TestDeleteEventNotFound(t *testing.T) {
	eventSvc, _ := newServices()

	err := eventSvc.DeleteEvent(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
