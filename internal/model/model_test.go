package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventIsPast(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		date time.Time
		past bool
	}{
		{"yesterday", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"today at midnight", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"today earlier than now", time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), false},
		{"tomorrow", time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), false},
		{"last year", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{Date: tt.date}
			assert.Equal(t, tt.past, e.IsPast(now))
		})
	}
}

func TestEventRemaining(t *testing.T) {
	e := &Event{Capacity: 10}

	assert.Equal(t, 10, e.Remaining(0))
	assert.Equal(t, 3, e.Remaining(7))
	assert.Equal(t, 0, e.Remaining(10))
	// Overbooked state cannot be produced through admission, but a shrunken
	// capacity after an update can leave the sum above it; clamp to zero.
	assert.Equal(t, 0, e.Remaining(15))
}
