package domain

import (
	"testing"
	"time"
)

func TestClampOccupancy(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-10, 0},
		{0, 0},
		{55.5, 55.5},
		{100, 100},
		{140, 100},
	}
	for _, tt := range tests {
		if got := ClampOccupancy(tt.in); got != tt.want {
			t.Errorf("ClampOccupancy(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStaleAt(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	maxAge := time.Hour

	fresh := DemandSnapshot{UpdatedAt: now.Add(-30 * time.Minute)}
	if fresh.StaleAt(now, maxAge) {
		t.Error("snapshot updated 30m ago should not be stale at 1h max age")
	}

	old := DemandSnapshot{UpdatedAt: now.Add(-2 * time.Hour)}
	if !old.StaleAt(now, maxAge) {
		t.Error("snapshot updated 2h ago should be stale at 1h max age")
	}

	var never DemandSnapshot
	if !never.StaleAt(now, maxAge) {
		t.Error("snapshot never updated should be stale")
	}
}

func TestApplyDelta(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	snapshot := DemandSnapshot{
		HotelID:          "hotel-1",
		RoomType:         "double",
		WindowStart:      now.AddDate(0, 0, -30),
		WindowEnd:        now,
		BookingsInWindow: 10,
		TotalRoomNights:  60,
	}

	snapshot.ApplyDelta(1, 6, 300, now)
	if snapshot.BookingsInWindow != 11 {
		t.Errorf("BookingsInWindow = %d, want 11", snapshot.BookingsInWindow)
	}
	if snapshot.TotalRoomNights != 66 {
		t.Errorf("TotalRoomNights = %d, want 66", snapshot.TotalRoomNights)
	}
	if got, want := snapshot.OccupancyRate, 22.0; got != want {
		t.Errorf("OccupancyRate = %v, want %v", got, want)
	}
	if !snapshot.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", snapshot.UpdatedAt, now)
	}

	// A cancellation reverses the delta.
	snapshot.ApplyDelta(-1, -6, 300, now)
	if snapshot.BookingsInWindow != 10 || snapshot.TotalRoomNights != 60 {
		t.Errorf("after cancellation got %d bookings, %d room-nights, want 10, 60",
			snapshot.BookingsInWindow, snapshot.TotalRoomNights)
	}

	// Counters never go negative.
	snapshot.ApplyDelta(-100, -1000, 300, now)
	if snapshot.BookingsInWindow != 0 || snapshot.TotalRoomNights != 0 {
		t.Errorf("counters went negative: %d bookings, %d room-nights",
			snapshot.BookingsInWindow, snapshot.TotalRoomNights)
	}

	// Zero capacity leaves the previous occupancy untouched.
	before := snapshot.OccupancyRate
	snapshot.ApplyDelta(1, 3, 0, now)
	if snapshot.OccupancyRate != before {
		t.Errorf("OccupancyRate changed with zero capacity: %v", snapshot.OccupancyRate)
	}
}
