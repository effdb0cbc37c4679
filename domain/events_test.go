package domain

import (
	"testing"
	"time"
)

func TestBookingEventRoomNights(t *testing.T) {
	checkIn := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event BookingEvent
		want  int
	}{
		{
			name:  "two rooms three nights",
			event: BookingEvent{CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 3), Rooms: 2},
			want:  6,
		},
		{
			name:  "zero rooms treated as one",
			event: BookingEvent{CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2)},
			want:  2,
		},
		{
			name:  "same-day stay counts one night",
			event: BookingEvent{CheckIn: checkIn, CheckOut: checkIn, Rooms: 1},
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.RoomNights(); got != tt.want {
				t.Errorf("RoomNights() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTouchesSearchListings(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   bool
	}{
		{"name change", []string{"name"}, true},
		{"city change", []string{"city"}, true},
		{"amenities change", []string{"amenities"}, true},
		{"description change", []string{"description"}, false},
		{"mixed change", []string{"description", "city"}, true},
		{"no fields", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := HotelEvent{HotelID: "hotel-1", ChangedFields: tt.fields}
			if got := event.TouchesSearchListings(); got != tt.want {
				t.Errorf("TouchesSearchListings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		base  float64
		want  float64
	}{
		{"within bounds", 120, 100, 120},
		{"above ceiling", 350, 100, 200},
		{"below floor", 20, 100, 50},
		{"rounds to cents", 123.4567, 200, 123.46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPrice(tt.price, tt.base); got != tt.want {
				t.Errorf("ClampPrice(%v, %v) = %v, want %v", tt.price, tt.base, got, tt.want)
			}
		})
	}
}
