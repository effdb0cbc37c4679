package domain

import "time"

// DemandSnapshot is a rolling window summary of booking velocity and
// occupancy for one hotel room type, used as a pricing input.
type DemandSnapshot struct {
	HotelID          string    `bson:"hotel_id" json:"hotel_id"`
	RoomType         string    `bson:"room_type" json:"room_type"`
	WindowStart      time.Time `bson:"window_start" json:"window_start"`
	WindowEnd        time.Time `bson:"window_end" json:"window_end"`
	BookingsInWindow int       `bson:"bookings_in_window" json:"bookings_in_window"`
	TotalRoomNights  int       `bson:"total_room_nights" json:"total_room_nights"`
	OccupancyRate    float64   `bson:"occupancy_rate" json:"occupancy_rate"`
	VelocityPerHour  float64   `bson:"velocity_per_hour" json:"velocity_per_hour"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// ClampOccupancy forces an occupancy rate into [0,100] regardless of what
// the booking counters produced.
func ClampOccupancy(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}

// StaleAt reports whether the snapshot is too old to trust as a demand
// signal. Stale snapshots are treated as unknown demand by the pricing path.
func (d *DemandSnapshot) StaleAt(now time.Time, maxAge time.Duration) bool {
	if d.UpdatedAt.IsZero() {
		return true
	}
	return now.Sub(d.UpdatedAt) > maxAge
}

// ApplyDelta applies an incremental booking mutation to the snapshot
// without rescanning the booking store. capacityNights is the hotel's total
// room-night capacity over the snapshot window; a zero capacity leaves the
// occupancy rate untouched.
func (d *DemandSnapshot) ApplyDelta(bookings, roomNights, capacityNights int, now time.Time) {
	d.BookingsInWindow += bookings
	if d.BookingsInWindow < 0 {
		d.BookingsInWindow = 0
	}
	d.TotalRoomNights += roomNights
	if d.TotalRoomNights < 0 {
		d.TotalRoomNights = 0
	}
	if capacityNights > 0 {
		d.OccupancyRate = ClampOccupancy(float64(d.TotalRoomNights) / float64(capacityNights) * 100)
	}
	if hours := d.WindowEnd.Sub(d.WindowStart).Hours(); hours > 0 {
		d.VelocityPerHour = float64(d.BookingsInWindow) / hours
	}
	d.UpdatedAt = now
}
