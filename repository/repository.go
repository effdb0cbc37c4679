package repository

import (
	"context"
	"time"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

// RuleStore holds seasonal/occupancy pricing rules per hotel and room type.
// The pricing engine only reads; the admin event path writes through.
type RuleStore interface {
	// ActiveRules returns active rules for the hotel+roomType whose
	// validity window overlaps [from, to).
	ActiveRules(ctx context.Context, hotelID, roomType string, from, to time.Time) ([]*domain.PricingRule, error)
	Insert(ctx context.Context, rule *domain.PricingRule) error
	Update(ctx context.Context, rule *domain.PricingRule) error
	Delete(ctx context.Context, id string) error
}

// DemandSnapshotStore keeps rolling occupancy/booking-velocity counters per
// hotel room type.
type DemandSnapshotStore interface {
	Get(ctx context.Context, hotelID, roomType string) (*domain.DemandSnapshot, error)
	Upsert(ctx context.Context, snapshot *domain.DemandSnapshot) error
	// ApplyDelta performs the incremental update used on booking hot paths
	// instead of a full rescan.
	ApplyDelta(ctx context.Context, hotelID, roomType string, bookings, roomNights, capacityNights int, now time.Time) error
	List(ctx context.Context) ([]*domain.DemandSnapshot, error)
}

// BookingStore reads booking facts from the reservation subsystem's store.
type BookingStore interface {
	// CountBookedRooms counts rooms of the given type booked for any night
	// overlapping [checkIn, checkOut).
	CountBookedRooms(ctx context.Context, hotelID, roomType string, checkIn, checkOut time.Time) (int, error)
	// BookingsInWindow returns the number of bookings and the booked
	// room-nights inside the window, for demand analysis.
	BookingsInWindow(ctx context.Context, hotelID, roomType string, from, to time.Time) (bookings int, roomNights int, err error)
}

// InventoryStore exposes the hotel room-type stock and base rates this core
// prices against.
type InventoryStore interface {
	RoomTypes(ctx context.Context, hotelID string) ([]domain.RoomTypeInventory, error)
	HotelIDs(ctx context.Context) ([]string, error)
}
