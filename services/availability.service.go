package services

import (
	"context"
	"time"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

// AvailabilityService computes room-type availability with live prices for
// a stay. Results are cached at the per-date availability TTL tier.
type AvailabilityService interface {
	GetAvailability(ctx context.Context, hotelID string, checkIn, checkOut time.Time, currency string) (*domain.AvailabilityResult, error)
}
