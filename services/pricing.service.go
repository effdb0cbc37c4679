package services

import (
	"context"
	"time"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

type QuoteRequest struct {
	HotelID   string    `json:"hotel_id" validate:"required"`
	RoomType  string    `json:"room_type" validate:"required"`
	CheckIn   time.Time `json:"check_in" validate:"required"`
	CheckOut  time.Time `json:"check_out" validate:"required"`
	BasePrice float64   `json:"base_price" validate:"required,gt=0"`
	Rooms     int       `json:"rooms"`
	Currency  string    `json:"currency"`
}

// PricingService computes a room's live price from its base rate, the
// admin-entered pricing rules and real-time demand signals. It always
// returns some valid quote: upstream failures degrade the inputs, never
// the answer.
type PricingService interface {
	Quote(ctx context.Context, req QuoteRequest) (*domain.PriceQuote, error)
}
