package domain

import (
	"encoding/json"
	"io"
	"math"
	"time"
)

// Hard safety bounds applied to every quote after all rules and
// multipliers, independent of any individual rule's own bound.
const (
	MinPriceFactor = 0.5
	MaxPriceFactor = 2.0
)

// PriceQuote is immutable once produced. A cached quote older than its TTL
// is never returned; it is recomputed.
type PriceQuote struct {
	HotelID           string    `bson:"hotel_id" json:"hotel_id"`
	RoomType          string    `bson:"room_type" json:"room_type"`
	CheckIn           time.Time `bson:"check_in" json:"check_in"`
	CheckOut          time.Time `bson:"check_out" json:"check_out"`
	Currency          string    `bson:"currency" json:"currency"`
	BasePrice         float64   `bson:"base_price" json:"base_price"`
	AppliedRules      []string  `bson:"applied_rules" json:"applied_rules"`
	DynamicMultiplier float64   `bson:"dynamic_multiplier" json:"dynamic_multiplier"`
	FinalPrice        float64   `bson:"final_price" json:"final_price"`
	ComputedAt        time.Time `bson:"computed_at" json:"computed_at"`
}

// ClampPrice applies the hard safety clamp around the base price and rounds
// to cents.
func ClampPrice(price, basePrice float64) float64 {
	if price < MinPriceFactor*basePrice {
		price = MinPriceFactor * basePrice
	}
	if price > MaxPriceFactor*basePrice {
		price = MaxPriceFactor * basePrice
	}
	return RoundCents(price)
}

func RoundCents(price float64) float64 {
	return math.Round(price*100) / 100
}

func (o *PriceQuote) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}

func (o *PriceQuote) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(o)
}

// RoomTypeAvailability is one room type's slice of an availability answer.
type RoomTypeAvailability struct {
	Available    int     `json:"available"`
	Total        int     `json:"total"`
	CurrentPrice float64 `json:"current_price"`
	Currency     string  `json:"currency"`
}

type AvailabilitySummary struct {
	TotalRooms     int     `json:"total_rooms"`
	AvailableRooms int     `json:"available_rooms"`
	MinPrice       float64 `json:"min_price"`
}

type AvailabilityResult struct {
	HotelID     string                          `json:"hotel_id"`
	CheckIn     time.Time                       `json:"check_in"`
	CheckOut    time.Time                       `json:"check_out"`
	Currency    string                          `json:"currency"`
	PerRoomType map[string]RoomTypeAvailability `json:"per_room_type"`
	Summary     AvailabilitySummary             `json:"summary"`
	ComputedAt  time.Time                       `json:"computed_at"`
}

// RoomTypeInventory is a hotel's room-type stock with its base nightly rate.
type RoomTypeInventory struct {
	RoomType   string  `bson:"room_type" json:"room_type"`
	TotalRooms int     `bson:"total_rooms" json:"total_rooms"`
	BasePrice  float64 `bson:"base_price" json:"base_price"`
}
