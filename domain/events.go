package domain

import "time"

type BookingEventType string

const (
	BookingCreated    BookingEventType = "BOOKING_CREATED"
	BookingCancelled  BookingEventType = "BOOKING_CANCELLED"
	BookingCheckedIn  BookingEventType = "BOOKING_CHECKED_IN"
	BookingCheckedOut BookingEventType = "BOOKING_CHECKED_OUT"
)

// BookingEvent is emitted by the reservation subsystem on every booking
// mutation.
type BookingEvent struct {
	Type     BookingEventType `json:"type" validate:"required"`
	HotelID  string           `json:"hotel_id" validate:"required"`
	RoomType string           `json:"room_type" validate:"required"`
	CheckIn  time.Time        `json:"check_in"`
	CheckOut time.Time        `json:"check_out"`
	Rooms    int              `json:"rooms"`
}

// RoomNights is the number of room-nights the booking occupies.
func (e BookingEvent) RoomNights() int {
	nights := int(e.CheckOut.Sub(e.CheckIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	rooms := e.Rooms
	if rooms < 1 {
		rooms = 1
	}
	return rooms * nights
}

type RuleEventType string

const (
	RuleCreated RuleEventType = "RULE_CREATED"
	RuleUpdated RuleEventType = "RULE_UPDATED"
	RuleDeleted RuleEventType = "RULE_DELETED"
)

// RuleEvent is emitted by the admin workflow when a pricing rule changes.
type RuleEvent struct {
	Type     RuleEventType `json:"type" validate:"required"`
	HotelID  string        `json:"hotel_id" validate:"required"`
	RoomType string        `json:"room_type" validate:"required"`
	Rule     *PricingRule  `json:"rule,omitempty"`
}

// HotelEvent is emitted when hotel master data is edited. Which caches it
// touches depends on the changed fields.
type HotelEvent struct {
	HotelID       string   `json:"hotel_id" validate:"required"`
	ChangedFields []string `json:"changed_fields"`
}

// searchVisibleFields are the hotel fields embedded in search listings.
var searchVisibleFields = map[string]bool{
	"name":      true,
	"city":      true,
	"amenities": true,
}

// TouchesSearchListings reports whether the edit changed a field that search
// result listings embed.
func (e HotelEvent) TouchesSearchListings() bool {
	for _, field := range e.ChangedFields {
		if searchVisibleFields[field] {
			return true
		}
	}
	return false
}
