package events

import (
	"context"
	"testing"
	"time"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

func TestPublishBookingRunsHandlersSynchronously(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var order []string
	bus.SubscribeBooking(func(ctx context.Context, event domain.BookingEvent) {
		order = append(order, "first:"+string(event.Type))
	})
	bus.SubscribeBooking(func(ctx context.Context, event domain.BookingEvent) {
		order = append(order, "second")
	})

	bus.PublishBooking(ctx, domain.BookingEvent{Type: domain.BookingCreated, HotelID: "h1", RoomType: "double"})

	// Synchronous dispatch: both handlers have run when Publish returns.
	if len(order) != 2 || order[0] != "first:BOOKING_CREATED" || order[1] != "second" {
		t.Errorf("handler order = %v", order)
	}
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	bus.PublishBooking(ctx, domain.BookingEvent{Type: domain.BookingCreated})
	bus.PublishRule(ctx, domain.RuleEvent{Type: domain.RuleDeleted})
	bus.PublishHotel(ctx, domain.HotelEvent{HotelID: "h1"})
}

func TestHandlersSeeEventPayload(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	checkIn := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)

	var gotRule domain.RuleEvent
	bus.SubscribeRule(func(ctx context.Context, event domain.RuleEvent) { gotRule = event })
	var gotHotel domain.HotelEvent
	bus.SubscribeHotel(func(ctx context.Context, event domain.HotelEvent) { gotHotel = event })
	var gotBooking domain.BookingEvent
	bus.SubscribeBooking(func(ctx context.Context, event domain.BookingEvent) { gotBooking = event })

	bus.PublishRule(ctx, domain.RuleEvent{Type: domain.RuleCreated, HotelID: "h1", RoomType: "suite"})
	bus.PublishHotel(ctx, domain.HotelEvent{HotelID: "h2", ChangedFields: []string{"city"}})
	bus.PublishBooking(ctx, domain.BookingEvent{Type: domain.BookingCancelled, HotelID: "h3", CheckIn: checkIn})

	if gotRule.HotelID != "h1" || gotRule.RoomType != "suite" {
		t.Errorf("rule event = %+v", gotRule)
	}
	if gotHotel.HotelID != "h2" || len(gotHotel.ChangedFields) != 1 {
		t.Errorf("hotel event = %+v", gotHotel)
	}
	if gotBooking.HotelID != "h3" || !gotBooking.CheckIn.Equal(checkIn) {
		t.Errorf("booking event = %+v", gotBooking)
	}
}
