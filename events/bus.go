// Package events carries the mutation events this core consumes from the
// booking and admin subsystems. Publication is synchronous: when Publish
// returns, every registered handler has run, so a handler that enqueues
// cache invalidations has done so before the mutation path reports success.
package events

import (
	"context"
	"sync"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

type BookingHandler func(ctx context.Context, event domain.BookingEvent)
type RuleHandler func(ctx context.Context, event domain.RuleEvent)
type HotelHandler func(ctx context.Context, event domain.HotelEvent)

type Bus struct {
	mu              sync.RWMutex
	bookingHandlers []BookingHandler
	ruleHandlers    []RuleHandler
	hotelHandlers   []HotelHandler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SubscribeBooking(handler BookingHandler) {
	b.mu.Lock()
	b.bookingHandlers = append(b.bookingHandlers, handler)
	b.mu.Unlock()
}

func (b *Bus) SubscribeRule(handler RuleHandler) {
	b.mu.Lock()
	b.ruleHandlers = append(b.ruleHandlers, handler)
	b.mu.Unlock()
}

func (b *Bus) SubscribeHotel(handler HotelHandler) {
	b.mu.Lock()
	b.hotelHandlers = append(b.hotelHandlers, handler)
	b.mu.Unlock()
}

func (b *Bus) PublishBooking(ctx context.Context, event domain.BookingEvent) {
	b.mu.RLock()
	handlers := append([]BookingHandler(nil), b.bookingHandlers...)
	b.mu.RUnlock()
	for _, handler := range handlers {
		handler(ctx, event)
	}
}

func (b *Bus) PublishRule(ctx context.Context, event domain.RuleEvent) {
	b.mu.RLock()
	handlers := append([]RuleHandler(nil), b.ruleHandlers...)
	b.mu.RUnlock()
	for _, handler := range handlers {
		handler(ctx, event)
	}
}

func (b *Bus) PublishHotel(ctx context.Context, event domain.HotelEvent) {
	b.mu.RLock()
	handlers := append([]HotelHandler(nil), b.hotelHandlers...)
	b.mu.RUnlock()
	for _, handler := range handlers {
		handler(ctx, event)
	}
}
