package services

import (
	"context"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

// InvalidationRouter turns mutation events into the minimal sufficient set
// of cache-key patterns to clear, never a blanket flush. Patterns are
// enqueued synchronously before the mutation path reports success;
// execution is fire-and-forget.
type InvalidationRouter interface {
	OnBookingMutated(ctx context.Context, event domain.BookingEvent)
	OnRuleChanged(ctx context.Context, event domain.RuleEvent)
	OnHotelEdited(ctx context.Context, event domain.HotelEvent)
	Start()
	Stop()
}
