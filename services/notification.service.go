package services

import (
	"time"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

// NotificationService fans derived pricing/availability/demand/revenue
// events out to interested subscribers. Delivery is at-most-once and
// best-effort: a disconnected subscriber simply misses events and can
// re-fetch current state.
type NotificationService interface {
	Subscribe(subscriberID string, topic domain.Topic, scope string, ttl time.Duration) (*domain.Subscription, <-chan domain.Notification, error)
	Unsubscribe(subscriptionID string)
	Channel(subscriptionID string) (<-chan domain.Notification, bool)
	Publish(topic domain.Topic, scope string, payload interface{})
}
