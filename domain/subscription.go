package domain

import (
	"encoding/json"
	"io"
	"time"
)

type Topic string

const (
	TopicPricing      Topic = "PRICING"
	TopicAvailability Topic = "AVAILABILITY"
	TopicDemand       Topic = "DEMAND"
	TopicRevenue      Topic = "REVENUE"
)

// ScopeGlobal subscribes to events for every hotel.
const ScopeGlobal = ""

// Subscription expires automatically; the bus drops expired subscriptions
// lazily on the next dispatch.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriber_id"`
	Topic        Topic     `json:"topic"`
	Scope        string    `json:"scope"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *Subscription) ExpiredAt(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Notification is a derived event fanned out to subscribers. Delivery is
// at-most-once; a disconnected subscriber can always re-fetch current state.
type Notification struct {
	Topic       Topic       `json:"topic"`
	Scope       string      `json:"scope"`
	Payload     interface{} `json:"payload"`
	PublishedAt time.Time   `json:"published_at"`
}

func (o *Notification) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}
