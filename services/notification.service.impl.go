package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

const subscriberBufferSize = 16

type busSubscriber struct {
	subscription domain.Subscription
	channel      chan domain.Notification
}

type NotificationServiceImpl struct {
	mu          sync.RWMutex
	subscribers map[string]*busSubscriber
	logger      *logrus.Logger
	now         func() time.Time
}

func NewNotificationServiceImpl(logger *logrus.Logger, now func() time.Time) *NotificationServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &NotificationServiceImpl{
		subscribers: make(map[string]*busSubscriber),
		logger:      logger,
		now:         now,
	}
}

func (s *NotificationServiceImpl) Subscribe(subscriberID string, topic domain.Topic, scope string, ttl time.Duration) (*domain.Subscription, <-chan domain.Notification, error) {
	switch topic {
	case domain.TopicPricing, domain.TopicAvailability, domain.TopicDemand, domain.TopicRevenue:
	default:
		return nil, nil, domain.ValidationError{Message: "unknown subscription topic"}
	}
	if subscriberID == "" {
		return nil, nil, domain.ValidationError{Message: "subscriber id is required"}
	}

	subscription := domain.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: subscriberID,
		Topic:        topic,
		Scope:        scope,
	}
	if ttl > 0 {
		subscription.ExpiresAt = s.now().Add(ttl)
	}

	subscriber := &busSubscriber{
		subscription: subscription,
		channel:      make(chan domain.Notification, subscriberBufferSize),
	}

	s.mu.Lock()
	s.subscribers[subscription.ID] = subscriber
	s.mu.Unlock()

	return &subscription, subscriber.channel, nil
}

func (s *NotificationServiceImpl) Unsubscribe(subscriptionID string) {
	s.mu.Lock()
	if subscriber, ok := s.subscribers[subscriptionID]; ok {
		close(subscriber.channel)
		delete(s.subscribers, subscriptionID)
	}
	s.mu.Unlock()
}

func (s *NotificationServiceImpl) Channel(subscriptionID string) (<-chan domain.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subscriber, ok := s.subscribers[subscriptionID]
	if !ok {
		return nil, false
	}
	return subscriber.channel, true
}

// Publish dispatches to every matching live subscription. Expired
// subscriptions are dropped lazily here; a full subscriber buffer means the
// event is dropped for that subscriber.
func (s *NotificationServiceImpl) Publish(topic domain.Topic, scope string, payload interface{}) {
	notification := domain.Notification{
		Topic:       topic,
		Scope:       scope,
		Payload:     payload,
		PublishedAt: s.now(),
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, subscriber := range s.subscribers {
		if subscriber.subscription.ExpiredAt(now) {
			close(subscriber.channel)
			delete(s.subscribers, id)
			continue
		}
		if subscriber.subscription.Topic != topic {
			continue
		}
		if subscriber.subscription.Scope != domain.ScopeGlobal && subscriber.subscription.Scope != scope {
			continue
		}
		select {
		case subscriber.channel <- notification:
		default:
			s.logger.WithFields(logrus.Fields{"path": "notification/publish", "subscription_id": id}).
				Debug("subscriber buffer full, dropping notification")
		}
	}
}

// SubscriberCount is used by the operational surface and tests.
func (s *NotificationServiceImpl) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}
