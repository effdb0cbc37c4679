package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/cache"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/repository"
)

type invalidationTask struct {
	reason   string
	patterns []string
	// after runs once the patterns are cleared, for piggybacked work such
	// as the incremental demand snapshot update.
	after func(ctx context.Context) error
}

type InvalidationRouterImpl struct {
	cache     *cache.CacheLayer
	demand    repository.DemandSnapshotStore
	inventory repository.InventoryStore
	notifier  NotificationService
	logger    *logrus.Logger
	Tracer    trace.Tracer
	now       func() time.Time

	queue   chan invalidationTask
	workers int
	pending sync.WaitGroup
	done    chan struct{}
	stopped sync.Once
}

func NewInvalidationRouterImpl(cacheLayer *cache.CacheLayer, demand repository.DemandSnapshotStore,
	inventory repository.InventoryStore, notifier NotificationService,
	queueSize, workers int, logger *logrus.Logger, tracer trace.Tracer, now func() time.Time) *InvalidationRouterImpl {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if workers <= 0 {
		workers = 4
	}
	if now == nil {
		now = time.Now
	}
	return &InvalidationRouterImpl{
		cache:     cacheLayer,
		demand:    demand,
		inventory: inventory,
		notifier:  notifier,
		logger:    logger,
		Tracer:    tracer,
		now:       now,
		queue:     make(chan invalidationTask, queueSize),
		workers:   workers,
		done:      make(chan struct{}),
	}
}

// Start launches the dispatch workers. They share no lock with the request
// path; two racing invalidations for the same key resolve last-write-wins
// on the cache, which the next read repopulates from source truth.
func (r *InvalidationRouterImpl) Start() {
	for i := 0; i < r.workers; i++ {
		go r.worker()
	}
}

func (r *InvalidationRouterImpl) Stop() {
	r.stopped.Do(func() {
		close(r.done)
		r.drain()
	})
}

// Wait blocks until every enqueued task has been executed or abandoned at
// shutdown.
func (r *InvalidationRouterImpl) Wait() {
	r.pending.Wait()
}

func (r *InvalidationRouterImpl) worker() {
	for {
		select {
		case <-r.done:
			r.drain()
			return
		case task := <-r.queue:
			r.execute(task)
		}
	}
}

// drain marks queued tasks done without executing them, so Wait never
// blocks on tasks the stopped workers will no longer pick up.
func (r *InvalidationRouterImpl) drain() {
	for {
		select {
		case <-r.queue:
			r.pending.Done()
		default:
			return
		}
	}
}

func (r *InvalidationRouterImpl) execute(task invalidationTask) {
	defer r.pending.Done()

	ctx, span := r.Tracer.Start(context.Background(), "InvalidationRouter.execute")
	defer span.End()

	cleared := 0
	for _, pattern := range task.patterns {
		cleared += r.cache.InvalidatePattern(ctx, pattern)
	}
	if task.after != nil {
		if err := task.after(ctx); err != nil {
			r.logger.WithFields(logrus.Fields{"path": "invalidation/execute", "reason": task.reason}).
				Error("post-invalidation update failed: ", err)
		}
	}
	r.logger.WithFields(logrus.Fields{"path": "invalidation/execute", "reason": task.reason, "cleared": cleared}).
		Debug("cache invalidation executed")
}

// enqueue never blocks the mutation path. A full queue is logged and the
// task dropped; the next scheduled recompute restores coherence.
func (r *InvalidationRouterImpl) enqueue(task invalidationTask) {
	select {
	case <-r.done:
		r.logger.WithFields(logrus.Fields{"path": "invalidation/enqueue", "reason": task.reason}).
			Warn("router stopped, dropping invalidation task")
		return
	default:
	}
	r.pending.Add(1)
	select {
	case r.queue <- task:
	default:
		r.pending.Done()
		r.logger.WithFields(logrus.Fields{"path": "invalidation/enqueue", "reason": task.reason}).
			Error("invalidation queue full, dropping task")
	}
}

func (r *InvalidationRouterImpl) OnBookingMutated(ctx context.Context, event domain.BookingEvent) {
	_, span := r.Tracer.Start(ctx, "InvalidationRouter.OnBookingMutated")
	defer span.End()

	deltaBookings := 0
	switch event.Type {
	case domain.BookingCreated:
		deltaBookings = 1
	case domain.BookingCancelled:
		deltaBookings = -1
	}
	deltaRoomNights := deltaBookings * event.RoomNights()

	r.enqueue(invalidationTask{
		reason: "booking " + string(event.Type),
		patterns: []string{
			cache.AvailabilityPatternForHotel(event.HotelID),
			cache.QuotePatternForHotel(event.HotelID),
		},
		after: func(ctx context.Context) error {
			if deltaBookings == 0 {
				return nil
			}
			if err := r.demand.ApplyDelta(ctx, event.HotelID, event.RoomType,
				deltaBookings, deltaRoomNights, r.capacityNights(ctx, event.HotelID, event.RoomType), r.now()); err != nil {
				return err
			}
			r.notifier.Publish(domain.TopicDemand, event.HotelID, map[string]interface{}{
				"hotel_id":  event.HotelID,
				"room_type": event.RoomType,
				"event":     string(event.Type),
			})
			r.notifier.Publish(domain.TopicAvailability, event.HotelID, map[string]interface{}{
				"hotel_id":  event.HotelID,
				"room_type": event.RoomType,
				"event":     string(event.Type),
			})
			return nil
		},
	})
}

func (r *InvalidationRouterImpl) OnRuleChanged(ctx context.Context, event domain.RuleEvent) {
	_, span := r.Tracer.Start(ctx, "InvalidationRouter.OnRuleChanged")
	defer span.End()

	r.enqueue(invalidationTask{
		reason: "rule " + string(event.Type),
		patterns: []string{
			cache.QuotePatternForRoomType(event.HotelID, event.RoomType),
			cache.AvailabilityPatternForHotel(event.HotelID),
			cache.RuleSummaryPattern(event.HotelID, event.RoomType),
		},
		after: func(ctx context.Context) error {
			r.notifier.Publish(domain.TopicPricing, event.HotelID, map[string]interface{}{
				"hotel_id":  event.HotelID,
				"room_type": event.RoomType,
				"event":     string(event.Type),
			})
			return nil
		},
	})
}

func (r *InvalidationRouterImpl) OnHotelEdited(ctx context.Context, event domain.HotelEvent) {
	_, span := r.Tracer.Start(ctx, "InvalidationRouter.OnHotelEdited")
	defer span.End()

	// Pricing caches stay untouched: editing a name or amenity list does
	// not change a price.
	patterns := []string{cache.HotelDetailPattern(event.HotelID)}
	if event.TouchesSearchListings() {
		patterns = append(patterns, cache.SearchPattern())
	}

	r.enqueue(invalidationTask{
		reason:   "hotel edited",
		patterns: patterns,
	})
}

// capacityNights approximates the hotel room type's room-night capacity
// over the demand window; zero when inventory cannot be read.
func (r *InvalidationRouterImpl) capacityNights(ctx context.Context, hotelID, roomType string) int {
	roomTypes, err := r.inventory.RoomTypes(ctx, hotelID)
	if err != nil {
		r.logger.WithFields(logrus.Fields{"path": "invalidation/capacity", "hotel_id": hotelID}).
			Warn("inventory unavailable for capacity estimate: ", err)
		return 0
	}
	for _, rt := range roomTypes {
		if rt.RoomType == roomType {
			return rt.TotalRooms * 30
		}
	}
	return 0
}
