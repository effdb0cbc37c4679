package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/cache"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/repository"
)

type AvailabilityServiceImpl struct {
	bookings  repository.BookingStore
	inventory repository.InventoryStore
	pricing   PricingService
	cache     *cache.CacheLayer
	availTTL  time.Duration
	logger    *logrus.Logger
	Tracer    trace.Tracer
	now       func() time.Time
}

func NewAvailabilityServiceImpl(bookings repository.BookingStore, inventory repository.InventoryStore,
	pricing PricingService, cacheLayer *cache.CacheLayer, availTTL time.Duration,
	logger *logrus.Logger, tracer trace.Tracer, now func() time.Time) AvailabilityService {
	if now == nil {
		now = time.Now
	}
	return &AvailabilityServiceImpl{
		bookings:  bookings,
		inventory: inventory,
		pricing:   pricing,
		cache:     cacheLayer,
		availTTL:  availTTL,
		logger:    logger,
		Tracer:    tracer,
		now:       now,
	}
}

func (s *AvailabilityServiceImpl) GetAvailability(ctx context.Context, hotelID string, checkIn, checkOut time.Time, currency string) (*domain.AvailabilityResult, error) {
	ctx, span := s.Tracer.Start(ctx, "AvailabilityService.GetAvailability")
	defer span.End()

	// A nonsensical or fully-past range is a validation error, not a
	// zero-availability success.
	if !checkOut.After(checkIn) || checkOut.Before(s.now()) {
		span.SetStatus(codes.Error, "invalid date range")
		return nil, domain.ErrInvalidDateRange()
	}
	if currency == "" {
		currency = "EUR"
	}

	key := cache.AvailabilityKey(hotelID, map[string]string{
		"check_in":  checkIn.Format("2006-01-02"),
		"check_out": checkOut.Format("2006-01-02"),
		"currency":  currency,
	})
	if cached, hit := s.cache.Get(ctx, key); hit {
		var result domain.AvailabilityResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
		s.logger.WithFields(logrus.Fields{"path": "availability/get", "key": key}).Warn("dropping undecodable cached availability")
	}

	roomTypes, err := s.inventory.RoomTypes(ctx, hotelID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := &domain.AvailabilityResult{
		HotelID:     hotelID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Currency:    currency,
		PerRoomType: make(map[string]domain.RoomTypeAvailability, len(roomTypes)),
		ComputedAt:  s.now(),
	}

	for _, roomType := range roomTypes {
		booked, err := s.bookings.CountBookedRooms(ctx, hotelID, roomType.RoomType, checkIn, checkOut)
		if err != nil {
			// The booking store is advisory here; the reservation path is
			// what actually enforces room limits.
			s.logger.WithFields(logrus.Fields{"path": "availability/get", "hotel_id": hotelID, "room_type": roomType.RoomType}).
				Warn(domain.UpstreamUnavailableError{Upstream: "booking store", Err: err}.Error())
			booked = 0
		}

		available := roomType.TotalRooms - booked
		if available < 0 {
			available = 0
		}

		entry := domain.RoomTypeAvailability{
			Available: available,
			Total:     roomType.TotalRooms,
			Currency:  currency,
		}

		if available > 0 {
			quote, err := s.pricing.Quote(ctx, QuoteRequest{
				HotelID:   hotelID,
				RoomType:  roomType.RoomType,
				CheckIn:   checkIn,
				CheckOut:  checkOut,
				BasePrice: roomType.BasePrice,
				Rooms:     1,
				Currency:  currency,
			})
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			entry.CurrentPrice = quote.FinalPrice
		}

		result.PerRoomType[roomType.RoomType] = entry

		result.Summary.TotalRooms += entry.Total
		result.Summary.AvailableRooms += entry.Available
		if entry.Available > 0 && (result.Summary.MinPrice == 0 || entry.CurrentPrice < result.Summary.MinPrice) {
			result.Summary.MinPrice = entry.CurrentPrice
		}
	}

	if payload, err := json.Marshal(result); err == nil {
		s.cache.Set(ctx, key, string(payload), s.availTTL)
	}

	return result, nil
}
