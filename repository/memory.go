package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

// In-memory store implementations backing tests and local runs without
// Mongo or Cassandra.

type MemoryRuleStore struct {
	mu    sync.RWMutex
	rules map[string]*domain.PricingRule
}

func NewMemoryRuleStore() *MemoryRuleStore {
	return &MemoryRuleStore{rules: make(map[string]*domain.PricingRule)}
}

func (s *MemoryRuleStore) ActiveRules(ctx context.Context, hotelID, roomType string, from, to time.Time) ([]*domain.PricingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.PricingRule
	for _, rule := range s.rules {
		if rule.HotelID != hotelID || rule.RoomType != roomType || !rule.IsActive {
			continue
		}
		if !rule.OverlapsWindow(from, to) {
			continue
		}
		copied := *rule
		matched = append(matched, &copied)
	}
	return matched, nil
}

func (s *MemoryRuleStore) Insert(ctx context.Context, rule *domain.PricingRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rule.ID.IsZero() {
		rule.ID = primitive.NewObjectID()
	}
	copied := *rule
	s.rules[rule.ID.Hex()] = &copied
	return nil
}

func (s *MemoryRuleStore) Update(ctx context.Context, rule *domain.PricingRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[rule.ID.Hex()]; !ok {
		return domain.ErrRuleNotFound()
	}
	copied := *rule
	s.rules[rule.ID.Hex()] = &copied
	return nil
}

func (s *MemoryRuleStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return domain.ErrRuleNotFound()
	}
	delete(s.rules, id)
	return nil
}

type demandKey struct {
	hotelID  string
	roomType string
}

type MemoryDemandStore struct {
	mu        sync.RWMutex
	snapshots map[demandKey]*domain.DemandSnapshot
}

func NewMemoryDemandStore() *MemoryDemandStore {
	return &MemoryDemandStore{snapshots: make(map[demandKey]*domain.DemandSnapshot)}
}

func (s *MemoryDemandStore) Get(ctx context.Context, hotelID, roomType string) (*domain.DemandSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[demandKey{hotelID, roomType}]
	if !ok {
		return nil, domain.ErrSnapshotNotFound()
	}
	copied := *snapshot
	return &copied, nil
}

func (s *MemoryDemandStore) Upsert(ctx context.Context, snapshot *domain.DemandSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot.OccupancyRate = domain.ClampOccupancy(snapshot.OccupancyRate)
	copied := *snapshot
	s.snapshots[demandKey{snapshot.HotelID, snapshot.RoomType}] = &copied
	return nil
}

func (s *MemoryDemandStore) ApplyDelta(ctx context.Context, hotelID, roomType string, bookings, roomNights, capacityNights int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := demandKey{hotelID, roomType}
	snapshot, ok := s.snapshots[key]
	if !ok {
		snapshot = &domain.DemandSnapshot{
			HotelID:     hotelID,
			RoomType:    roomType,
			WindowStart: now.AddDate(0, 0, -30),
			WindowEnd:   now,
		}
		s.snapshots[key] = snapshot
	}
	snapshot.ApplyDelta(bookings, roomNights, capacityNights, now)
	return nil
}

func (s *MemoryDemandStore) List(ctx context.Context) ([]*domain.DemandSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshots := make([]*domain.DemandSnapshot, 0, len(s.snapshots))
	for _, snapshot := range s.snapshots {
		copied := *snapshot
		snapshots = append(snapshots, &copied)
	}
	return snapshots, nil
}

type memoryBooking struct {
	hotelID   string
	roomType  string
	rooms     int
	checkIn   time.Time
	checkOut  time.Time
	createdAt time.Time
	cancelled bool
}

type MemoryBookingStore struct {
	mu       sync.RWMutex
	bookings []memoryBooking
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{}
}

func (s *MemoryBookingStore) AddBooking(hotelID, roomType string, rooms int, checkIn, checkOut, createdAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append(s.bookings, memoryBooking{
		hotelID:   hotelID,
		roomType:  roomType,
		rooms:     rooms,
		checkIn:   checkIn,
		checkOut:  checkOut,
		createdAt: createdAt,
	})
}

func (s *MemoryBookingStore) CountBookedRooms(ctx context.Context, hotelID, roomType string, checkIn, checkOut time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	booked := 0
	for _, b := range s.bookings {
		if b.cancelled || b.hotelID != hotelID || b.roomType != roomType {
			continue
		}
		if b.checkIn.Before(checkOut) && b.checkOut.After(checkIn) {
			booked += b.rooms
		}
	}
	return booked, nil
}

func (s *MemoryBookingStore) BookingsInWindow(ctx context.Context, hotelID, roomType string, from, to time.Time) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bookings := 0
	roomNights := 0
	for _, b := range s.bookings {
		if b.cancelled || b.hotelID != hotelID || b.roomType != roomType {
			continue
		}
		if b.createdAt.Before(from) || !b.createdAt.Before(to) {
			continue
		}
		bookings++
		nights := int(b.checkOut.Sub(b.checkIn).Hours() / 24)
		if nights < 1 {
			nights = 1
		}
		roomNights += b.rooms * nights
	}
	return bookings, roomNights, nil
}

type MemoryInventoryStore struct {
	mu     sync.RWMutex
	hotels map[string][]domain.RoomTypeInventory
}

func NewMemoryInventoryStore() *MemoryInventoryStore {
	return &MemoryInventoryStore{hotels: make(map[string][]domain.RoomTypeInventory)}
}

func (s *MemoryInventoryStore) SetRoomTypes(hotelID string, roomTypes []domain.RoomTypeInventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotels[hotelID] = append([]domain.RoomTypeInventory(nil), roomTypes...)
}

func (s *MemoryInventoryStore) RoomTypes(ctx context.Context, hotelID string) ([]domain.RoomTypeInventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roomTypes, ok := s.hotels[hotelID]
	if !ok {
		return nil, domain.ErrHotelNotFound()
	}
	return append([]domain.RoomTypeInventory(nil), roomTypes...), nil
}

func (s *MemoryInventoryStore) HotelIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.hotels))
	for id := range s.hotels {
		ids = append(ids, id)
	}
	return ids, nil
}
