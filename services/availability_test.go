package services

import (
	"context"
	"testing"
	"time"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/cache"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/repository"
)

func availabilityFixture() (*repository.MemoryBookingStore, *repository.MemoryInventoryStore, *cache.CacheLayer, AvailabilityService) {
	bookings := repository.NewMemoryBookingStore()
	inventory := repository.NewMemoryInventoryStore()
	inventory.SetRoomTypes("h1", []domain.RoomTypeInventory{
		{RoomType: "double", TotalRooms: 10, BasePrice: 100},
		{RoomType: "suite", TotalRooms: 2, BasePrice: 250},
	})

	cacheLayer := testCache()
	pricing := newPricing(repository.NewMemoryRuleStore(), repository.NewMemoryDemandStore(), fixedNow(quoteNow))
	availability := NewAvailabilityServiceImpl(bookings, inventory, pricing, cacheLayer,
		5*time.Minute, testLogger(), testTracer(), fixedNow(quoteNow))
	return bookings, inventory, cacheLayer, availability
}

func TestGetAvailabilityValidatesDates(t *testing.T) {
	_, _, _, availability := availabilityFixture()
	ctx := context.Background()

	checkIn := quoteNow.AddDate(0, 0, 5)

	if _, err := availability.GetAvailability(ctx, "h1", checkIn, checkIn, "EUR"); !domain.IsValidation(err) {
		t.Errorf("equal dates error = %v, want validation", err)
	}
	if _, err := availability.GetAvailability(ctx, "h1", checkIn, checkIn.AddDate(0, 0, -2), "EUR"); !domain.IsValidation(err) {
		t.Errorf("inverted dates error = %v, want validation", err)
	}
	past := quoteNow.AddDate(0, 0, -10)
	if _, err := availability.GetAvailability(ctx, "h1", past, past.AddDate(0, 0, 2), "EUR"); !domain.IsValidation(err) {
		t.Errorf("fully past range error = %v, want validation", err)
	}
}

func TestGetAvailabilityCountsBookedRooms(t *testing.T) {
	bookings, _, _, availability := availabilityFixture()
	ctx := context.Background()

	checkIn := quoteNow.AddDate(0, 0, 10)
	checkOut := checkIn.AddDate(0, 0, 3)

	// Three doubles overlap the stay; one other booking is outside it.
	bookings.AddBooking("h1", "double", 3, checkIn, checkOut, quoteNow)
	bookings.AddBooking("h1", "double", 2, checkOut, checkOut.AddDate(0, 0, 2), quoteNow)

	result, err := availability.GetAvailability(ctx, "h1", checkIn, checkOut, "EUR")
	if err != nil {
		t.Fatal(err)
	}

	double := result.PerRoomType["double"]
	if double.Available != 7 || double.Total != 10 {
		t.Errorf("double = %d/%d available, want 7/10", double.Available, double.Total)
	}
	suite := result.PerRoomType["suite"]
	if suite.Available != 2 {
		t.Errorf("suite available = %d, want 2", suite.Available)
	}
	if double.CurrentPrice <= 0 || suite.CurrentPrice <= 0 {
		t.Errorf("available room types must carry a price, got %v and %v", double.CurrentPrice, suite.CurrentPrice)
	}

	if result.Summary.TotalRooms != 12 || result.Summary.AvailableRooms != 9 {
		t.Errorf("summary = %d/%d, want 9/12", result.Summary.AvailableRooms, result.Summary.TotalRooms)
	}
	if result.Summary.MinPrice != double.CurrentPrice {
		t.Errorf("MinPrice = %v, want the double's %v", result.Summary.MinPrice, double.CurrentPrice)
	}
}

func TestGetAvailabilitySoldOutRoomTypeHasNoPrice(t *testing.T) {
	bookings, _, _, availability := availabilityFixture()
	ctx := context.Background()

	checkIn := quoteNow.AddDate(0, 0, 10)
	checkOut := checkIn.AddDate(0, 0, 2)
	bookings.AddBooking("h1", "suite", 2, checkIn, checkOut, quoteNow)

	result, err := availability.GetAvailability(ctx, "h1", checkIn, checkOut, "EUR")
	if err != nil {
		t.Fatal(err)
	}
	suite := result.PerRoomType["suite"]
	if suite.Available != 0 {
		t.Errorf("suite available = %d, want 0", suite.Available)
	}
	if suite.CurrentPrice != 0 {
		t.Errorf("sold-out room type got price %v", suite.CurrentPrice)
	}
}

func TestGetAvailabilityCachedUntilInvalidated(t *testing.T) {
	bookings, _, cacheLayer, availability := availabilityFixture()
	ctx := context.Background()

	checkIn := quoteNow.AddDate(0, 0, 10)
	checkOut := checkIn.AddDate(0, 0, 2)

	first, err := availability.GetAvailability(ctx, "h1", checkIn, checkOut, "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if first.PerRoomType["double"].Available != 10 {
		t.Fatalf("expected full availability, got %d", first.PerRoomType["double"].Available)
	}

	// New booking lands but the cache still answers until invalidation.
	bookings.AddBooking("h1", "double", 4, checkIn, checkOut, quoteNow)
	cached, err := availability.GetAvailability(ctx, "h1", checkIn, checkOut, "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if cached.PerRoomType["double"].Available != 10 {
		t.Errorf("cached availability = %d, want the stale 10", cached.PerRoomType["double"].Available)
	}

	cacheLayer.InvalidatePattern(ctx, cache.AvailabilityPatternForHotel("h1"))
	recomputed, err := availability.GetAvailability(ctx, "h1", checkIn, checkOut, "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if recomputed.PerRoomType["double"].Available != 6 {
		t.Errorf("recomputed availability = %d, want 6", recomputed.PerRoomType["double"].Available)
	}
}

func TestGetAvailabilityUnknownHotel(t *testing.T) {
	_, _, _, availability := availabilityFixture()
	ctx := context.Background()

	checkIn := quoteNow.AddDate(0, 0, 10)
	if _, err := availability.GetAvailability(ctx, "missing", checkIn, checkIn.AddDate(0, 0, 2), "EUR"); err == nil {
		t.Error("unknown hotel should surface an error")
	}
}
