package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/cache"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/repository"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/services"
)

var jobNow = time.Date(2026, 8, 5, 12, 0, 0, 0, time.UTC)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDemandAnalysisJobRecomputesSnapshots(t *testing.T) {
	demand := repository.NewMemoryDemandStore()
	bookings := repository.NewMemoryBookingStore()
	inventory := repository.NewMemoryInventoryStore()
	inventory.SetRoomTypes("h1", []domain.RoomTypeInventory{
		{RoomType: "double", TotalRooms: 10, BasePrice: 100},
	})

	// Two bookings created inside the window, one before it.
	checkIn := jobNow.AddDate(0, 0, 10)
	bookings.AddBooking("h1", "double", 2, checkIn, checkIn.AddDate(0, 0, 3), jobNow.AddDate(0, 0, -5))
	bookings.AddBooking("h1", "double", 1, checkIn, checkIn.AddDate(0, 0, 2), jobNow.AddDate(0, 0, -1))
	bookings.AddBooking("h1", "double", 4, checkIn, checkIn.AddDate(0, 0, 1), jobNow.AddDate(0, 0, -60))

	job := DemandAnalysisJob(demand, bookings, inventory, 30*24*time.Hour, fixedNow(jobNow))
	if err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	snapshot, err := demand.Get(context.Background(), "h1", "double")
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.BookingsInWindow != 2 {
		t.Errorf("BookingsInWindow = %d, want 2", snapshot.BookingsInWindow)
	}
	// 2 rooms * 3 nights + 1 room * 2 nights.
	if snapshot.TotalRoomNights != 8 {
		t.Errorf("TotalRoomNights = %d, want 8", snapshot.TotalRoomNights)
	}
	// 8 room-nights over a 10-room, 30-day capacity.
	wantOccupancy := domain.ClampOccupancy(8.0 / 300.0 * 100)
	if snapshot.OccupancyRate != wantOccupancy {
		t.Errorf("OccupancyRate = %v, want %v", snapshot.OccupancyRate, wantOccupancy)
	}
	if !snapshot.UpdatedAt.Equal(jobNow) {
		t.Errorf("UpdatedAt = %v, want %v", snapshot.UpdatedAt, jobNow)
	}
}

func TestOccupancyAnalysisJobFlagsHotHotels(t *testing.T) {
	demand := repository.NewMemoryDemandStore()
	ctx := context.Background()
	hot := &domain.DemandSnapshot{HotelID: "h1", RoomType: "double", OccupancyRate: 95, UpdatedAt: jobNow}
	cool := &domain.DemandSnapshot{HotelID: "h2", RoomType: "double", OccupancyRate: 50, UpdatedAt: jobNow}
	if err := demand.Upsert(ctx, hot); err != nil {
		t.Fatal(err)
	}
	if err := demand.Upsert(ctx, cool); err != nil {
		t.Fatal(err)
	}

	notifier := services.NewNotificationServiceImpl(testLogger(), fixedNow(jobNow))
	_, channel, err := notifier.Subscribe("dash", domain.TopicDemand, domain.ScopeGlobal, 0)
	if err != nil {
		t.Fatal(err)
	}

	job := OccupancyAnalysisJob(demand, notifier)
	if err := job.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if len(channel) != 1 {
		t.Fatalf("got %d alerts, want 1", len(channel))
	}
	notification := <-channel
	if notification.Scope != "h1" {
		t.Errorf("alert scope = %s, want h1", notification.Scope)
	}
}

func TestRevenueOptimizationJobSuggestsBothDirections(t *testing.T) {
	demand := repository.NewMemoryDemandStore()
	ctx := context.Background()
	for _, snapshot := range []*domain.DemandSnapshot{
		{HotelID: "hot", RoomType: "double", OccupancyRate: 95, UpdatedAt: jobNow},
		{HotelID: "cold", RoomType: "double", OccupancyRate: 20, UpdatedAt: jobNow},
		{HotelID: "steady", RoomType: "double", OccupancyRate: 60, UpdatedAt: jobNow},
	} {
		if err := demand.Upsert(ctx, snapshot); err != nil {
			t.Fatal(err)
		}
	}

	notifier := services.NewNotificationServiceImpl(testLogger(), fixedNow(jobNow))
	_, channel, err := notifier.Subscribe("dash", domain.TopicRevenue, domain.ScopeGlobal, 0)
	if err != nil {
		t.Fatal(err)
	}

	job := RevenueOptimizationJob(demand, notifier)
	if err := job.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if len(channel) != 2 {
		t.Errorf("got %d suggestions, want 2 (hot and cold, not steady)", len(channel))
	}
}

func TestPerformanceMonitoringJobStoresSample(t *testing.T) {
	store := cache.NewMemoryStore(nil)
	cacheLayer := cache.New(store, 0, 0, testLogger(), testTracer())
	ctx := context.Background()

	cacheLayer.Set(ctx, "k", "v", time.Hour)
	cacheLayer.Get(ctx, "k")
	cacheLayer.Get(ctx, "missing")

	job := PerformanceMonitoringJob(cacheLayer, 30*time.Second, testLogger())
	if err := job.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if _, hit := cacheLayer.Get(ctx, cache.MetricsKey("cache-stats")); !hit {
		t.Error("metrics sample not stored")
	}
}

func TestReportJobsPublishGlobalSummary(t *testing.T) {
	demand := repository.NewMemoryDemandStore()
	ctx := context.Background()
	if err := demand.Upsert(ctx, &domain.DemandSnapshot{
		HotelID: "h1", RoomType: "double", BookingsInWindow: 12, OccupancyRate: 80, UpdatedAt: jobNow,
	}); err != nil {
		t.Fatal(err)
	}

	notifier := services.NewNotificationServiceImpl(testLogger(), fixedNow(jobNow))
	_, channel, err := notifier.Subscribe("dash", domain.TopicRevenue, domain.ScopeGlobal, 0)
	if err != nil {
		t.Fatal(err)
	}

	daily := DailyReportJob(demand, notifier, fixedNow(jobNow))
	if daily.Spec != "0 6 * * *" {
		t.Errorf("daily spec = %q", daily.Spec)
	}
	if err := daily.Run(ctx); err != nil {
		t.Fatal(err)
	}

	weekly := WeeklyReportJob(demand, notifier, fixedNow(jobNow))
	if weekly.Spec != "0 7 * * 1" {
		t.Errorf("weekly spec = %q", weekly.Spec)
	}
	if err := weekly.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if len(channel) != 2 {
		t.Errorf("got %d reports, want 2", len(channel))
	}
	report := <-channel
	if report.Scope != domain.ScopeGlobal {
		t.Errorf("report scope = %q, want global", report.Scope)
	}
}
