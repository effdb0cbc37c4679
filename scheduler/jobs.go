package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/cache"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/repository"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/services"
)

// DemandAnalysisJob recomputes every demand snapshot from the booking store.
// The full rescan corrects any drift the incremental hot-path deltas
// accumulated.
func DemandAnalysisJob(demand repository.DemandSnapshotStore, bookings repository.BookingStore,
	inventory repository.InventoryStore, window time.Duration, now func() time.Time) Job {
	if now == nil {
		now = time.Now
	}
	return Job{
		Name: "demand-analysis",
		Spec: "@every 5m",
		Run: func(ctx context.Context) error {
			hotelIDs, err := inventory.HotelIDs(ctx)
			if err != nil {
				return err
			}
			current := now()
			windowStart := current.Add(-window)
			windowDays := int(window.Hours() / 24)
			if windowDays < 1 {
				windowDays = 1
			}

			for _, hotelID := range hotelIDs {
				roomTypes, err := inventory.RoomTypes(ctx, hotelID)
				if err != nil {
					return err
				}
				for _, roomType := range roomTypes {
					count, roomNights, err := bookings.BookingsInWindow(ctx, hotelID, roomType.RoomType, windowStart, current)
					if err != nil {
						return err
					}
					snapshot := &domain.DemandSnapshot{
						HotelID:          hotelID,
						RoomType:         roomType.RoomType,
						WindowStart:      windowStart,
						WindowEnd:        current,
						BookingsInWindow: count,
						TotalRoomNights:  roomNights,
						UpdatedAt:        current,
					}
					if capacity := roomType.TotalRooms * windowDays; capacity > 0 {
						snapshot.OccupancyRate = domain.ClampOccupancy(float64(roomNights) / float64(capacity) * 100)
					}
					if hours := window.Hours(); hours > 0 {
						snapshot.VelocityPerHour = float64(count) / hours
					}
					if err := demand.Upsert(ctx, snapshot); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

// PriceRefreshJob re-quotes the near-term stay for every hotel room type so
// the quote cache is warm when searches arrive.
func PriceRefreshJob(pricing services.PricingService, inventory repository.InventoryStore, now func() time.Time) Job {
	if now == nil {
		now = time.Now
	}
	return Job{
		Name: "price-refresh",
		Spec: "@every 10m",
		Run: func(ctx context.Context) error {
			hotelIDs, err := inventory.HotelIDs(ctx)
			if err != nil {
				return err
			}
			checkIn := now().AddDate(0, 0, 1)
			checkOut := checkIn.AddDate(0, 0, 1)

			for _, hotelID := range hotelIDs {
				roomTypes, err := inventory.RoomTypes(ctx, hotelID)
				if err != nil {
					return err
				}
				for _, roomType := range roomTypes {
					_, err := pricing.Quote(ctx, services.QuoteRequest{
						HotelID:   hotelID,
						RoomType:  roomType.RoomType,
						CheckIn:   checkIn,
						CheckOut:  checkOut,
						BasePrice: roomType.BasePrice,
						Rooms:     1,
					})
					if err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

// OccupancyAnalysisJob flags hotels running hot so watchers can react
// before rooms run out.
func OccupancyAnalysisJob(demand repository.DemandSnapshotStore, notifier services.NotificationService) Job {
	return Job{
		Name: "occupancy-analysis",
		Spec: "@every 30m",
		Run: func(ctx context.Context) error {
			snapshots, err := demand.List(ctx)
			if err != nil {
				return err
			}
			for _, snapshot := range snapshots {
				if snapshot.OccupancyRate < 90 {
					continue
				}
				notifier.Publish(domain.TopicDemand, snapshot.HotelID, map[string]interface{}{
					"hotel_id":       snapshot.HotelID,
					"room_type":      snapshot.RoomType,
					"occupancy_rate": snapshot.OccupancyRate,
					"alert":          "high occupancy",
				})
			}
			return nil
		},
	}
}

// RevenueOptimizationJob publishes pricing suggestions derived from the
// demand snapshots. Suggestions are advisory; admins still own the rules.
func RevenueOptimizationJob(demand repository.DemandSnapshotStore, notifier services.NotificationService) Job {
	return Job{
		Name: "revenue-optimization",
		Spec: "@every 1h",
		Run: func(ctx context.Context) error {
			snapshots, err := demand.List(ctx)
			if err != nil {
				return err
			}
			for _, snapshot := range snapshots {
				var suggestion string
				switch {
				case snapshot.OccupancyRate >= 90:
					suggestion = "demand exceeds supply, consider raising the base rate"
				case snapshot.OccupancyRate < 40:
					suggestion = "low occupancy, consider a promotional rule"
				default:
					continue
				}
				notifier.Publish(domain.TopicRevenue, snapshot.HotelID, map[string]interface{}{
					"hotel_id":       snapshot.HotelID,
					"room_type":      snapshot.RoomType,
					"occupancy_rate": snapshot.OccupancyRate,
					"suggestion":     suggestion,
				})
			}
			return nil
		},
	}
}

// PerformanceMonitoringJob samples cache effectiveness and stores the
// sample under the short-lived metrics tier for the operational endpoints.
func PerformanceMonitoringJob(cacheLayer *cache.CacheLayer, metricsTTL time.Duration, logger *logrus.Logger) Job {
	return Job{
		Name: "performance-monitoring",
		Spec: "@every 2h",
		Run: func(ctx context.Context) error {
			stats := cacheLayer.Stats()
			logger.WithFields(logrus.Fields{
				"path":     "scheduler/performance",
				"hits":     stats.Hits,
				"misses":   stats.Misses,
				"hit_rate": fmt.Sprintf("%.2f", stats.HitRate),
			}).Info("cache performance sample")

			payload, err := json.Marshal(stats)
			if err != nil {
				return err
			}
			cacheLayer.Set(ctx, cache.MetricsKey("cache-stats"), string(payload), metricsTTL)
			return nil
		},
	}
}

// DailyReportJob aggregates yesterday's demand picture for the dashboards.
func DailyReportJob(demand repository.DemandSnapshotStore, notifier services.NotificationService, now func() time.Time) Job {
	if now == nil {
		now = time.Now
	}
	return Job{
		Name: "daily-report",
		Spec: "0 6 * * *",
		Run:  reportRun(demand, notifier, "daily", now),
	}
}

// WeeklyReportJob runs Monday mornings.
func WeeklyReportJob(demand repository.DemandSnapshotStore, notifier services.NotificationService, now func() time.Time) Job {
	if now == nil {
		now = time.Now
	}
	return Job{
		Name: "weekly-report",
		Spec: "0 7 * * 1",
		Run:  reportRun(demand, notifier, "weekly", now),
	}
}

func reportRun(demand repository.DemandSnapshotStore, notifier services.NotificationService,
	period string, now func() time.Time) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		snapshots, err := demand.List(ctx)
		if err != nil {
			return err
		}
		totalBookings := 0
		var occupancySum float64
		for _, snapshot := range snapshots {
			totalBookings += snapshot.BookingsInWindow
			occupancySum += snapshot.OccupancyRate
		}
		var averageOccupancy float64
		if len(snapshots) > 0 {
			averageOccupancy = occupancySum / float64(len(snapshots))
		}
		notifier.Publish(domain.TopicRevenue, domain.ScopeGlobal, map[string]interface{}{
			"report":            period,
			"generated_at":      now(),
			"total_bookings":    totalBookings,
			"average_occupancy": averageOccupancy,
			"room_types":        len(snapshots),
		})
		return nil
	}
}
