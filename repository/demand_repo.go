package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

type DemandRepo struct {
	collection *mongo.Collection
	Tracer     trace.Tracer
}

func NewDemandRepo(collection *mongo.Collection, tracer trace.Tracer) DemandSnapshotStore {
	return &DemandRepo{collection: collection, Tracer: tracer}
}

func (r *DemandRepo) Get(ctx context.Context, hotelID, roomType string) (*domain.DemandSnapshot, error) {
	ctx, span := r.Tracer.Start(ctx, "DemandRepo.Get")
	defer span.End()

	filter := bson.M{"hotel_id": hotelID, "room_type": roomType}
	var snapshot domain.DemandSnapshot
	err := r.collection.FindOne(ctx, filter).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrSnapshotNotFound()
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &snapshot, nil
}

func (r *DemandRepo) Upsert(ctx context.Context, snapshot *domain.DemandSnapshot) error {
	ctx, span := r.Tracer.Start(ctx, "DemandRepo.Upsert")
	defer span.End()

	snapshot.OccupancyRate = domain.ClampOccupancy(snapshot.OccupancyRate)
	filter := bson.M{"hotel_id": snapshot.HotelID, "room_type": snapshot.RoomType}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, filter, snapshot, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// ApplyDelta reads, mutates and writes back the snapshot. Two racing deltas
// resolve last-write-wins, which the next scheduled full recompute corrects.
func (r *DemandRepo) ApplyDelta(ctx context.Context, hotelID, roomType string, bookings, roomNights, capacityNights int, now time.Time) error {
	ctx, span := r.Tracer.Start(ctx, "DemandRepo.ApplyDelta")
	defer span.End()

	snapshot, err := r.Get(ctx, hotelID, roomType)
	if errors.Is(err, domain.ErrSnapshotNotFound()) {
		snapshot = &domain.DemandSnapshot{
			HotelID:     hotelID,
			RoomType:    roomType,
			WindowStart: now.AddDate(0, 0, -30),
			WindowEnd:   now,
		}
	} else if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	snapshot.ApplyDelta(bookings, roomNights, capacityNights, now)
	return r.Upsert(ctx, snapshot)
}

func (r *DemandRepo) List(ctx context.Context) ([]*domain.DemandSnapshot, error) {
	ctx, span := r.Tracer.Start(ctx, "DemandRepo.List")
	defer span.End()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	var snapshots []*domain.DemandSnapshot
	if err = cursor.All(ctx, &snapshots); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return snapshots, nil
}
