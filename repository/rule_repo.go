package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

type RuleRepo struct {
	collection *mongo.Collection
	Tracer     trace.Tracer
}

func NewRuleRepo(collection *mongo.Collection, tracer trace.Tracer) RuleStore {
	return &RuleRepo{collection: collection, Tracer: tracer}
}

func (r *RuleRepo) ActiveRules(ctx context.Context, hotelID, roomType string, from, to time.Time) ([]*domain.PricingRule, error) {
	ctx, span := r.Tracer.Start(ctx, "RuleRepo.ActiveRules")
	defer span.End()

	filter := bson.M{
		"hotel_id":  hotelID,
		"room_type": roomType,
		"is_active": true,
		"valid_from": bson.M{
			"$lt": to,
		},
		"$or": bson.A{
			bson.M{"valid_to": bson.M{"$gt": from}},
			bson.M{"valid_to": time.Time{}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	var rules []*domain.PricingRule
	if err = cursor.All(ctx, &rules); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rules, nil
}

func (r *RuleRepo) Insert(ctx context.Context, rule *domain.PricingRule) error {
	ctx, span := r.Tracer.Start(ctx, "RuleRepo.Insert")
	defer span.End()

	if rule.ID.IsZero() {
		rule.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, rule)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *RuleRepo) Update(ctx context.Context, rule *domain.PricingRule) error {
	ctx, span := r.Tracer.Start(ctx, "RuleRepo.Update")
	defer span.End()

	filter := bson.M{"_id": rule.ID}
	result, err := r.collection.ReplaceOne(ctx, filter, rule)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrRuleNotFound()
	}
	return nil
}

func (r *RuleRepo) Delete(ctx context.Context, id string) error {
	ctx, span := r.Tracer.Start(ctx, "RuleRepo.Delete")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ValidationError{Message: "malformed rule id"}
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrRuleNotFound()
	}
	return nil
}
