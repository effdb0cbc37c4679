package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	error2 "github.com/NawfalRAZOUK7/hotel-management-sub009/error"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/events"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/repository"
)

var validateEventFields = validator.New()

// EventHandler receives mutation events from the booking and admin
// subsystems. Rule events write through the rule store before they are
// published, so the store and the invalidation fan-out cannot diverge.
type EventHandler struct {
	bus    *events.Bus
	rules  repository.RuleStore
	Tracer trace.Tracer
}

func NewEventHandler(bus *events.Bus, rules repository.RuleStore, tracer trace.Tracer) EventHandler {
	return EventHandler{bus: bus, rules: rules, Tracer: tracer}
}

func (s *EventHandler) BookingMutated(c *gin.Context) {
	rw := c.Writer
	h := c.Request

	ctx, span := s.Tracer.Start(h.Context(), "EventHandler.BookingMutated")
	defer span.End()

	var event domain.BookingEvent
	if err := json.NewDecoder(h.Body).Decode(&event); err != nil {
		span.SetStatus(codes.Error, "Invalid booking event body")
		error2.ReturnJSONError(rw, "Invalid booking event body", http.StatusBadRequest)
		return
	}
	if err := validateEventFields.Struct(event); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, err.Error(), http.StatusBadRequest)
		return
	}
	switch event.Type {
	case domain.BookingCreated, domain.BookingCancelled, domain.BookingCheckedIn, domain.BookingCheckedOut:
	default:
		span.SetStatus(codes.Error, "Unknown booking event type")
		error2.ReturnJSONError(rw, "Unknown booking event type", http.StatusBadRequest)
		return
	}

	// Handlers run synchronously, so the invalidation work is enqueued
	// before this returns.
	s.bus.PublishBooking(ctx, event)

	span.SetStatus(codes.Ok, "Booking event accepted")
	rw.WriteHeader(http.StatusAccepted)
}

func (s *EventHandler) RuleChanged(c *gin.Context) {
	rw := c.Writer
	h := c.Request

	ctx, span := s.Tracer.Start(h.Context(), "EventHandler.RuleChanged")
	defer span.End()

	var event domain.RuleEvent
	if err := json.NewDecoder(h.Body).Decode(&event); err != nil {
		span.SetStatus(codes.Error, "Invalid rule event body")
		error2.ReturnJSONError(rw, "Invalid rule event body", http.StatusBadRequest)
		return
	}
	if err := validateEventFields.Struct(event); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	switch event.Type {
	case domain.RuleCreated, domain.RuleUpdated:
		if event.Rule == nil {
			span.SetStatus(codes.Error, "Rule event without rule payload")
			error2.ReturnJSONError(rw, "Rule event without rule payload", http.StatusBadRequest)
			return
		}
		if err := event.Rule.Validate(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			error2.ReturnJSONError(rw, err.Error(), http.StatusBadRequest)
			return
		}
		var err error
		if event.Type == domain.RuleCreated {
			err = s.rules.Insert(ctx, event.Rule)
		} else {
			err = s.rules.Update(ctx, event.Rule)
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			error2.ReturnJSONError(rw, "Unable to store pricing rule", http.StatusInternalServerError)
			return
		}
	case domain.RuleDeleted:
		if event.Rule == nil || event.Rule.ID.IsZero() {
			span.SetStatus(codes.Error, "Rule delete without rule id")
			error2.ReturnJSONError(rw, "Rule delete without rule id", http.StatusBadRequest)
			return
		}
		if err := s.rules.Delete(ctx, event.Rule.ID.Hex()); err != nil {
			span.SetStatus(codes.Error, err.Error())
			error2.ReturnJSONError(rw, "Unable to delete pricing rule", http.StatusInternalServerError)
			return
		}
	default:
		span.SetStatus(codes.Error, "Unknown rule event type")
		error2.ReturnJSONError(rw, "Unknown rule event type", http.StatusBadRequest)
		return
	}

	s.bus.PublishRule(ctx, event)

	span.SetStatus(codes.Ok, "Rule event accepted")
	rw.WriteHeader(http.StatusAccepted)
}

func (s *EventHandler) HotelEdited(c *gin.Context) {
	rw := c.Writer
	h := c.Request

	ctx, span := s.Tracer.Start(h.Context(), "EventHandler.HotelEdited")
	defer span.End()

	var event domain.HotelEvent
	if err := json.NewDecoder(h.Body).Decode(&event); err != nil {
		span.SetStatus(codes.Error, "Invalid hotel event body")
		error2.ReturnJSONError(rw, "Invalid hotel event body", http.StatusBadRequest)
		return
	}
	if err := validateEventFields.Struct(event); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	s.bus.PublishHotel(ctx, event)

	span.SetStatus(codes.Ok, "Hotel event accepted")
	rw.WriteHeader(http.StatusAccepted)
}
