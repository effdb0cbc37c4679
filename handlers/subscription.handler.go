package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	error2 "github.com/NawfalRAZOUK7/hotel-management-sub009/error"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/services"
)

var validateSubscriptionFields = validator.New()

type SubscriptionRequest struct {
	SubscriberID string `json:"subscriber_id" validate:"required"`
	Topic        string `json:"topic" validate:"required"`
	Scope        string `json:"scope"`
	TTLSeconds   int    `json:"ttl_seconds"`
}

type SubscriptionHandler struct {
	notificationService services.NotificationService
	Tracer              trace.Tracer
}

func NewSubscriptionHandler(notificationService services.NotificationService, tracer trace.Tracer) SubscriptionHandler {
	return SubscriptionHandler{notificationService: notificationService, Tracer: tracer}
}

func (s *SubscriptionHandler) Subscribe(c *gin.Context) {
	rw := c.Writer
	h := c.Request

	_, span := s.Tracer.Start(h.Context(), "SubscriptionHandler.Subscribe")
	defer span.End()

	var req SubscriptionRequest
	if err := json.NewDecoder(h.Body).Decode(&req); err != nil {
		span.SetStatus(codes.Error, "Invalid subscription request body")
		error2.ReturnJSONError(rw, "Invalid subscription request body", http.StatusBadRequest)
		return
	}
	if err := validateSubscriptionFields.Struct(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	subscription, _, err := s.notificationService.Subscribe(req.SubscriberID, domain.Topic(req.Topic), req.Scope, ttl)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	jsonResponse, err := json.Marshal(subscription)
	if err != nil {
		span.SetStatus(codes.Error, "Error marshaling JSON"+err.Error())
		error2.ReturnJSONError(rw, "Error marshaling JSON", http.StatusInternalServerError)
		return
	}
	span.SetStatus(codes.Ok, "Subscription created")
	rw.WriteHeader(http.StatusCreated)
	rw.Write(jsonResponse)
}

func (s *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	rw := c.Writer
	h := c.Request

	_, span := s.Tracer.Start(h.Context(), "SubscriptionHandler.Unsubscribe")
	defer span.End()

	subscriptionID := c.Param("id")
	if subscriptionID == "" {
		span.SetStatus(codes.Error, "Missing subscription id")
		error2.ReturnJSONError(rw, "Missing subscription id", http.StatusBadRequest)
		return
	}

	s.notificationService.Unsubscribe(subscriptionID)

	span.SetStatus(codes.Ok, "Subscription removed")
	rw.WriteHeader(http.StatusNoContent)
}
