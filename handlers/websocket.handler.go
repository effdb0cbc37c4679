package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	error2 "github.com/NawfalRAZOUK7/hotel-management-sub009/error"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/services"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades dashboard connections and binds each one to a
// bus subscription. Closing the socket tears the subscription down.
type WebSocketHandler struct {
	hub                 *ws.Hub
	notificationService services.NotificationService
	logger              *logrus.Logger
	Tracer              trace.Tracer
}

func NewWebSocketHandler(hub *ws.Hub, notificationService services.NotificationService,
	logger *logrus.Logger, tracer trace.Tracer) WebSocketHandler {
	return WebSocketHandler{
		hub:                 hub,
		notificationService: notificationService,
		logger:              logger,
		Tracer:              tracer,
	}
}

func (s *WebSocketHandler) Feed(c *gin.Context) {
	rw := c.Writer
	h := c.Request

	_, span := s.Tracer.Start(h.Context(), "WebSocketHandler.Feed")
	defer span.End()

	subscriberID := c.Query("subscriber_id")
	topic := domain.Topic(c.Query("topic"))
	scope := c.Query("scope")

	subscription, notifications, err := s.notificationService.Subscribe(subscriberID, topic, scope, 0)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(rw, h, nil)
	if err != nil {
		s.notificationService.Unsubscribe(subscription.ID)
		span.SetStatus(codes.Error, "Websocket upgrade failed: "+err.Error())
		return
	}

	cleanup := func() { s.notificationService.Unsubscribe(subscription.ID) }
	client := ws.NewClient(s.hub, conn, notifications, cleanup, s.logger)
	client.Start()

	span.SetStatus(codes.Ok, "Websocket client connected")
}
