package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/handlers"
)

type NotificationRouteHandler struct {
	subscriptionHandler handlers.SubscriptionHandler
	webSocketHandler    handlers.WebSocketHandler
}

func NewNotificationRouteHandler(subscriptionHandler handlers.SubscriptionHandler, webSocketHandler handlers.WebSocketHandler) NotificationRouteHandler {
	return NotificationRouteHandler{subscriptionHandler, webSocketHandler}
}

func (rc *NotificationRouteHandler) NotificationRoute(rg *gin.RouterGroup) {
	subscriptions := rg.Group("/subscriptions")
	subscriptions.POST("", rc.subscriptionHandler.Subscribe)
	subscriptions.DELETE("/:id", rc.subscriptionHandler.Unsubscribe)

	notifications := rg.Group("/notifications")
	notifications.GET("/ws", rc.webSocketHandler.Feed)
}
