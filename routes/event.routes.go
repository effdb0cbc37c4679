package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/handlers"
)

type EventRouteHandler struct {
	eventHandler handlers.EventHandler
}

func NewEventRouteHandler(eventHandler handlers.EventHandler) EventRouteHandler {
	return EventRouteHandler{eventHandler}
}

func (rc *EventRouteHandler) EventRoute(rg *gin.RouterGroup) {
	router := rg.Group("/events")

	router.POST("/booking", rc.eventHandler.BookingMutated)
	router.POST("/rule", rc.eventHandler.RuleChanged)
	router.POST("/hotel", rc.eventHandler.HotelEdited)
}
