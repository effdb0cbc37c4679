package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/handlers"
)

type PricingRouteHandler struct {
	pricingHandler      handlers.PricingHandler
	availabilityHandler handlers.AvailabilityHandler
}

func NewPricingRouteHandler(pricingHandler handlers.PricingHandler, availabilityHandler handlers.AvailabilityHandler) PricingRouteHandler {
	return PricingRouteHandler{pricingHandler, availabilityHandler}
}

func (rc *PricingRouteHandler) PricingRoute(rg *gin.RouterGroup) {
	router := rg.Group("/pricing")
	router.POST("/quote", rc.pricingHandler.Quote)

	availability := rg.Group("/availability")
	availability.GET("/:hotelId", rc.availabilityHandler.GetAvailability)
}
