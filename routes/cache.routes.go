package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/handlers"
)

type CacheRouteHandler struct {
	cacheHandler handlers.CacheHandler
}

func NewCacheRouteHandler(cacheHandler handlers.CacheHandler) CacheRouteHandler {
	return CacheRouteHandler{cacheHandler}
}

func (rc *CacheRouteHandler) CacheRoute(rg *gin.RouterGroup) {
	router := rg.Group("/cache")

	router.GET("/stats", rc.cacheHandler.GetStats)
	router.POST("/invalidate", rc.cacheHandler.Invalidate)
}
