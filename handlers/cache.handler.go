package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/cache"
	error2 "github.com/NawfalRAZOUK7/hotel-management-sub009/error"
)

type CacheHandler struct {
	cacheLayer *cache.CacheLayer
	Tracer     trace.Tracer
}

func NewCacheHandler(cacheLayer *cache.CacheLayer, tracer trace.Tracer) CacheHandler {
	return CacheHandler{cacheLayer: cacheLayer, Tracer: tracer}
}

func (s *CacheHandler) GetStats(c *gin.Context) {
	rw := c.Writer
	h := c.Request

	_, span := s.Tracer.Start(h.Context(), "CacheHandler.GetStats")
	defer span.End()

	stats := s.cacheLayer.Stats()
	jsonResponse, err := json.Marshal(stats)
	if err != nil {
		span.SetStatus(codes.Error, "Error marshaling JSON"+err.Error())
		error2.ReturnJSONError(rw, "Error marshaling JSON", http.StatusInternalServerError)
		return
	}
	span.SetStatus(codes.Ok, "Cache stats returned")
	rw.WriteHeader(http.StatusOK)
	rw.Write(jsonResponse)
}

// Invalidate clears all cache entries matching the given pattern. This is
// an operational escape hatch; normal invalidation runs off mutation events.
func (s *CacheHandler) Invalidate(c *gin.Context) {
	rw := c.Writer
	h := c.Request

	ctx, span := s.Tracer.Start(h.Context(), "CacheHandler.Invalidate")
	defer span.End()

	var req struct {
		Pattern string `json:"pattern"`
	}
	if err := json.NewDecoder(h.Body).Decode(&req); err != nil {
		span.SetStatus(codes.Error, "Invalid invalidate request body")
		error2.ReturnJSONError(rw, "Invalid invalidate request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Pattern) == "" {
		span.SetStatus(codes.Error, "Missing pattern")
		error2.ReturnJSONError(rw, "Missing pattern", http.StatusBadRequest)
		return
	}

	removed := s.cacheLayer.InvalidatePattern(ctx, req.Pattern)

	span.SetStatus(codes.Ok, "Cache entries invalidated")
	rw.WriteHeader(http.StatusOK)
	jsonResponse, _ := json.Marshal(map[string]interface{}{"pattern": req.Pattern, "removed": removed})
	rw.Write(jsonResponse)
}
