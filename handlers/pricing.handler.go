package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	error2 "github.com/NawfalRAZOUK7/hotel-management-sub009/error"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/services"
)

var validateQuoteFields = validator.New()

type PricingHandler struct {
	pricingService services.PricingService
	Tracer         trace.Tracer
}

func NewPricingHandler(pricingService services.PricingService, tracer trace.Tracer) PricingHandler {
	return PricingHandler{pricingService: pricingService, Tracer: tracer}
}

// Quote prices a stay. The response is cache-backed; identical requests
// inside the TTL return the same quote.
func (s *PricingHandler) Quote(c *gin.Context) {
	rw := c.Writer
	h := c.Request

	ctx, span := s.Tracer.Start(h.Context(), "PricingHandler.Quote")
	defer span.End()

	var req services.QuoteRequest
	decoder := json.NewDecoder(h.Body)
	if err := decoder.Decode(&req); err != nil {
		span.SetStatus(codes.Error, "Invalid quote request body")
		error2.ReturnJSONError(rw, "Invalid quote request body", http.StatusBadRequest)
		return
	}
	if err := validateQuoteFields.Struct(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, err.Error(), http.StatusBadRequest)
		return
	}

	quote, err := s.pricingService.Quote(ctx, req)
	if err != nil {
		if domain.IsValidation(err) {
			span.SetStatus(codes.Error, err.Error())
			error2.ReturnJSONError(rw, err.Error(), http.StatusBadRequest)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, "Unable to compute quote", http.StatusInternalServerError)
		return
	}

	jsonResponse, err := json.Marshal(quote)
	if err != nil {
		span.SetStatus(codes.Error, "Error marshaling JSON"+err.Error())
		error2.ReturnJSONError(rw, fmt.Sprintf("Error marshaling JSON: %s", err), http.StatusInternalServerError)
		return
	}
	span.SetStatus(codes.Ok, "Quote computed")
	rw.WriteHeader(http.StatusOK)
	rw.Write(jsonResponse)
}
