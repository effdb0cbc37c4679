package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	error2 "github.com/NawfalRAZOUK7/hotel-management-sub009/error"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/services"
)

const dateLayout = "2006-01-02"

type AvailabilityHandler struct {
	availabilityService services.AvailabilityService
	Tracer              trace.Tracer
}

func NewAvailabilityHandler(availabilityService services.AvailabilityService, tracer trace.Tracer) AvailabilityHandler {
	return AvailabilityHandler{availabilityService: availabilityService, Tracer: tracer}
}

// GetAvailability lists the hotel's room types with live availability and
// a current price for the requested stay.
func (s *AvailabilityHandler) GetAvailability(c *gin.Context) {
	rw := c.Writer
	h := c.Request

	ctx, span := s.Tracer.Start(h.Context(), "AvailabilityHandler.GetAvailability")
	defer span.End()

	hotelID := c.Param("hotelId")
	if hotelID == "" {
		span.SetStatus(codes.Error, "Missing hotel id")
		error2.ReturnJSONError(rw, "Missing hotel id", http.StatusBadRequest)
		return
	}

	checkIn, err := time.Parse(dateLayout, c.Query("check_in"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid check_in date")
		error2.ReturnJSONError(rw, "Invalid check_in date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	checkOut, err := time.Parse(dateLayout, c.Query("check_out"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid check_out date")
		error2.ReturnJSONError(rw, "Invalid check_out date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	currency := c.Query("currency")

	result, err := s.availabilityService.GetAvailability(ctx, hotelID, checkIn, checkOut, currency)
	if err != nil {
		if domain.IsValidation(err) {
			span.SetStatus(codes.Error, err.Error())
			error2.ReturnJSONError(rw, err.Error(), http.StatusBadRequest)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		error2.ReturnJSONError(rw, "Unable to compute availability", http.StatusInternalServerError)
		return
	}

	jsonResponse, err := json.Marshal(result)
	if err != nil {
		span.SetStatus(codes.Error, "Error marshaling JSON"+err.Error())
		error2.ReturnJSONError(rw, fmt.Sprintf("Error marshaling JSON: %s", err), http.StatusInternalServerError)
		return
	}
	span.SetStatus(codes.Ok, "Availability computed")
	rw.WriteHeader(http.StatusOK)
	rw.Write(jsonResponse)
}
