package repository

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/cache"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

// hotelInventory is the local projection of the accommodation service's
// hotel document, kept fresh by hotel mutation events.
type hotelInventory struct {
	HotelID   string                     `bson:"hotel_id" json:"hotel_id"`
	RoomTypes []domain.RoomTypeInventory `bson:"room_types" json:"room_types"`
}

// InventoryRepo reads the hotel detail cache first, then the projection,
// and falls back to the accommodation service over HTTPS, behind a circuit
// breaker, when both miss. Hotel mutation events invalidate the detail key.
type InventoryRepo struct {
	collection     *mongo.Collection
	serviceURL     string
	cache          *cache.CacheLayer
	detailTTL      time.Duration
	logger         *logrus.Logger
	Tracer         trace.Tracer
	CircuitBreaker *gobreaker.CircuitBreaker
}

func NewInventoryRepo(collection *mongo.Collection, serviceURL string, cacheLayer *cache.CacheLayer,
	detailTTL time.Duration, logger *logrus.Logger, tracer trace.Tracer) InventoryStore {
	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "InventoryHTTPSRequest",
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"path": "repository/inventory"}).Warnf("Circuit Breaker %s state changed from %s to %s", name, from, to)
		},
	})

	return &InventoryRepo{
		collection:     collection,
		serviceURL:     serviceURL,
		cache:          cacheLayer,
		detailTTL:      detailTTL,
		logger:         logger,
		Tracer:         tracer,
		CircuitBreaker: circuitBreaker,
	}
}

func (r *InventoryRepo) RoomTypes(ctx context.Context, hotelID string) ([]domain.RoomTypeInventory, error) {
	ctx, span := r.Tracer.Start(ctx, "InventoryRepo.RoomTypes")
	defer span.End()

	detailKey := cache.HotelDetailKey(hotelID)
	if cached, hit := r.cache.Get(ctx, detailKey); hit {
		var roomTypes []domain.RoomTypeInventory
		if err := json.Unmarshal([]byte(cached), &roomTypes); err == nil {
			return roomTypes, nil
		}
		r.logger.WithFields(logrus.Fields{"path": "repository/inventory", "hotel_id": hotelID}).Warn("dropping undecodable cached hotel detail")
	}

	var inventory hotelInventory
	err := r.collection.FindOne(ctx, bson.M{"hotel_id": hotelID}).Decode(&inventory)
	if err == nil {
		r.cacheDetail(ctx, detailKey, inventory.RoomTypes)
		return inventory.RoomTypes, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		span.SetStatus(codes.Error, err.Error())
		r.logger.WithFields(logrus.Fields{"path": "repository/inventory", "hotel_id": hotelID}).Warn("inventory projection read failed, falling back to accommodation service: ", err)
	}

	roomTypes, err := r.fetchFromService(ctx, hotelID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.UpstreamUnavailableError{Upstream: "inventory", Err: err}
	}
	if len(roomTypes) == 0 {
		return nil, domain.ErrHotelNotFound()
	}
	r.cacheDetail(ctx, detailKey, roomTypes)
	return roomTypes, nil
}

func (r *InventoryRepo) cacheDetail(ctx context.Context, key string, roomTypes []domain.RoomTypeInventory) {
	payload, err := json.Marshal(roomTypes)
	if err != nil {
		return
	}
	r.cache.Set(ctx, key, string(payload), r.detailTTL)
}

func (r *InventoryRepo) HotelIDs(ctx context.Context) ([]string, error) {
	ctx, span := r.Tracer.Start(ctx, "InventoryRepo.HotelIDs")
	defer span.End()

	values, err := r.collection.Distinct(ctx, "hotel_id", bson.M{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, value := range values {
		if id, ok := value.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *InventoryRepo) fetchFromService(ctx context.Context, hotelID string) ([]domain.RoomTypeInventory, error) {
	url := fmt.Sprintf("%s/%s/rooms", r.serviceURL, hotelID)

	resp, err := r.performRequestWithCircuitBreaker(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("accommodation service returned status %d", resp.StatusCode)
	}

	var roomTypes []domain.RoomTypeInventory
	if err := json.NewDecoder(resp.Body).Decode(&roomTypes); err != nil {
		return nil, fmt.Errorf("error decoding inventory response: %w", err)
	}
	return roomTypes, nil
}

func (r *InventoryRepo) performRequestWithCircuitBreaker(ctx context.Context, url string) (*http.Response, error) {
	maxRetries := 3

	retryOperation := func() (interface{}, error) {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

		req, err := http.NewRequest("GET", url, nil)
		if err != nil {
			return nil, err
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		client := &http.Client{Transport: tr, Timeout: 5 * time.Second}
		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		return resp, nil
	}

	result, err := r.CircuitBreaker.Execute(func() (interface{}, error) {
		return retryOperationWithBackoff(ctx, maxRetries, retryOperation)
	})
	if err != nil {
		return nil, err
	}
	resp, ok := result.(*http.Response)
	if !ok {
		return nil, errors.New("unexpected response type from Circuit Breaker")
	}
	return resp, nil
}

func retryOperationWithBackoff(ctx context.Context, maxRetries int, operation func() (interface{}, error)) (interface{}, error) {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, err := operation()
		if err == nil {
			return result, nil
		}
		backoff := time.Duration(attempt*attempt) * 100 * time.Millisecond
		time.Sleep(backoff)
	}
	return nil, fmt.Errorf("max retries exceeded")
}
