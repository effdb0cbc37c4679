package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/cache"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
	"github.com/NawfalRAZOUK7/hotel-management-sub009/repository"
)

// ruleTypeOrder fixes the order rule partitions are applied in so that two
// evaluations of the same inputs always produce the same quote.
var ruleTypeOrder = []domain.RuleType{
	domain.RuleSeasonal,
	domain.RuleOccupancy,
	domain.RuleLeadTime,
	domain.RuleDayOfWeek,
	domain.RuleGroupSize,
}

type PricingServiceImpl struct {
	rules          repository.RuleStore
	demand         repository.DemandSnapshotStore
	cache          *cache.CacheLayer
	quoteTTL       time.Duration
	ruleSummaryTTL time.Duration
	demandMaxAge   time.Duration
	logger         *logrus.Logger
	Tracer         trace.Tracer
	now            func() time.Time
}

func NewPricingServiceImpl(rules repository.RuleStore, demand repository.DemandSnapshotStore,
	cacheLayer *cache.CacheLayer, quoteTTL, ruleSummaryTTL, demandMaxAge time.Duration,
	logger *logrus.Logger, tracer trace.Tracer, now func() time.Time) PricingService {
	if now == nil {
		now = time.Now
	}
	return &PricingServiceImpl{
		rules:          rules,
		demand:         demand,
		cache:          cacheLayer,
		quoteTTL:       quoteTTL,
		ruleSummaryTTL: ruleSummaryTTL,
		demandMaxAge:   demandMaxAge,
		logger:         logger,
		Tracer:         tracer,
		now:            now,
	}
}

func (s *PricingServiceImpl) Quote(ctx context.Context, req QuoteRequest) (*domain.PriceQuote, error) {
	ctx, span := s.Tracer.Start(ctx, "PricingService.Quote")
	defer span.End()

	if !req.CheckOut.After(req.CheckIn) {
		span.SetStatus(codes.Error, "invalid date range")
		return nil, domain.ErrInvalidDateRange()
	}
	if req.BasePrice <= 0 {
		span.SetStatus(codes.Error, "non-positive base price")
		return nil, domain.ValidationError{Message: "base price must be positive"}
	}
	if req.Rooms < 1 {
		req.Rooms = 1
	}
	if req.Currency == "" {
		req.Currency = "EUR"
	}

	key := s.quoteKey(req)
	if cached, hit := s.cache.Get(ctx, key); hit {
		var quote domain.PriceQuote
		if err := json.Unmarshal([]byte(cached), &quote); err == nil {
			return &quote, nil
		}
		s.logger.WithFields(logrus.Fields{"path": "pricing/quote", "key": key}).Warn("dropping undecodable cached quote")
	}

	quote := s.compute(ctx, req)

	if payload, err := json.Marshal(quote); err == nil {
		s.cache.Set(ctx, key, string(payload), s.quoteTTL)
	}

	return quote, nil
}

func (s *PricingServiceImpl) compute(ctx context.Context, req QuoteRequest) *domain.PriceQuote {
	now := s.now()

	trip := domain.TripContext{
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Rooms:    req.Rooms,
		Now:      now,
	}

	snapshot, err := s.demand.Get(ctx, req.HotelID, req.RoomType)
	switch {
	case err == nil && !snapshot.StaleAt(now, s.demandMaxAge):
		trip.OccupancyRate = snapshot.OccupancyRate
		trip.OccupancyKnown = true
	case err != nil && !errors.Is(err, domain.ErrSnapshotNotFound()):
		s.logger.WithFields(logrus.Fields{"path": "pricing/quote", "hotel_id": req.HotelID}).
			Warn(domain.UpstreamUnavailableError{Upstream: "demand store", Err: err}.Error())
	}

	rules, err := s.rules.ActiveRules(ctx, req.HotelID, req.RoomType, req.CheckIn, req.CheckOut)
	if err != nil {
		// Degrade to the dynamic multiplier path with an empty rule set;
		// a pricing engine must always return some valid quote.
		s.logger.WithFields(logrus.Fields{"path": "pricing/quote", "hotel_id": req.HotelID}).
			Warn(domain.UpstreamUnavailableError{Upstream: "rule store", Err: err}.Error())
		rules = nil
	} else {
		s.cacheRuleSummary(ctx, req.HotelID, req.RoomType, rules)
	}

	partitions := make(map[domain.RuleType][]*domain.PricingRule)
	for _, rule := range rules {
		partitions[rule.RuleType] = append(partitions[rule.RuleType], rule)
	}
	for _, partition := range partitions {
		domain.SortRules(partition)
	}

	var appliedRules []string
	var setPriceRules []*domain.PricingRule
	price := req.BasePrice

	for _, ruleType := range ruleTypeOrder {
		for _, rule := range partitions[ruleType] {
			matched, err := rule.Matches(trip)
			if err != nil {
				s.logger.WithFields(logrus.Fields{"path": "pricing/quote", "rule_id": rule.ID.Hex()}).Error(err.Error())
				continue
			}
			if !matched {
				continue
			}
			if rule.Action.Type == domain.ActionSetPrice {
				setPriceRules = append(setPriceRules, rule)
				continue
			}
			switch rule.Action.Type {
			case domain.ActionMultiply:
				price *= rule.Action.Factor
			case domain.ActionAddPercent:
				price *= 1 + rule.Action.Percent/100
			}
			appliedRules = append(appliedRules, rule.ID.Hex())
		}
	}

	dynamicMultiplier := 1.0
	if len(setPriceRules) > 0 {
		// A fixed price is an explicit admin override: the highest-priority
		// SET_PRICE rule wins and the dynamic multiplier is skipped.
		domain.SortRules(setPriceRules)
		winner := setPriceRules[0]
		price = winner.Action.Amount
		appliedRules = []string{winner.ID.Hex()}
	} else {
		dynamicMultiplier = DynamicMultiplier(trip.OccupancyRate, trip.OccupancyKnown,
			domain.LeadDays(now, req.CheckIn), req.CheckIn.Weekday(), req.Rooms)
		price *= dynamicMultiplier
	}

	return &domain.PriceQuote{
		HotelID:           req.HotelID,
		RoomType:          req.RoomType,
		CheckIn:           req.CheckIn,
		CheckOut:          req.CheckOut,
		Currency:          req.Currency,
		BasePrice:         req.BasePrice,
		AppliedRules:      appliedRules,
		DynamicMultiplier: dynamicMultiplier,
		FinalPrice:        domain.ClampPrice(price, req.BasePrice),
		ComputedAt:        now,
	}
}

// DynamicMultiplier derives the live demand factor, independent of admin
// rules. Factors compose by multiplication. Unknown occupancy contributes
// a neutral 1.0.
func DynamicMultiplier(occupancyRate float64, occupancyKnown bool, leadDays int, checkInDay time.Weekday, rooms int) float64 {
	multiplier := 1.0

	if occupancyKnown {
		switch {
		case occupancyRate >= 90:
			multiplier *= 1.4
		case occupancyRate >= 80:
			multiplier *= 1.2
		case occupancyRate >= 70:
			multiplier *= 1.1
		case occupancyRate < 40:
			multiplier *= 0.9
		}
	}

	if leadDays <= 3 {
		multiplier *= 1.15
	} else if leadDays <= 7 {
		multiplier *= 1.08
	}

	if checkInDay == time.Friday || checkInDay == time.Saturday {
		multiplier *= 1.1
	}

	if rooms >= 5 {
		multiplier *= 0.95
	}

	return multiplier
}

type ruleSummaryEntry struct {
	ID       string          `json:"id"`
	RuleType domain.RuleType `json:"rule_type"`
	Action   string          `json:"action"`
	Priority int             `json:"priority"`
}

// cacheRuleSummary keeps a per-room-type digest of the rules in play so
// operators can inspect the active rule set without hitting the rule store.
// Rule mutations invalidate the summary key.
func (s *PricingServiceImpl) cacheRuleSummary(ctx context.Context, hotelID, roomType string, rules []*domain.PricingRule) {
	summary := make([]ruleSummaryEntry, 0, len(rules))
	for _, rule := range rules {
		summary = append(summary, ruleSummaryEntry{
			ID:       rule.ID.Hex(),
			RuleType: rule.RuleType,
			Action:   string(rule.Action.Type),
			Priority: rule.Priority,
		})
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	s.cache.Set(ctx, cache.RuleSummaryKey(hotelID, roomType), string(payload), s.ruleSummaryTTL)
}

func (s *PricingServiceImpl) quoteKey(req QuoteRequest) string {
	return cache.QuoteKey(req.HotelID, req.RoomType, map[string]string{
		"check_in":   req.CheckIn.Format("2006-01-02"),
		"check_out":  req.CheckOut.Format("2006-01-02"),
		"rooms":      strconv.Itoa(req.Rooms),
		"currency":   req.Currency,
		"base_price": strconv.FormatFloat(req.BasePrice, 'f', 2, 64),
	})
}
