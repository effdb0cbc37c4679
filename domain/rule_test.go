package domain

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func datePtr(t time.Time) *time.Time { return &t }
func floatPtr(f float64) *float64    { return &f }
func intPtr(i int) *int              { return &i }

func baseRule(ruleType RuleType, action RuleAction) PricingRule {
	return PricingRule{
		ID:       primitive.NewObjectID(),
		HotelID:  "hotel-1",
		RoomType: "double",
		RuleType: ruleType,
		Action:   action,
		IsActive: true,
	}
}

func TestPricingRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PricingRule)
		wantErr bool
	}{
		{
			name:   "valid multiply rule",
			mutate: func(r *PricingRule) {},
		},
		{
			name:    "missing hotel",
			mutate:  func(r *PricingRule) { r.HotelID = "" },
			wantErr: true,
		},
		{
			name: "validity window inverted",
			mutate: func(r *PricingRule) {
				r.ValidFrom = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
				r.ValidTo = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
			},
			wantErr: true,
		},
		{
			name: "seasonal dates inverted",
			mutate: func(r *PricingRule) {
				r.Conditions.StartDate = datePtr(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
				r.Conditions.EndDate = datePtr(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
			},
			wantErr: true,
		},
		{
			name:    "unknown rule type",
			mutate:  func(r *PricingRule) { r.RuleType = "HOLIDAY" },
			wantErr: true,
		},
		{
			name:    "multiply without factor",
			mutate:  func(r *PricingRule) { r.Action = RuleAction{Type: ActionMultiply} },
			wantErr: true,
		},
		{
			name:    "set price without amount",
			mutate:  func(r *PricingRule) { r.Action = RuleAction{Type: ActionSetPrice} },
			wantErr: true,
		},
		{
			name:    "add percent below -100",
			mutate:  func(r *PricingRule) { r.Action = RuleAction{Type: ActionAddPercent, Percent: -150} },
			wantErr: true,
		},
		{
			name:    "unknown action",
			mutate:  func(r *PricingRule) { r.Action = RuleAction{Type: "HALVE"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := baseRule(RuleSeasonal, RuleAction{Type: ActionMultiply, Factor: 1.2})
			tt.mutate(&rule)
			err := rule.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestOccupancyRangeValidate(t *testing.T) {
	rule := baseRule(RuleOccupancy, RuleAction{Type: ActionMultiply, Factor: 1.3})
	rule.Conditions.MinOccupancy = floatPtr(80)
	rule.Conditions.MaxOccupancy = floatPtr(60)
	if err := rule.Validate(); err == nil {
		t.Error("expected error for inverted occupancy range")
	}
}

func TestPricingRuleMatches(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	trip := TripContext{
		CheckIn:        time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC), // a Friday
		CheckOut:       time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Rooms:          2,
		OccupancyRate:  85,
		OccupancyKnown: true,
		Now:            now,
	}

	t.Run("seasonal overlap", func(t *testing.T) {
		rule := baseRule(RuleSeasonal, RuleAction{Type: ActionMultiply, Factor: 1.2})
		rule.Conditions.StartDate = datePtr(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
		rule.Conditions.EndDate = datePtr(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
		matched, err := rule.Matches(trip)
		if err != nil || !matched {
			t.Errorf("Matches() = %v, %v, want true, nil", matched, err)
		}
	})

	t.Run("seasonal stay before season", func(t *testing.T) {
		rule := baseRule(RuleSeasonal, RuleAction{Type: ActionMultiply, Factor: 1.2})
		rule.Conditions.StartDate = datePtr(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))
		matched, err := rule.Matches(trip)
		if err != nil || matched {
			t.Errorf("Matches() = %v, %v, want false, nil", matched, err)
		}
	})

	t.Run("occupancy in range", func(t *testing.T) {
		rule := baseRule(RuleOccupancy, RuleAction{Type: ActionMultiply, Factor: 1.3})
		rule.Conditions.MinOccupancy = floatPtr(80)
		matched, err := rule.Matches(trip)
		if err != nil || !matched {
			t.Errorf("Matches() = %v, %v, want true, nil", matched, err)
		}
	})

	t.Run("occupancy unknown never matches", func(t *testing.T) {
		rule := baseRule(RuleOccupancy, RuleAction{Type: ActionMultiply, Factor: 1.3})
		rule.Conditions.MinOccupancy = floatPtr(10)
		unknownTrip := trip
		unknownTrip.OccupancyKnown = false
		matched, err := rule.Matches(unknownTrip)
		if err != nil || matched {
			t.Errorf("Matches() = %v, %v, want false, nil", matched, err)
		}
	})

	t.Run("lead time inside bound", func(t *testing.T) {
		rule := baseRule(RuleLeadTime, RuleAction{Type: ActionAddPercent, Percent: 10})
		rule.Conditions.MaxLeadDays = intPtr(7)
		matched, err := rule.Matches(trip)
		if err != nil || !matched {
			t.Errorf("Matches() = %v, %v, want true, nil", matched, err)
		}
	})

	t.Run("lead time rule without bound is an evaluation error", func(t *testing.T) {
		rule := baseRule(RuleLeadTime, RuleAction{Type: ActionAddPercent, Percent: 10})
		_, err := rule.Matches(trip)
		if _, ok := err.(RuleEvaluationError); !ok {
			t.Errorf("Matches() error = %v, want RuleEvaluationError", err)
		}
	})

	t.Run("day of week friday check-in", func(t *testing.T) {
		rule := baseRule(RuleDayOfWeek, RuleAction{Type: ActionMultiply, Factor: 1.1})
		rule.Conditions.DaysOfWeek = []time.Weekday{time.Friday, time.Saturday}
		matched, err := rule.Matches(trip)
		if err != nil || !matched {
			t.Errorf("Matches() = %v, %v, want true, nil", matched, err)
		}
	})

	t.Run("group size below minimum", func(t *testing.T) {
		rule := baseRule(RuleGroupSize, RuleAction{Type: ActionMultiply, Factor: 0.95})
		rule.Conditions.MinRooms = intPtr(5)
		matched, err := rule.Matches(trip)
		if err != nil || matched {
			t.Errorf("Matches() = %v, %v, want false, nil", matched, err)
		}
	})
}

func TestSortRules(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	low := baseRule(RuleSeasonal, RuleAction{Type: ActionMultiply, Factor: 1.1})
	low.Priority = 1
	high := baseRule(RuleSeasonal, RuleAction{Type: ActionMultiply, Factor: 1.2})
	high.Priority = 10
	tieOld := baseRule(RuleSeasonal, RuleAction{Type: ActionMultiply, Factor: 1.3})
	tieOld.Priority = 5
	tieOld.ValidFrom = older
	tieNew := baseRule(RuleSeasonal, RuleAction{Type: ActionMultiply, Factor: 1.4})
	tieNew.Priority = 5
	tieNew.ValidFrom = newer

	rules := []*PricingRule{&low, &tieOld, &high, &tieNew}
	SortRules(rules)

	if rules[0] != &high {
		t.Errorf("highest priority should sort first, got priority %d", rules[0].Priority)
	}
	if rules[1] != &tieNew {
		t.Error("equal priority should tie-break on newer ValidFrom")
	}
	if rules[2] != &tieOld {
		t.Error("older ValidFrom should sort after newer at equal priority")
	}
	if rules[3] != &low {
		t.Errorf("lowest priority should sort last, got priority %d", rules[3].Priority)
	}
}

func TestOverlapsWindow(t *testing.T) {
	checkIn := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		validFrom time.Time
		validTo   time.Time
		want      bool
	}{
		{"open-ended rule", time.Time{}, time.Time{}, true},
		{"rule expired before stay", time.Time{}, checkIn, false},
		{"rule starts after stay", checkOut, time.Time{}, false},
		{"rule covers stay", checkIn.AddDate(0, 0, -10), checkOut.AddDate(0, 0, 10), true},
		{"rule overlaps stay start", time.Time{}, checkIn.AddDate(0, 0, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := baseRule(RuleSeasonal, RuleAction{Type: ActionMultiply, Factor: 1.1})
			rule.ValidFrom = tt.validFrom
			rule.ValidTo = tt.validTo
			if got := rule.OverlapsWindow(checkIn, checkOut); got != tt.want {
				t.Errorf("OverlapsWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLeadDays(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if got := LeadDays(now, now.AddDate(0, 0, 5)); got != 5 {
		t.Errorf("LeadDays() = %d, want 5", got)
	}
	if got := LeadDays(now, now.AddDate(0, 0, -2)); got != 0 {
		t.Errorf("LeadDays() past check-in = %d, want 0", got)
	}
}
