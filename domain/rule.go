package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RuleType string

const (
	RuleSeasonal  RuleType = "SEASONAL"
	RuleOccupancy RuleType = "OCCUPANCY"
	RuleLeadTime  RuleType = "LEAD_TIME"
	RuleDayOfWeek RuleType = "DAY_OF_WEEK"
	RuleGroupSize RuleType = "GROUP_SIZE"
)

type ActionType string

const (
	ActionSetPrice   ActionType = "SET_PRICE"
	ActionMultiply   ActionType = "MULTIPLY"
	ActionAddPercent ActionType = "ADD_PERCENT"
)

type PricingRule struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HotelID    string             `bson:"hotel_id" json:"hotel_id" validate:"required"`
	RoomType   string             `bson:"room_type" json:"room_type" validate:"required"`
	RuleType   RuleType           `bson:"rule_type" json:"rule_type" validate:"required"`
	Priority   int                `bson:"priority" json:"priority"`
	Conditions RuleConditions     `bson:"conditions" json:"conditions"`
	Action     RuleAction         `bson:"action" json:"action"`
	ValidFrom  time.Time          `bson:"valid_from" json:"valid_from"`
	ValidTo    time.Time          `bson:"valid_to" json:"valid_to"`
	IsActive   bool               `bson:"is_active" json:"is_active"`
}

type RuleConditions struct {
	StartDate    *time.Time     `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate      *time.Time     `bson:"end_date,omitempty" json:"end_date,omitempty"`
	MinOccupancy *float64       `bson:"min_occupancy,omitempty" json:"min_occupancy,omitempty"`
	MaxOccupancy *float64       `bson:"max_occupancy,omitempty" json:"max_occupancy,omitempty"`
	MaxLeadDays  *int           `bson:"max_lead_days,omitempty" json:"max_lead_days,omitempty"`
	DaysOfWeek   []time.Weekday `bson:"days_of_week,omitempty" json:"days_of_week,omitempty"`
	MinRooms     *int           `bson:"min_rooms,omitempty" json:"min_rooms,omitempty"`
}

type RuleAction struct {
	Type    ActionType `bson:"type" json:"type" validate:"required"`
	Amount  float64    `bson:"amount,omitempty" json:"amount,omitempty"`
	Factor  float64    `bson:"factor,omitempty" json:"factor,omitempty"`
	Percent float64    `bson:"percent,omitempty" json:"percent,omitempty"`
}

// TripContext carries everything a rule condition can be evaluated against.
type TripContext struct {
	CheckIn       time.Time
	CheckOut      time.Time
	Rooms         int
	OccupancyRate float64
	OccupancyKnown bool
	Now           time.Time
}

// Validate checks that the rule's conditions are internally consistent for
// its rule type and that its action carries the argument that action needs.
func (r *PricingRule) Validate() error {
	if r.HotelID == "" || r.RoomType == "" {
		return ValidationError{Message: "rule must reference a hotel and room type"}
	}
	if !r.ValidTo.IsZero() && r.ValidTo.Before(r.ValidFrom) {
		return ValidationError{Message: "rule validity window ends before it starts"}
	}

	switch r.RuleType {
	case RuleSeasonal:
		if r.Conditions.StartDate != nil && r.Conditions.EndDate != nil &&
			r.Conditions.EndDate.Before(*r.Conditions.StartDate) {
			return ValidationError{Message: "seasonal date range ends before it starts"}
		}
	case RuleOccupancy:
		if r.Conditions.MinOccupancy != nil && r.Conditions.MaxOccupancy != nil &&
			*r.Conditions.MinOccupancy > *r.Conditions.MaxOccupancy {
			return ValidationError{Message: "occupancy range min is greater than max"}
		}
	case RuleLeadTime:
		if r.Conditions.MaxLeadDays != nil && *r.Conditions.MaxLeadDays < 0 {
			return ValidationError{Message: "lead time bound cannot be negative"}
		}
	case RuleDayOfWeek:
		for _, day := range r.Conditions.DaysOfWeek {
			if day < time.Sunday || day > time.Saturday {
				return ValidationError{Message: "unknown day of week in rule conditions"}
			}
		}
	case RuleGroupSize:
		if r.Conditions.MinRooms != nil && *r.Conditions.MinRooms < 1 {
			return ValidationError{Message: "group size rule needs a minimum room count of at least 1"}
		}
	default:
		return ValidationError{Message: fmt.Sprintf("unknown rule type %q", r.RuleType)}
	}

	switch r.Action.Type {
	case ActionSetPrice:
		if r.Action.Amount <= 0 {
			return ValidationError{Message: "SET_PRICE rule needs a positive amount"}
		}
	case ActionMultiply:
		if r.Action.Factor <= 0 {
			return ValidationError{Message: "MULTIPLY rule needs a positive factor"}
		}
	case ActionAddPercent:
		if r.Action.Percent <= -100 {
			return ValidationError{Message: "ADD_PERCENT rule cannot remove the whole price"}
		}
	default:
		return ValidationError{Message: fmt.Sprintf("unknown rule action %q", r.Action.Type)}
	}

	return nil
}

// Matches evaluates the rule's conditions against a trip. A malformed
// condition surfaces as a RuleEvaluationError so callers can skip the rule
// without aborting the quote.
func (r *PricingRule) Matches(trip TripContext) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, RuleEvaluationError{RuleID: r.ID.Hex(), Reason: err.Error()}
	}

	switch r.RuleType {
	case RuleSeasonal:
		if r.Conditions.StartDate != nil && trip.CheckOut.Before(*r.Conditions.StartDate) {
			return false, nil
		}
		if r.Conditions.EndDate != nil && !trip.CheckIn.Before(*r.Conditions.EndDate) {
			return false, nil
		}
		return true, nil
	case RuleOccupancy:
		if !trip.OccupancyKnown {
			return false, nil
		}
		if r.Conditions.MinOccupancy != nil && trip.OccupancyRate < *r.Conditions.MinOccupancy {
			return false, nil
		}
		if r.Conditions.MaxOccupancy != nil && trip.OccupancyRate > *r.Conditions.MaxOccupancy {
			return false, nil
		}
		return true, nil
	case RuleLeadTime:
		if r.Conditions.MaxLeadDays == nil {
			return false, RuleEvaluationError{RuleID: r.ID.Hex(), Reason: "lead time rule without a lead day bound"}
		}
		return LeadDays(trip.Now, trip.CheckIn) <= *r.Conditions.MaxLeadDays, nil
	case RuleDayOfWeek:
		if len(r.Conditions.DaysOfWeek) == 0 {
			return false, RuleEvaluationError{RuleID: r.ID.Hex(), Reason: "day of week rule without any days"}
		}
		for _, day := range r.Conditions.DaysOfWeek {
			if trip.CheckIn.Weekday() == day {
				return true, nil
			}
		}
		return false, nil
	case RuleGroupSize:
		if r.Conditions.MinRooms == nil {
			return false, RuleEvaluationError{RuleID: r.ID.Hex(), Reason: "group size rule without a room count"}
		}
		return trip.Rooms >= *r.Conditions.MinRooms, nil
	}
	return false, RuleEvaluationError{RuleID: r.ID.Hex(), Reason: fmt.Sprintf("unknown rule type %q", r.RuleType)}
}

// OverlapsWindow reports whether the rule's validity window overlaps the
// half-open stay interval [checkIn, checkOut).
func (r *PricingRule) OverlapsWindow(checkIn, checkOut time.Time) bool {
	if !r.ValidTo.IsZero() && !r.ValidTo.After(checkIn) {
		return false
	}
	if !r.ValidFrom.IsZero() && !r.ValidFrom.Before(checkOut) {
		return false
	}
	return true
}

// SortRules orders rules by priority descending, tie-broken by validFrom
// descending so the most recently created of two equal-priority rules wins.
// Admins entering two rules with the same priority is a realistic scenario,
// so the ordering has to be deterministic.
func SortRules(rules []*PricingRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].ValidFrom.After(rules[j].ValidFrom)
	})
}

// LeadDays is the number of whole days between quote time and check-in.
func LeadDays(now, checkIn time.Time) int {
	days := int(checkIn.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

type PricingRules []*PricingRule

func (o *PricingRule) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}

func (o *PricingRule) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(o)
}

func (o *PricingRules) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}
