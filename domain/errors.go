package domain

import (
	"errors"
	"fmt"
)

var (
	errInvalidDateRange = errors.New("check-out must be after check-in and the range cannot be fully in the past")
	errSnapshotNotFound = errors.New("demand snapshot not found")
	errRuleNotFound     = errors.New("pricing rule not found")
	errHotelNotFound    = errors.New("hotel not found")
)

func ErrInvalidDateRange() error { return errInvalidDateRange }
func ErrSnapshotNotFound() error { return errSnapshotNotFound }
func ErrRuleNotFound() error     { return errRuleNotFound }
func ErrHotelNotFound() error    { return errHotelNotFound }

// ValidationError is surfaced to the caller immediately and never retried.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var ve ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, errInvalidDateRange)
}

// UpstreamUnavailableError marks a cache or store that could not be reached.
// Callers degrade to direct computation and log at warn level instead of
// failing the read.
type UpstreamUnavailableError struct {
	Upstream string
	Err      error
}

func (e UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("upstream %s unavailable: %v", e.Upstream, e.Err)
}

func (e UpstreamUnavailableError) Unwrap() error {
	return e.Err
}

// RuleEvaluationError marks a single malformed rule. The offending rule is
// skipped and logged; one bad rule never blocks pricing for a hotel.
type RuleEvaluationError struct {
	RuleID string
	Reason string
}

func (e RuleEvaluationError) Error() string {
	return fmt.Sprintf("rule %s skipped: %s", e.RuleID, e.Reason)
}
