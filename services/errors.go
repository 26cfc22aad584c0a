package services

import (
	"errors"
	"fmt"
)

// Failure modes surfaced to controllers. Everything here is terminal for the
// triggering request; nothing is retried.
var (
	ErrInvalidProfileInput  = errors.New("age, height and weight must be positive numbers")
	ErrEstimationService    = errors.New("estimation service request failed")
	ErrEntryNotFound        = errors.New("food entry not found")
	ErrAnalysisLimitReached = errors.New("free analysis limit reached, please upgrade to continue")
)

// MalformedResponseError reports an estimation response body that could not
// be parsed into the expected JSON shape. Preview carries at most 200
// characters of the raw body for the user-facing message. An attempted meal
// is never logged when this error is returned.
type MalformedResponseError struct {
	Preview string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("invalid analysis format, raw response: %s", e.Preview)
}
