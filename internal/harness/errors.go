package harness

import (
	"errors"
	"fmt"
)

// TrialError records a defect observed during one validation trial.
//
// Trial errors are assertion failures, not retry conditions: they are
// collected into the category's failure list and fail the run. They are
// distinct from soft non-success result codes, which only lower the
// category's success rate.
type TrialError struct {
	// Code identifies the defect category.
	Code TrialErrorCode

	// Category names the validation category the trial belongs to.
	Category Category

	// Trial is the 1-based trial index within the category.
	Trial int

	// Message is a human-readable description.
	Message string
}

// TrialErrorCode categorizes trial defects.
type TrialErrorCode string

const (
	// ErrCodeFKFailed indicates FK failed on a limits-valid sample.
	ErrCodeFKFailed TrialErrorCode = "FK_FAILED"

	// ErrCodeBadPoseCount indicates FK returned a pose count other than
	// one pose per requested link.
	ErrCodeBadPoseCount TrialErrorCode = "BAD_POSE_COUNT"

	// ErrCodeRoundTripMismatch indicates FK of an IK solution deviates
	// from the reference pose beyond tolerance.
	ErrCodeRoundTripMismatch TrialErrorCode = "ROUNDTRIP_MISMATCH"

	// ErrCodeEmptySolutionSet indicates a multi-solution query reported
	// OK but returned no solutions.
	ErrCodeEmptySolutionSet TrialErrorCode = "EMPTY_SOLUTION_SET"

	// ErrCodeCallbackViolation indicates a search accepted a candidate
	// the acceptance callback must have rejected.
	ErrCodeCallbackViolation TrialErrorCode = "CALLBACK_VIOLATION"
)

// Error implements the error interface.
func (e *TrialError) Error() string {
	return fmt.Sprintf("%s: %s (category=%s, trial=%d)", e.Code, e.Message, e.Category, e.Trial)
}

// IsRoundTripError returns true if the error is a round-trip mismatch.
// Uses errors.As to handle wrapped errors.
func IsRoundTripError(err error) bool {
	var te *TrialError
	if errors.As(err, &te) {
		return te.Code == ErrCodeRoundTripMismatch
	}
	return false
}

// newTrialError creates a TrialError for the given category and trial.
func newTrialError(code TrialErrorCode, category Category, trial int, format string, args ...any) *TrialError {
	return &TrialError{
		Code:     code,
		Category: category,
		Trial:    trial,
		Message:  fmt.Sprintf(format, args...),
	}
}
