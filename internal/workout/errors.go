package workout

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyWorkout     = errors.New("workout has no steps")
	ErrInvalidStep      = errors.New("invalid workout step")
	ErrRateLimited      = errors.New("workout finished too recently")
	ErrSaveFailed       = errors.New("could not save workout")
	ErrNoSession        = errors.New("no active workout session")
	ErrSessionClosed    = errors.New("workout session closed")
	ErrAlreadyFinalized = errors.New("workout already finalized")
	ErrUnknownExercise  = errors.New("unknown exercise")
)

// RateLimitError rejects a finalize inside the cool-down window.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrRateLimited, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
