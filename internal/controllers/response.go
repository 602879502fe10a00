package controllers

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"vivafit/internal/providers"
	"vivafit/internal/workout"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// decodeBody reads an optional JSON body into dst. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeWorkoutError maps workout errors to HTTP statuses.
func writeWorkoutError(w http.ResponseWriter, logger providers.Logger, err error) {
	var rl *workout.RateLimitError
	switch {
	case errors.As(err, &rl):
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
		http.Error(w, rl.Error(), http.StatusTooManyRequests)
	case errors.Is(err, workout.ErrSaveFailed):
		logger.Errorf(providers.TypeWorkout, "Finalize failed: %s", err)
		http.Error(w, "Could not save workout", http.StatusInternalServerError)
	case errors.Is(err, workout.ErrNoSession), errors.Is(err, workout.ErrUnknownExercise):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, workout.ErrAlreadyFinalized), errors.Is(err, workout.ErrSessionClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, workout.ErrEmptyWorkout), errors.Is(err, workout.ErrInvalidStep):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Errorf(providers.TypeWorkout, "Workout request failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
