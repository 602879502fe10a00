package interfaces

import (
	"context"
	"vivafit/internal/models"
)

// MirrorStoreInterface is the optional remote copy of completed workouts,
// scoped by authenticated user id.
type MirrorStoreInterface interface {
	Enabled() bool
	InsertCompletedWorkout(ctx context.Context, userID string, record models.FinalizationRecord) error
	Close()
}
