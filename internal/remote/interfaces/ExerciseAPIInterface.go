package interfaces

import (
	"context"
	"vivafit/internal/models"
)

type ExerciseAPIInterface interface {
	FetchExercise(ctx context.Context, id string) (*models.ExerciseMetadata, error)
}
