package remote

import (
	"context"
	"fmt"
	"time"
	"vivafit/internal/models"
	"vivafit/internal/providers"
	"vivafit/internal/remote/interfaces"
	"vivafit/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertCompletedWorkout = `INSERT INTO completed_workouts
	(user_id, date, steps, exercise, exercise_name, duration_seconds, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

type execPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Close()
}

// PgMirrorStore copies completed workouts into the remote Postgres backend.
type PgMirrorStore struct {
	pool   execPool
	logger providers.Logger
}

// NewMirrorStore returns a Postgres-backed mirror when remote.enabled is set.
// An unreachable database is logged but not fatal: the pool reconnects lazily
// and each insert failure is reported to the caller.
func NewMirrorStore(conf *structures.Config, logger providers.Logger) interfaces.MirrorStoreInterface {
	if !conf.Remote.Enabled {
		logger.Infof(providers.TypeApp, "Remote mirror disabled")
		return &noopMirror{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, conf.Remote.DSN)
	if err != nil {
		logger.Errorf(providers.TypeApp, "Remote mirror disabled, invalid DSN: %s", err)
		return &noopMirror{}
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Warnf(providers.TypeApp, "Remote database not reachable yet: %s", err)
	}

	return &PgMirrorStore{pool: pool, logger: logger}
}

func (s *PgMirrorStore) Enabled() bool { return true }

func (s *PgMirrorStore) InsertCompletedWorkout(ctx context.Context, userID string, record models.FinalizationRecord) error {
	args, err := completedWorkoutArgs(userID, record)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, insertCompletedWorkout, args...); err != nil {
		return fmt.Errorf("inserting completed workout: %w", err)
	}
	return nil
}

func (s *PgMirrorStore) Close() {
	s.pool.Close()
}

func completedWorkoutArgs(userID string, record models.FinalizationRecord) ([]any, error) {
	metadata, err := json.Marshal(map[string]any{
		"id":           record.ID,
		"workoutSteps": record.StepsCount,
		"completedAt":  record.CompletedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	return []any{
		userID,
		record.Date,
		record.StepsCount,
		record.ExerciseName,
		record.ExerciseName,
		record.DurationSeconds,
		metadata,
	}, nil
}

type noopMirror struct{}

func (n *noopMirror) Enabled() bool { return false }
func (n *noopMirror) InsertCompletedWorkout(_ context.Context, _ string, _ models.FinalizationRecord) error {
	return nil
}
func (n *noopMirror) Close() {}
