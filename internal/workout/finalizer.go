package workout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"vivafit/internal/models"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"
	remoteInterfaces "vivafit/internal/remote/interfaces"
	"vivafit/internal/services"
	"vivafit/internal/structures"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// LastFinishKey holds the epoch-millisecond time of the last accepted finalize.
const LastFinishKey = "lastWorkoutFinish"

type FinalizerInterface interface {
	Finalize(ctx context.Context, exerciseName string, steps []models.WorkoutStep) (*models.FinalizationRecord, error)
}

// Finalizer turns finished sessions into history records. At most one
// finalize is accepted per cool-down window per device.
type Finalizer struct {
	kv       interfaces.DurableStoreInterface
	history  services.HistoryServiceInterface
	mirror   remoteInterfaces.MirrorStoreInterface
	sessions remoteInterfaces.SessionProviderInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	cooldown time.Duration
	label    string
	now      func() time.Time

	// mu covers the read, check and claim of the last-finish marker.
	mu sync.Mutex
}

func NewFinalizer(conf *structures.Config, kv interfaces.DurableStoreInterface, history services.HistoryServiceInterface, mirror remoteInterfaces.MirrorStoreInterface, sessions remoteInterfaces.SessionProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) FinalizerInterface {
	cooldown := conf.Workout.FinishCooldown
	if cooldown <= 0 {
		cooldown = structures.DefaultFinishCooldown
	}
	label := conf.Workout.DefaultLabel
	if label == "" {
		label = structures.DefaultWorkoutLabel
	}
	return &Finalizer{
		kv:       kv,
		history:  history,
		mirror:   mirror,
		sessions: sessions,
		logger:   logger,
		metrics:  metrics,
		cooldown: cooldown,
		label:    label,
		now:      time.Now,
	}
}

// Finalize claims the cool-down slot, appends the record to local history,
// flushes the store and mirrors the record remotely when a user is signed in.
// Only a rate limit or a local save failure is returned; a claimed slot is
// kept even if saving fails.
func (f *Finalizer) Finalize(ctx context.Context, exerciseName string, steps []models.WorkoutStep) (*models.FinalizationRecord, error) {
	now := f.now()

	if err := f.claim(ctx, now); err != nil {
		var rl *RateLimitError
		if errors.As(err, &rl) {
			f.metrics.IncWorkoutFinalizations("rate_limited")
		} else {
			f.metrics.IncWorkoutFinalizations("save_failed")
		}
		return nil, err
	}

	record := f.buildRecord(now, exerciseName, steps)
	if err := f.history.Append(ctx, record.HistoryEntry()); err != nil {
		f.logger.Errorf(providers.TypeWorkout, "Cannot save finished workout %s: %s", record.ID, err)
		f.metrics.IncWorkoutFinalizations("save_failed")
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	if err := f.kv.Flush(); err != nil {
		f.logger.Errorf(providers.TypeWorkout, "Cannot flush finished workout %s: %s", record.ID, err)
		f.metrics.IncWorkoutFinalizations("save_failed")
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	f.metrics.IncWorkoutFinalizations("saved")
	f.logger.Infof(providers.TypeWorkout, "Workout %q saved: %d steps, %ds", record.ExerciseName, record.StepsCount, record.DurationSeconds)

	f.mirrorRecord(ctx, record)
	return record, nil
}

func (f *Finalizer) claim(ctx context.Context, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, ok, err := f.kv.Get(ctx, LastFinishKey)
	if err != nil {
		f.logger.Warnf(providers.TypeWorkout, "Cannot read last finish marker: %s", err)
	}
	if err == nil && ok {
		last, parseErr := cast.ToInt64E(raw)
		if parseErr != nil {
			f.logger.Warnf(providers.TypeWorkout, "Ignoring corrupt last finish marker %q", raw)
		} else if elapsed := now.UnixMilli() - last; elapsed < f.cooldown.Milliseconds() {
			wait := f.cooldown - time.Duration(elapsed)*time.Millisecond
			return &RateLimitError{RetryAfter: wait}
		}
	}

	if err := f.kv.Set(ctx, LastFinishKey, cast.ToString(now.UnixMilli())); err != nil {
		f.logger.Errorf(providers.TypeWorkout, "Cannot write last finish marker: %s", err)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}

func (f *Finalizer) buildRecord(now time.Time, exerciseName string, steps []models.WorkoutStep) *models.FinalizationRecord {
	if exerciseName == "" {
		exerciseName = f.label
	}
	total := 0
	for _, s := range steps {
		total += s.Duration
	}
	return &models.FinalizationRecord{
		ID:              uuid.NewString(),
		Date:            now.UTC().Format(models.DateLayout),
		StepsCount:      len(steps),
		ExerciseName:    exerciseName,
		DurationSeconds: total,
		CompletedAt:     now.UTC(),
		Steps:           steps,
	}
}

// mirrorRecord never fails the finalize: local history is authoritative.
func (f *Finalizer) mirrorRecord(ctx context.Context, record *models.FinalizationRecord) {
	if f.mirror == nil || !f.mirror.Enabled() {
		f.metrics.IncRemoteMirror("skipped")
		return
	}
	userID, ok := f.sessions.UserID(ctx)
	if !ok {
		f.logger.Debugf(providers.TypeWorkout, "No signed-in user, workout %s kept local only", record.ID)
		f.metrics.IncRemoteMirror("skipped")
		return
	}
	if err := f.mirror.InsertCompletedWorkout(ctx, userID, *record); err != nil {
		f.logger.Errorf(providers.TypeWorkout, "Remote mirror of workout %s failed: %s", record.ID, err)
		f.metrics.IncRemoteMirror("failed")
		return
	}
	f.metrics.IncRemoteMirror("mirrored")
}
