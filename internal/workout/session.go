package workout

import (
	"context"
	"sync"
	"time"
	"vivafit/internal/models"
	"vivafit/internal/providers"
)

type SessionInterface interface {
	ID() string
	Snapshot() models.WorkoutSnapshot
	TogglePlayPause() (models.WorkoutSnapshot, error)
	SkipToNext(ctx context.Context) (models.WorkoutSnapshot, *models.FinalizationRecord, error)
	Reset() (models.WorkoutSnapshot, error)
	Finish(ctx context.Context) (*models.FinalizationRecord, error)
	Close()
}

// Session drives one Engine from a ticker goroutine. The ticker only runs
// while the engine is running and is released on pause, completion and Close.
type Session struct {
	id           string
	exerciseName string
	finalizer    FinalizerInterface
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
	interval     time.Duration

	// mu guards engine, finalized and closed.
	mu        sync.Mutex
	engine    *Engine
	finalized bool
	closed    bool

	// finishMu serializes Finish calls across the finalizer I/O.
	finishMu sync.Mutex

	syncCh    chan struct{}
	doneCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newSession(id, exerciseName string, engine *Engine, interval time.Duration, finalizer FinalizerInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Session {
	s := &Session{
		id:           id,
		exerciseName: exerciseName,
		engine:       engine,
		interval:     interval,
		finalizer:    finalizer,
		logger:       logger,
		metrics:      metrics,
		syncCh:       make(chan struct{}, 1),
		doneCh:       make(chan struct{}),
	}
	engine.Settle()
	s.wg.Add(1)
	go s.run()
	s.notify()
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Snapshot() models.WorkoutSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) TogglePlayPause() (models.WorkoutSnapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.WorkoutSnapshot{}, ErrSessionClosed
	}
	s.engine.TogglePlayPause()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify()
	return snap, nil
}

// SkipToNext advances to the next step. On the last step it finishes the
// workout and returns the saved record.
func (s *Session) SkipToNext(ctx context.Context) (models.WorkoutSnapshot, *models.FinalizationRecord, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.WorkoutSnapshot{}, nil, ErrSessionClosed
	}
	mustFinish := s.engine.SkipToNext()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if !mustFinish {
		s.notify()
		return snap, nil, nil
	}

	record, err := s.Finish(ctx)
	return s.Snapshot(), record, err
}

func (s *Session) Reset() (models.WorkoutSnapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.WorkoutSnapshot{}, ErrSessionClosed
	}
	s.engine.Reset()
	s.engine.Settle()
	s.finalized = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify()
	return snap, nil
}

// Finish finalizes the session whether or not the countdown has completed.
func (s *Session) Finish(ctx context.Context) (*models.FinalizationRecord, error) {
	s.finishMu.Lock()
	defer s.finishMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.finalized {
		s.mu.Unlock()
		return nil, ErrAlreadyFinalized
	}
	steps := s.engine.Steps()
	s.mu.Unlock()

	record, err := s.finalizer.Finalize(ctx, s.exerciseName, steps)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.engine.MarkComplete()
	s.finalized = true
	s.mu.Unlock()

	s.notify()
	return record, nil
}

// Close stops the ticker goroutine. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.doneCh)
		s.wg.Wait()
		s.logger.Debugf(providers.TypeWorkout, "Workout session %s closed", s.id)
	})
}

// notify asks the loop to re-read the running flag. Signals coalesce.
func (s *Session) notify() {
	select {
	case s.syncCh <- struct{}{}:
	default:
	}
}

func (s *Session) snapshotLocked() models.WorkoutSnapshot {
	snap := models.WorkoutSnapshot{
		SessionID:    s.id,
		ExerciseName: s.exerciseName,
		Finalized:    s.finalized,
	}
	s.engine.fill(&snap)
	return snap
}

func (s *Session) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	ticker.Stop()
	ticking := false

	for {
		select {
		case <-s.doneCh:
			ticker.Stop()
			return

		case <-s.syncCh:
			s.mu.Lock()
			running := s.engine.Running()
			s.mu.Unlock()

			switch {
			case running && !ticking:
				ticker.Reset(s.interval)
				ticking = true
			case !running && ticking:
				ticker.Stop()
				ticking = false
			}

		case <-ticker.C:
			s.mu.Lock()
			completed := s.engine.Tick()
			running := s.engine.Running()
			s.mu.Unlock()

			s.metrics.IncWorkoutTicks()
			if completed {
				s.logger.Infof(providers.TypeWorkout, "Workout session %s completed", s.id)
			}
			if !running {
				ticker.Stop()
				ticking = false
			}
		}
	}
}
