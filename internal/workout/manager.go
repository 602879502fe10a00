package workout

import (
	"context"
	"fmt"
	"sync"
	"time"
	"vivafit/internal/catalog"
	"vivafit/internal/models"
	"vivafit/internal/providers"
	"vivafit/internal/services"
	"vivafit/internal/structures"

	"github.com/google/uuid"
)

type ManagerInterface interface {
	Start(ctx context.Context, exerciseID string) (SessionInterface, error)
	Current() (SessionInterface, error)
	Close()
}

// Manager owns the single active workout session of the device.
type Manager struct {
	catalog            catalog.CatalogInterface
	profile            services.ProfileServiceInterface
	finalizer          FinalizerInterface
	logger             providers.Logger
	metrics            providers.MetricsProviderInterface
	interval           time.Duration
	restAfterFinalStep bool

	mu      sync.Mutex
	current *Session
}

func NewManager(conf *structures.Config, cat catalog.CatalogInterface, profile services.ProfileServiceInterface, finalizer FinalizerInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) ManagerInterface {
	interval := conf.Workout.TickInterval
	if interval <= 0 {
		interval = structures.DefaultTickInterval
	}
	return &Manager{
		catalog:            cat,
		profile:            profile,
		finalizer:          finalizer,
		logger:             logger,
		metrics:            metrics,
		interval:           interval,
		restAfterFinalStep: conf.Workout.RestAfterFinalStep,
	}
}

// Start replaces the active session. With an exerciseID the steps are built
// from that catalog exercise, otherwise from the profile's activity level.
func (m *Manager) Start(ctx context.Context, exerciseID string) (SessionInterface, error) {
	steps, name, err := m.stepsFor(ctx, models.NormalizeExerciseID(exerciseID))
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(steps, m.restAfterFinalStep)
	if err != nil {
		return nil, err
	}

	session := newSession(uuid.NewString(), name, engine, m.interval, m.finalizer, m.logger, m.metrics)

	m.mu.Lock()
	previous := m.current
	m.current = session
	m.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	m.metrics.IncWorkoutsStarted()
	m.metrics.SetActiveSessions(1)
	m.logger.Infof(providers.TypeWorkout, "Workout session %s started with %d steps", session.ID(), len(steps))
	return session, nil
}

func (m *Manager) stepsFor(ctx context.Context, exerciseID string) ([]models.WorkoutStep, string, error) {
	if exerciseID != "" {
		ex, ok := m.catalog.Find(exerciseID)
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrUnknownExercise, exerciseID)
		}
		return m.catalog.StepsForExercise(ex), ex.Name, nil
	}
	level := m.profile.Profile(ctx).ActivityLevel
	return m.catalog.PlanForActivityLevel(level), "", nil
}

func (m *Manager) Current() (SessionInterface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNoSession
	}
	return m.current, nil
}

// Close disposes the active session, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	current := m.current
	m.current = nil
	m.mu.Unlock()

	if current != nil {
		current.Close()
	}
	m.metrics.SetActiveSessions(0)
}
