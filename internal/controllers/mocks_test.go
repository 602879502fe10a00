package controllers

import (
	"context"
	"vivafit/internal/models"
	"vivafit/internal/providers"
	"vivafit/internal/services"
	"vivafit/internal/workout"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache                     { return &mockCache{data: make(map[string][]byte)} }
func (m *mockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *mockCache) Set(key string, value []byte)  { m.data[key] = value }
func (m *mockCache) Clear()                        { m.data = make(map[string][]byte) }

type mockSession struct {
	snap      models.WorkoutSnapshot
	record    *models.FinalizationRecord
	err       error
	finishErr error
	toggles   int
	skips     int
	resets    int
	finishes  int
}

func (m *mockSession) ID() string                       { return m.snap.SessionID }
func (m *mockSession) Snapshot() models.WorkoutSnapshot { return m.snap }
func (m *mockSession) TogglePlayPause() (models.WorkoutSnapshot, error) {
	m.toggles++
	if m.err != nil {
		return models.WorkoutSnapshot{}, m.err
	}
	m.snap.Running = !m.snap.Running
	return m.snap, nil
}
func (m *mockSession) SkipToNext(_ context.Context) (models.WorkoutSnapshot, *models.FinalizationRecord, error) {
	m.skips++
	if m.err != nil {
		return models.WorkoutSnapshot{}, nil, m.err
	}
	m.snap.CurrentStepIndex++
	return m.snap, nil, nil
}
func (m *mockSession) Reset() (models.WorkoutSnapshot, error) {
	m.resets++
	if m.err != nil {
		return models.WorkoutSnapshot{}, m.err
	}
	m.snap.CurrentStepIndex = 0
	return m.snap, nil
}
func (m *mockSession) Finish(_ context.Context) (*models.FinalizationRecord, error) {
	m.finishes++
	if m.finishErr != nil {
		return nil, m.finishErr
	}
	m.snap.Complete = true
	m.snap.Finalized = true
	return m.record, nil
}
func (m *mockSession) Close() {}

type mockManager struct {
	session  *mockSession
	startErr error
	started  []string
}

func (m *mockManager) Start(_ context.Context, exerciseID string) (workout.SessionInterface, error) {
	m.started = append(m.started, exerciseID)
	if m.startErr != nil {
		return nil, m.startErr
	}
	if m.session == nil {
		m.session = &mockSession{snap: models.WorkoutSnapshot{SessionID: "s1"}}
	}
	return m.session, nil
}

func (m *mockManager) Current() (workout.SessionInterface, error) {
	if m.session == nil {
		return nil, workout.ErrNoSession
	}
	return m.session, nil
}

func (m *mockManager) Close() {}

type mockDetails struct {
	detail  *models.ExerciseDetail
	err     error
	ids     []string
	cleared int
}

func (m *mockDetails) Load(_ context.Context, id string) (*models.ExerciseDetail, error) {
	m.ids = append(m.ids, id)
	return m.detail, m.err
}

func (m *mockDetails) ClearCache(_ context.Context) { m.cleared++ }

type mockHistory struct {
	entries      []models.HistoryEntry
	achievements []models.Achievement
	progress     models.ProgressStats
}

func (m *mockHistory) List(_ context.Context) []models.HistoryEntry { return m.entries }
func (m *mockHistory) Append(_ context.Context, e models.HistoryEntry) error {
	m.entries = append(m.entries, e)
	return nil
}
func (m *mockHistory) Achievements(_ context.Context) []models.Achievement { return m.achievements }
func (m *mockHistory) Progress(_ context.Context) models.ProgressStats     { return m.progress }

type mockProfile struct {
	level  int
	setErr error
}

func (m *mockProfile) Profile(_ context.Context) models.UserProfile {
	return models.UserProfile{ActivityLevel: m.level}
}

func (m *mockProfile) SetActivityLevel(_ context.Context, level int) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.level = level
	return nil
}

type mockPlans struct {
	plans   []models.SubscriptionPlan
	current *models.SubscriptionPlan
	err     error
}

func (m *mockPlans) Plans() []models.SubscriptionPlan { return m.plans }
func (m *mockPlans) Current(_ context.Context) *models.SubscriptionPlan {
	return m.current
}
func (m *mockPlans) Subscribe(_ context.Context, id string) (models.SubscriptionPlan, error) {
	if m.err != nil {
		return models.SubscriptionPlan{}, m.err
	}
	for _, p := range m.plans {
		if p.ID == id {
			m.current = &p
			return p, nil
		}
	}
	return models.SubscriptionPlan{}, services.ErrUnknownPlan
}
func (m *mockPlans) Cancel(_ context.Context) error {
	m.current = nil
	return m.err
}

type mockSettings struct {
	prefs     models.Preferences
	onboarded bool
	saveErr   error
	signOuts  int
}

func (m *mockSettings) Preferences(_ context.Context) models.Preferences { return m.prefs }
func (m *mockSettings) SavePreferences(_ context.Context, p models.Preferences) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.prefs = p
	return nil
}
func (m *mockSettings) Onboarded(_ context.Context) bool { return m.onboarded }
func (m *mockSettings) CompleteOnboarding(_ context.Context) error {
	m.onboarded = true
	return nil
}
func (m *mockSettings) SignOut(_ context.Context) error {
	m.signOuts++
	m.onboarded = false
	return nil
}

type mockDebugLogs struct {
	entries []providers.RingEntry
	levels  []string
	clears  int
}

func (m *mockDebugLogs) Logs(level string) []providers.RingEntry {
	m.levels = append(m.levels, level)
	return m.entries
}
func (m *mockDebugLogs) Clear(_ context.Context) error {
	m.clears++
	m.entries = nil
	return nil
}
func (m *mockDebugLogs) Export() ([]byte, error)       { return []byte(`[]`), nil }
func (m *mockDebugLogs) BeforeFlush(_ context.Context) {}
