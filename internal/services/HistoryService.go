package services

import (
	"context"
	"fmt"
	"sync"
	"time"
	"vivafit/internal/catalog"
	"vivafit/internal/models"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"

	"github.com/RoaringBitmap/roaring/v2"
	json "github.com/goccy/go-json"
)

const HistoryKey = "completedWorkouts"

const progressDays = 7

type HistoryServiceInterface interface {
	List(ctx context.Context) []models.HistoryEntry
	Append(ctx context.Context, entry models.HistoryEntry) error
	Achievements(ctx context.Context) []models.Achievement
	Progress(ctx context.Context) models.ProgressStats
}

// HistoryService owns the local log of completed workouts. The log is stored
// oldest first as one JSON array.
type HistoryService struct {
	kv      interfaces.KeyValueStoreInterface
	catalog catalog.CatalogInterface
	logger  providers.Logger
	now     func() time.Time
	mu      sync.Mutex
}

func NewHistoryService(kv interfaces.KeyValueStoreInterface, cat catalog.CatalogInterface, logger providers.Logger) HistoryServiceInterface {
	return &HistoryService{
		kv:      kv,
		catalog: cat,
		logger:  logger,
		now:     time.Now,
	}
}

// List returns the history newest first.
func (s *HistoryService) List(ctx context.Context) []models.HistoryEntry {
	s.mu.Lock()
	entries, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		s.logger.Warnf(providers.TypeWorkout, "Cannot read workout history: %s", err)
		return []models.HistoryEntry{}
	}

	out := make([]models.HistoryEntry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

// Append rewrites the whole log with entry added at the end. A corrupt log is
// replaced; a failed read leaves the stored log untouched.
func (s *HistoryService) Append(ctx context.Context, entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	entries = append(entries, entry)
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := s.kv.Set(ctx, HistoryKey, string(raw)); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

func (s *HistoryService) Achievements(ctx context.Context) []models.Achievement {
	total := len(s.List(ctx))

	achievements := s.catalog.Achievements()
	for i := range achievements {
		a := &achievements[i]
		a.Progress = min(total, a.MaxProgress)
		a.Unlocked = total >= a.MaxProgress
	}
	return achievements
}

// Progress summarizes the history: total workouts and steps per day for the
// last seven days, oldest first.
func (s *HistoryService) Progress(ctx context.Context) models.ProgressStats {
	entries := s.List(ctx)

	perDay := make(map[string]int, len(entries))
	activeDays := roaring.New()
	for _, e := range entries {
		perDay[e.Date] += e.Steps
		if day, ok := dayNumber(e.Date); ok {
			activeDays.Add(day)
		}
	}

	stats := models.ProgressStats{
		TotalWorkouts: len(entries),
		LastSevenDays: make([]models.DayProgress, 0, progressDays),
	}
	today := s.now().UTC()
	for i := progressDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(models.DateLayout)
		steps := perDay[date]
		if day, ok := dayNumber(date); ok && activeDays.Contains(day) {
			stats.ActiveDays++
		}
		stats.LastSevenDays = append(stats.LastSevenDays, models.DayProgress{Date: date, Steps: steps})
		stats.WeekSteps += steps
	}

	todayNum, _ := dayNumber(today.Format(models.DateLayout))
	stats.CurrentStreak = streak(activeDays, todayNum)
	return stats
}

// dayNumber maps a history date to days since the Unix epoch.
func dayNumber(date string) (uint32, bool) {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil || t.Unix() < 0 {
		return 0, false
	}
	return uint32(t.Unix() / 86400), true
}

func streak(days *roaring.Bitmap, today uint32) int {
	day := today
	if !days.Contains(day) {
		if day == 0 || !days.Contains(day-1) {
			return 0
		}
		day--
	}
	n := 0
	for days.Contains(day) {
		n++
		if day == 0 {
			break
		}
		day--
	}
	return n
}

// load returns an error only when the store could not be read. An absent or
// corrupt log is empty.
func (s *HistoryService) load(ctx context.Context) ([]models.HistoryEntry, error) {
	raw, ok, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warnf(providers.TypeWorkout, "Workout history is corrupt, treating as empty: %s", err)
		return nil, nil
	}
	return entries, nil
}
