package services

import (
	"context"
	"errors"
	"testing"
	"time"
	"vivafit/internal/catalog"
	"vivafit/internal/models"
	"vivafit/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryService(t *testing.T, kv *testutil.MockKV) *HistoryService {
	t.Helper()
	cat, err := catalog.NewCatalog()
	require.NoError(t, err)
	svc := NewHistoryService(kv, cat, &testutil.MockLogger{}).(*HistoryService)
	svc.now = testutil.NewMockClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)).Now
	return svc
}

func TestHistory_AppendAndListNewestFirst(t *testing.T) {
	kv := testutil.NewMockKV()
	svc := newHistoryService(t, kv)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, models.HistoryEntry{Date: "2024-03-08", Steps: 3, ExerciseName: "First"}))
	require.NoError(t, svc.Append(ctx, models.HistoryEntry{Date: "2024-03-09", Steps: 5, ExerciseName: "Second"}))

	list := svc.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].ExerciseName)
	assert.Equal(t, "First", list[1].ExerciseName)

	raw, ok := kv.Value(HistoryKey)
	require.True(t, ok)
	assert.JSONEq(t, `[
		{"date":"2024-03-08","steps":3,"exerciseName":"First","duration_seconds":0},
		{"date":"2024-03-09","steps":5,"exerciseName":"Second","duration_seconds":0}
	]`, raw)
}

func TestHistory_CorruptLogIsEmptyAndReplaced(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Put(HistoryKey, "not an array")
	svc := newHistoryService(t, kv)
	ctx := context.Background()

	assert.Empty(t, svc.List(ctx))
	require.NoError(t, svc.Append(ctx, models.HistoryEntry{Date: "2024-03-10", Steps: 1}))
	assert.Len(t, svc.List(ctx), 1)
}

func TestHistory_AppendFailure(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.FailSetKeys = map[string]bool{HistoryKey: true}
	svc := newHistoryService(t, kv)

	assert.Error(t, svc.Append(context.Background(), models.HistoryEntry{Date: "2024-03-10"}))
}

func TestHistory_Achievements(t *testing.T) {
	kv := testutil.NewMockKV()
	svc := newHistoryService(t, kv)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Append(ctx, models.HistoryEntry{Date: "2024-03-10", Steps: 1}))
	}

	byID := map[string]models.Achievement{}
	for _, a := range svc.Achievements(ctx) {
		byID[a.ID] = a
	}
	assert.True(t, byID["first-workout"].Unlocked)
	assert.Equal(t, 1, byID["first-workout"].Progress)
	assert.True(t, byID["week-warrior"].Unlocked)
	assert.False(t, byID["consistency-king"].Unlocked)
	assert.Equal(t, 5, byID["consistency-king"].Progress)
	assert.Equal(t, 5, byID["cardio-champion"].Progress)
}

func TestHistory_Progress(t *testing.T) {
	kv := testutil.NewMockKV()
	svc := newHistoryService(t, kv)
	ctx := context.Background()

	for _, e := range []models.HistoryEntry{
		{Date: "2024-02-20", Steps: 9},
		{Date: "2024-03-04", Steps: 2},
		{Date: "2024-03-09", Steps: 3},
		{Date: "2024-03-10", Steps: 4},
		{Date: "2024-03-10", Steps: 1},
	} {
		require.NoError(t, svc.Append(ctx, e))
	}

	stats := svc.Progress(ctx)
	assert.Equal(t, 5, stats.TotalWorkouts)
	require.Len(t, stats.LastSevenDays, 7)
	assert.Equal(t, models.DayProgress{Date: "2024-03-04", Steps: 2}, stats.LastSevenDays[0])
	assert.Equal(t, models.DayProgress{Date: "2024-03-09", Steps: 3}, stats.LastSevenDays[5])
	assert.Equal(t, models.DayProgress{Date: "2024-03-10", Steps: 5}, stats.LastSevenDays[6])
	assert.Equal(t, 10, stats.WeekSteps)
	assert.Equal(t, 3, stats.ActiveDays)
	assert.Equal(t, 2, stats.CurrentStreak)
}

func TestHistory_StreakEndingYesterday(t *testing.T) {
	kv := testutil.NewMockKV()
	svc := newHistoryService(t, kv)
	ctx := context.Background()

	for _, date := range []string{"2024-03-05", "2024-03-07", "2024-03-08", "2024-03-09", "2024-03-09"} {
		require.NoError(t, svc.Append(ctx, models.HistoryEntry{Date: date, Steps: 1}))
	}

	stats := svc.Progress(ctx)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 4, stats.ActiveDays)
}

func TestHistory_StreakBrokenAndBadDates(t *testing.T) {
	kv := testutil.NewMockKV()
	svc := newHistoryService(t, kv)
	ctx := context.Background()

	for _, date := range []string{"2024-03-07", "not-a-date", ""} {
		require.NoError(t, svc.Append(ctx, models.HistoryEntry{Date: date, Steps: 1}))
	}

	stats := svc.Progress(ctx)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 1, stats.ActiveDays)
	assert.Equal(t, 3, stats.TotalWorkouts)
}

func TestHistory_ReadErrorIsEmpty(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.GetErr = errors.New("unavailable")
	svc := newHistoryService(t, kv)

	assert.Empty(t, svc.List(context.Background()))
	assert.Equal(t, 0, svc.Progress(context.Background()).TotalWorkouts)
}

func TestHistory_AppendKeepsLogWhenReadFails(t *testing.T) {
	kv := testutil.NewMockKV()
	svc := newHistoryService(t, kv)
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		require.NoError(t, svc.Append(ctx, models.HistoryEntry{Date: "2024-03-10", Steps: 1, ExerciseName: name}))
	}
	before, _ := kv.Value(HistoryKey)
	writes := kv.SetCount(HistoryKey)

	kv.FailGets = 1
	err := svc.Append(ctx, models.HistoryEntry{Date: "2024-03-10", Steps: 1, ExerciseName: "Four"})
	require.Error(t, err)

	after, _ := kv.Value(HistoryKey)
	assert.Equal(t, before, after)
	assert.Equal(t, writes, kv.SetCount(HistoryKey))

	list := svc.List(ctx)
	require.Len(t, list, 3)
	assert.Equal(t, "Three", list[0].ExerciseName)
}
