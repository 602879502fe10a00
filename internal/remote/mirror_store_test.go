package remote

import (
	"context"
	"errors"
	"testing"
	"time"
	"vivafit/internal/models"
	"vivafit/internal/structures"
	"vivafit/internal/testutil"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePool struct {
	sql    string
	args   []any
	err    error
	closed bool
}

func (f *fakePool) Exec(_ context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.sql = sql
	f.args = arguments
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func (f *fakePool) Close() { f.closed = true }

func testRecord() models.FinalizationRecord {
	return models.FinalizationRecord{
		ID:              "0b8e7c1e-2b0a-4a53-9a51-1d3c1c4b7e10",
		Date:            "2026-10-16",
		StepsCount:      3,
		ExerciseName:    "Chair Squat",
		DurationSeconds: 435,
		CompletedAt:     time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
	}
}

func TestPgMirrorStore_Insert(t *testing.T) {
	pool := &fakePool{}
	s := &PgMirrorStore{pool: pool, logger: &testutil.MockLogger{}}

	require.NoError(t, s.InsertCompletedWorkout(context.Background(), "user-1", testRecord()))
	assert.Contains(t, pool.sql, "INSERT INTO completed_workouts")
	require.Len(t, pool.args, 7)
	assert.Equal(t, "user-1", pool.args[0])
	assert.Equal(t, "2026-10-16", pool.args[1])
	assert.Equal(t, 3, pool.args[2])
	assert.Equal(t, "Chair Squat", pool.args[3])
	assert.Equal(t, "Chair Squat", pool.args[4])
	assert.Equal(t, 435, pool.args[5])

	var meta map[string]any
	require.NoError(t, json.Unmarshal(pool.args[6].([]byte), &meta))
	assert.Equal(t, float64(3), meta["workoutSteps"])
	assert.Equal(t, "2026-10-16T09:30:00Z", meta["completedAt"])

	s.Close()
	assert.True(t, pool.closed)
}

func TestPgMirrorStore_InsertError(t *testing.T) {
	pool := &fakePool{err: errors.New("connection refused")}
	s := &PgMirrorStore{pool: pool, logger: &testutil.MockLogger{}}

	err := s.InsertCompletedWorkout(context.Background(), "user-1", testRecord())
	assert.ErrorContains(t, err, "connection refused")
}

func TestNewMirrorStore_DisabledIsNoop(t *testing.T) {
	s := NewMirrorStore(&structures.Config{}, &testutil.MockLogger{})
	assert.False(t, s.Enabled())
	assert.NoError(t, s.InsertCompletedWorkout(context.Background(), "u", testRecord()))
	s.Close()
}

func TestNewMirrorStore_InvalidDSNIsNoop(t *testing.T) {
	logger := &testutil.MockLogger{}
	conf := &structures.Config{Remote: structures.RemoteConfig{Enabled: true, DSN: "postgres://%zz"}}
	s := NewMirrorStore(conf, logger)
	assert.False(t, s.Enabled())
	assert.Equal(t, 1, logger.Count("error"))
}
