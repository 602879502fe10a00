package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(ctx, "userProfile")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "userProfile", `{"activityLevel":2}`))
	v, ok, err := s.Get(ctx, "userProfile")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"activityLevel":2}`, v)

	require.NoError(t, s.Set(ctx, "userProfile", `{"activityLevel":0}`))
	v, _, _ = s.Get(ctx, "userProfile")
	assert.Equal(t, `{"activityLevel":0}`, v, "upsert overwrites")

	require.NoError(t, s.Remove(ctx, "userProfile"))
	_, ok, err = s.Get(ctx, "userProfile")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_EmptyKeyRejected(t *testing.T) {
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer s.Close()

	assert.Error(t, s.Set(context.Background(), "", "v"))
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "kv.db")

	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "lastWorkoutFinish", "123"))
	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err, "migrations are idempotent")
	defer reopened.Close()
	require.NoError(t, reopened.Restore())

	v, ok, err := reopened.Get(ctx, "lastWorkoutFinish")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "123", v)
}
