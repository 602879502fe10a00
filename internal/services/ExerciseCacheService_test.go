package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"vivafit/internal/models"
	"vivafit/internal/structures"
	"vivafit/internal/testutil"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImageURL = "https://img.example.com/exercises/42.jpg"

type cacheFixture struct {
	svc     *ExerciseCacheService
	kv      *testutil.MockKV
	files   *testutil.MockFileStorage
	metrics *testutil.MockMetrics
	logger  *testutil.MockLogger
	clock   *testutil.MockClock
}

func newCacheFixture(t *testing.T) *cacheFixture {
	t.Helper()
	conf := &structures.Config{}
	conf.ApplyDefaults()

	f := &cacheFixture{
		kv:      testutil.NewMockKV(),
		files:   testutil.NewMockFileStorage(t.TempDir()),
		metrics: &testutil.MockMetrics{},
		logger:  &testutil.MockLogger{},
		clock:   testutil.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	f.svc = NewExerciseCacheService(conf, f.kv, f.files, f.logger, f.metrics).(*ExerciseCacheService)
	f.svc.now = f.clock.Now
	return f
}

func (f *cacheFixture) stored(t *testing.T) map[string]*models.CacheEntry {
	t.Helper()
	raw, ok := f.kv.Value(ExerciseCacheKey)
	if !ok {
		return nil
	}
	out := map[string]*models.CacheEntry{}
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestExerciseCache_SetThenGet(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	f.svc.Set(ctx, "42", models.CacheEntryPatch{
		Name:        models.StringPtr("Squat"),
		Description: models.StringPtr("Bend knees"),
	})

	got := f.svc.Get(ctx, "42")
	require.NotNil(t, got)
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, "Squat", got.Name)
	assert.Equal(t, "Bend knees", got.Description)
	assert.Equal(t, f.clock.Now().UnixMilli(), got.FetchedAt)
	assert.Equal(t, 1, f.metrics.Count("exercise_cache:hit"))
}

func TestExerciseCache_GetMissing(t *testing.T) {
	f := newCacheFixture(t)
	assert.Nil(t, f.svc.Get(context.Background(), "nope"))
	assert.Equal(t, 1, f.metrics.Count("exercise_cache:miss"))
}

func TestExerciseCache_SetMergesPatch(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	f.svc.Set(ctx, "42", models.CacheEntryPatch{Name: models.StringPtr("Squat"), ImageRemote: models.StringPtr(testImageURL)})
	f.clock.Advance(time.Hour)
	f.svc.Set(ctx, "42", models.CacheEntryPatch{ImageLocal: models.StringPtr("/tmp/x.jpg")})

	got := f.svc.Get(ctx, "42")
	require.NotNil(t, got)
	assert.Equal(t, "Squat", got.Name)
	assert.Equal(t, testImageURL, got.ImageRemote)
	assert.Equal(t, "/tmp/x.jpg", got.ImageLocal)
	assert.Equal(t, f.clock.Now().UnixMilli(), got.FetchedAt)
}

func TestExerciseCache_EntryAtExactTTLIsFresh(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	f.svc.Set(ctx, "42", models.CacheEntryPatch{Name: models.StringPtr("Squat")})
	f.clock.Advance(structures.DefaultExerciseTTL)

	assert.NotNil(t, f.svc.Get(ctx, "42"))
}

func TestExerciseCache_GetEvictsExpired(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	local, ok := f.svc.DownloadAndCacheImage(ctx, "42", testImageURL)
	require.True(t, ok)
	f.svc.Set(ctx, "42", models.CacheEntryPatch{Name: models.StringPtr("Squat"), ImageLocal: models.StringPtr(local)})

	f.clock.Advance(structures.DefaultExerciseTTL + time.Millisecond)

	assert.Nil(t, f.svc.Get(ctx, "42"))
	assert.NotContains(t, f.stored(t), "42")
	_, err := os.Stat(local)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 1, f.metrics.Count("exercise_cache:expired"))
	assert.Equal(t, 1, f.metrics.Count("exercise_cache:evicted"))
}

func TestExerciseCache_SetSweepsExpired(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	now := f.clock.Now()
	stale := map[string]*models.CacheEntry{
		"old": {ID: "old", Name: "Old", FetchedAt: now.Add(-(structures.DefaultExerciseTTL + time.Millisecond)).UnixMilli()},
		"new": {ID: "new", Name: "New", FetchedAt: now.Add(-time.Hour).UnixMilli()},
		"raw": {ID: "raw", Name: "Unstamped"},
	}
	raw, err := json.Marshal(stale)
	require.NoError(t, err)
	f.kv.Put(ExerciseCacheKey, string(raw))

	f.svc.Set(ctx, "42", models.CacheEntryPatch{Name: models.StringPtr("Squat")})

	stored := f.stored(t)
	assert.NotContains(t, stored, "old")
	assert.Contains(t, stored, "new")
	assert.Contains(t, stored, "raw")
	assert.Contains(t, stored, "42")
	assert.Equal(t, 1, f.metrics.Count("exercise_cache:evicted"))
}

func TestExerciseCache_CorruptBlobIsMiss(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()
	f.kv.Put(ExerciseCacheKey, "{not json")

	assert.Nil(t, f.svc.Get(ctx, "42"))

	f.svc.Set(ctx, "42", models.CacheEntryPatch{Name: models.StringPtr("Squat")})
	assert.NotNil(t, f.svc.Get(ctx, "42"))
	assert.GreaterOrEqual(t, f.logger.Count("warn"), 1)
}

func TestExerciseCache_StorageFailuresDegrade(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()
	f.kv.GetErr = errors.New("disk gone")
	f.kv.SetErr = errors.New("disk gone")

	assert.NotPanics(t, func() {
		f.svc.Set(ctx, "42", models.CacheEntryPatch{Name: models.StringPtr("Squat")})
	})
	assert.Nil(t, f.svc.Get(ctx, "42"))
}

func TestExerciseCache_SetKeepsMappingWhenReadFails(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	local, ok := f.svc.DownloadAndCacheImage(ctx, "1", testImageURL)
	require.True(t, ok)
	f.svc.Set(ctx, "1", models.CacheEntryPatch{Name: models.StringPtr("Squat"), ImageLocal: models.StringPtr(local)})
	f.svc.Set(ctx, "2", models.CacheEntryPatch{Name: models.StringPtr("Lunge")})
	before, _ := f.kv.Value(ExerciseCacheKey)

	f.kv.FailGets = 1
	assert.NotPanics(t, func() {
		f.svc.Set(ctx, "3", models.CacheEntryPatch{Name: models.StringPtr("Plank")})
	})

	after, _ := f.kv.Value(ExerciseCacheKey)
	assert.Equal(t, before, after)
	stored := f.stored(t)
	require.Contains(t, stored, "1")
	assert.Equal(t, local, stored["1"].ImageLocal)
	assert.Contains(t, stored, "2")
	assert.NotContains(t, stored, "3")
}

func TestExerciseCache_ClearAllSkipsWhenReadFails(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	local, ok := f.svc.DownloadAndCacheImage(ctx, "1", testImageURL)
	require.True(t, ok)
	f.svc.Set(ctx, "1", models.CacheEntryPatch{ImageLocal: models.StringPtr(local)})

	f.kv.FailGets = 1
	f.svc.ClearAll(ctx)

	assert.Contains(t, f.stored(t), "1")
	assert.FileExists(t, local)
}

func TestExerciseCache_DownloadIsIdempotent(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	first, ok := f.svc.DownloadAndCacheImage(ctx, "42", testImageURL)
	require.True(t, ok)
	second, ok := f.svc.DownloadAndCacheImage(ctx, "42", testImageURL)
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.files.DownloadCount())
	assert.Equal(t, filepath.Join(f.files.Root(), ImageFileName("42", testImageURL, structures.DefaultURLKeyLength)), first)
	assert.Equal(t, 1, f.metrics.Count("image:downloaded"))
	assert.Equal(t, 1, f.metrics.Count("image:cached"))
}

func TestExerciseCache_ConcurrentDownloadsShareOneFetch(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := f.svc.DownloadAndCacheImage(ctx, "42", testImageURL)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.files.DownloadCount())
}

func TestExerciseCache_DownloadFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("empty url", func(t *testing.T) {
		f := newCacheFixture(t)
		path, ok := f.svc.DownloadAndCacheImage(ctx, "42", "")
		assert.False(t, ok)
		assert.Empty(t, path)
		assert.Equal(t, 0, f.files.DownloadCount())
	})

	t.Run("non 2xx", func(t *testing.T) {
		f := newCacheFixture(t)
		f.files.Status = 404
		path, ok := f.svc.DownloadAndCacheImage(ctx, "42", testImageURL)
		assert.False(t, ok)
		assert.Empty(t, path)
		assert.Equal(t, 1, f.metrics.Count("image:failed"))
	})

	t.Run("transport error", func(t *testing.T) {
		f := newCacheFixture(t)
		f.files.DownloadErr = errors.New("offline")
		_, ok := f.svc.DownloadAndCacheImage(ctx, "42", testImageURL)
		assert.False(t, ok)
	})

	t.Run("stat error", func(t *testing.T) {
		f := newCacheFixture(t)
		f.files.ExistsErr = errors.New("permission denied")
		_, ok := f.svc.DownloadAndCacheImage(ctx, "42", testImageURL)
		assert.False(t, ok)
		assert.Equal(t, 0, f.files.DownloadCount())
	})
}

func TestExerciseCache_ClearAll(t *testing.T) {
	f := newCacheFixture(t)
	ctx := context.Background()

	local, ok := f.svc.DownloadAndCacheImage(ctx, "42", testImageURL)
	require.True(t, ok)
	f.svc.Set(ctx, "42", models.CacheEntryPatch{ImageLocal: models.StringPtr(local)})
	f.svc.Set(ctx, "7", models.CacheEntryPatch{ImageLocal: models.StringPtr(filepath.Join(f.files.Root(), "missing.jpg"))})

	f.svc.ClearAll(ctx)

	_, exists := f.kv.Value(ExerciseCacheKey)
	assert.False(t, exists)
	_, err := os.Stat(local)
	assert.True(t, os.IsNotExist(err))
	assert.Nil(t, f.svc.Get(ctx, "42"))

	assert.NotPanics(t, func() { f.svc.ClearAll(ctx) })
}

func TestImageFileName(t *testing.T) {
	name := ImageFileName("42", "https://a.b/c d.jpg", 60)
	assert.Equal(t, "exercise_42_https%3A%2F%2Fa.b%2Fc%20d.jpg.jpg", name)

	long := "https://img.example.com/" + strings.Repeat("x", 200)
	name = ImageFileName("7", long, 60)
	encoded := strings.TrimSuffix(strings.TrimPrefix(name, "exercise_7_"), ".jpg")
	assert.Len(t, encoded, 60)

	assert.Equal(t, "exercise_a%2Fb_u.jpg", ImageFileName("a/b", "u", 60))

	longID := strings.Repeat("/", 100)
	name = ImageFileName(longID, "u", 60)
	assert.Less(t, len(name), 255)
	assert.True(t, strings.HasPrefix(name, "exercise_h"))
	assert.Equal(t, name, ImageFileName(longID, "u", 60))
	assert.NotEqual(t, name, ImageFileName(strings.Repeat("/", 101), "u", 60))
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "AZaz09-_.!~*'()", encodeURIComponent("AZaz09-_.!~*'()"))
	assert.Equal(t, "%3F%26%3D%2B%23", encodeURIComponent("?&=+#"))
	assert.Equal(t, "%C3%A9", encodeURIComponent("é"))
}
