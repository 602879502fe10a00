package services

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"vivafit/internal/models"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"
	"vivafit/internal/structures"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// ExerciseCacheKey is the key-value entry holding the whole cache mapping.
const ExerciseCacheKey = "exerciseCache_v1"

type ExerciseCacheServiceInterface interface {
	Get(ctx context.Context, id string) *models.CacheEntry
	Set(ctx context.Context, id string, patch models.CacheEntryPatch)
	DownloadAndCacheImage(ctx context.Context, id, url string) (string, bool)
	ClearAll(ctx context.Context)
}

// ExerciseCacheService is a best-effort TTL cache of exercise metadata and
// cover images. None of its operations return errors: storage failures are
// logged and degrade to a miss or a no-op.
type ExerciseCacheService struct {
	kv           interfaces.KeyValueStoreInterface
	files        interfaces.FileStorageInterface
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
	ttl          time.Duration
	urlKeyLength int
	now          func() time.Time

	// mu serializes every read-modify-write of the persisted mapping.
	mu        sync.Mutex
	downloads singleflight.Group
}

func NewExerciseCacheService(conf *structures.Config, kv interfaces.KeyValueStoreInterface, files interfaces.FileStorageInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) ExerciseCacheServiceInterface {
	ttl := conf.ExerciseCache.TTL
	if ttl <= 0 {
		ttl = structures.DefaultExerciseTTL
	}
	keyLen := conf.ExerciseCache.URLKeyLength
	if keyLen <= 0 {
		keyLen = structures.DefaultURLKeyLength
	}
	return &ExerciseCacheService{
		kv:           kv,
		files:        files,
		logger:       logger,
		metrics:      metrics,
		ttl:          ttl,
		urlKeyLength: keyLen,
		now:          time.Now,
	}
}

func (s *ExerciseCacheService) Get(ctx context.Context, id string) *models.CacheEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, _ := s.load(ctx)
	entry, ok := mapping[id]
	if !ok || entry == nil {
		s.metrics.IncExerciseCacheLookups("miss")
		return nil
	}

	if entry.Expired(s.now(), s.ttl) {
		s.evict(ctx, id, entry)
		delete(mapping, id)
		s.persist(ctx, mapping)
		s.metrics.IncExerciseCacheLookups("expired")
		s.metrics.IncExerciseCacheEvictions(1)
		return nil
	}

	s.metrics.IncExerciseCacheLookups("hit")
	out := *entry
	return &out
}

func (s *ExerciseCacheService) Set(ctx context.Context, id string, patch models.CacheEntryPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, readable := s.load(ctx)
	if !readable {
		s.logger.Warnf(providers.TypeCache, "Skipping cache write for exercise %s: stored mapping unreadable", id)
		return
	}
	now := s.now()

	evicted := 0
	for key, entry := range mapping {
		if entry == nil {
			delete(mapping, key)
			continue
		}
		if entry.Expired(now, s.ttl) {
			s.evict(ctx, key, entry)
			delete(mapping, key)
			evicted++
		}
	}
	if evicted > 0 {
		s.metrics.IncExerciseCacheEvictions(evicted)
		s.logger.Debugf(providers.TypeCache, "Evicted %d expired exercise cache entries", evicted)
	}

	entry, ok := mapping[id]
	if !ok {
		entry = &models.CacheEntry{}
	}
	patch.Apply(entry)
	entry.ID = id
	entry.FetchedAt = now.UnixMilli()
	mapping[id] = entry

	s.persist(ctx, mapping)
}

// DownloadAndCacheImage returns the local path of the image for id/url,
// downloading it only if no file exists yet. ok is false on any failure and
// the caller should fall back to the remote url.
func (s *ExerciseCacheService) DownloadAndCacheImage(ctx context.Context, id, url string) (string, bool) {
	if url == "" {
		return "", false
	}

	path := filepath.Join(s.files.Root(), ImageFileName(id, url, s.urlKeyLength))

	res, _, _ := s.downloads.Do(path, func() (interface{}, error) {
		exists, err := s.files.Exists(ctx, path)
		if err != nil {
			s.logger.Warnf(providers.TypeCache, "Cannot stat cached image %s: %s", path, err)
			s.metrics.IncImageDownloads("failed")
			return false, nil
		}
		if exists {
			s.metrics.IncImageDownloads("cached")
			return true, nil
		}

		result, err := s.files.Download(ctx, url, path)
		if err != nil {
			s.logger.Warnf(providers.TypeCache, "Image download failed for exercise %s: %s", id, err)
			s.metrics.IncImageDownloads("failed")
			return false, nil
		}
		if result.Status < 200 || result.Status > 299 {
			s.logger.Warnf(providers.TypeCache, "Image download for exercise %s returned status %d", id, result.Status)
			s.metrics.IncImageDownloads("failed")
			return false, nil
		}
		s.metrics.IncImageDownloads("downloaded")
		return true, nil
	})

	if ok, _ := res.(bool); ok {
		return path, true
	}
	return "", false
}

// ClearAll deletes every tracked image and the persisted mapping.
func (s *ExerciseCacheService) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, readable := s.load(ctx)
	if !readable {
		s.logger.Warnf(providers.TypeCache, "Skipping exercise cache clear: stored mapping unreadable")
		return
	}
	for id, entry := range mapping {
		if entry != nil {
			s.evict(ctx, id, entry)
		}
	}
	if err := s.kv.Remove(ctx, ExerciseCacheKey); err != nil {
		s.logger.Warnf(providers.TypeCache, "Cannot remove exercise cache: %s", err)
		return
	}
	s.logger.Infof(providers.TypeCache, "Exercise cache cleared (%d entries)", len(mapping))
}

// load reads the mapping. Missing and corrupt blobs yield an empty mapping.
// readable is false when the store itself failed, so the stored mapping must
// not be overwritten.
func (s *ExerciseCacheService) load(ctx context.Context) (mapping map[string]*models.CacheEntry, readable bool) {
	mapping = make(map[string]*models.CacheEntry)

	raw, ok, err := s.kv.Get(ctx, ExerciseCacheKey)
	if err != nil {
		s.logger.Warnf(providers.TypeCache, "Cannot read exercise cache: %s", err)
		return mapping, false
	}
	if !ok || raw == "" {
		return mapping, true
	}
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		s.logger.Warnf(providers.TypeCache, "Exercise cache is corrupt, starting empty: %s", err)
		return make(map[string]*models.CacheEntry), true
	}
	return mapping, true
}

func (s *ExerciseCacheService) persist(ctx context.Context, mapping map[string]*models.CacheEntry) {
	raw, err := json.Marshal(mapping)
	if err != nil {
		s.logger.Errorf(providers.TypeCache, "Cannot encode exercise cache: %s", err)
		return
	}
	if err := s.kv.Set(ctx, ExerciseCacheKey, string(raw)); err != nil {
		s.logger.Warnf(providers.TypeCache, "Cannot persist exercise cache: %s", err)
	}
}

func (s *ExerciseCacheService) evict(ctx context.Context, id string, entry *models.CacheEntry) {
	if entry.ImageLocal == "" {
		return
	}
	if err := s.files.Delete(ctx, entry.ImageLocal, true); err != nil {
		s.logger.Debugf(providers.TypeCache, "Cannot delete image of exercise %s: %s", id, err)
	}
}

// ImageFileName derives a stable file name from the exercise id and image
// url. The encoded url is cut to keyLength characters; an encoded id longer
// than keyLength is replaced by its xxhash.
func ImageFileName(id, url string, keyLength int) string {
	encodedURL := encodeURIComponent(url)
	if keyLength > 0 && len(encodedURL) > keyLength {
		encodedURL = encodedURL[:keyLength]
	}
	encodedID := encodeURIComponent(id)
	if keyLength > 0 && len(encodedID) > keyLength {
		encodedID = "h" + strconv.FormatUint(xxhash.Sum64String(id), 16)
	}
	return "exercise_" + encodedID + "_" + encodedURL + ".jpg"
}

const upperhex = "0123456789ABCDEF"

// encodeURIComponent percent-encodes every byte except A-Z a-z 0-9 and - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
