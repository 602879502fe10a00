package services

import (
	"context"
	"errors"
	"fmt"
	"vivafit/internal/models"
	"vivafit/internal/providers"
	remoteInterfaces "vivafit/internal/remote/interfaces"
)

const (
	SourceCache  = "cache"
	SourceRemote = "remote"
)

var ErrExerciseUnavailable = errors.New("exercise unavailable")

type ExerciseDetailServiceInterface interface {
	Load(ctx context.Context, id string) (*models.ExerciseDetail, error)
	ClearCache(ctx context.Context)
}

// ExerciseDetailService serves remote exercise metadata, preferring the local
// cache and filling it on a miss.
type ExerciseDetailService struct {
	cache         ExerciseCacheServiceInterface
	api           remoteInterfaces.ExerciseAPIInterface
	responseCache providers.CacheProviderInterface
	logger        providers.Logger
}

func NewExerciseDetailService(cache ExerciseCacheServiceInterface, api remoteInterfaces.ExerciseAPIInterface, responseCache providers.CacheProviderInterface, logger providers.Logger) ExerciseDetailServiceInterface {
	return &ExerciseDetailService{
		cache:         cache,
		api:           api,
		responseCache: responseCache,
		logger:        logger,
	}
}

func (s *ExerciseDetailService) Load(ctx context.Context, id string) (*models.ExerciseDetail, error) {
	id = models.NormalizeExerciseID(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrExerciseUnavailable)
	}

	if entry := s.cache.Get(ctx, id); entry != nil {
		s.refreshImage(ctx, entry)
		return &models.ExerciseDetail{Source: SourceCache, Entry: entry, Image: displayImage(entry)}, nil
	}

	meta, err := s.api.FetchExercise(ctx, id)
	if err != nil {
		s.logger.Warnf(providers.TypeCache, "Exercise %s not cached and fetch failed: %s", id, err)
		return nil, fmt.Errorf("%w: %w", ErrExerciseUnavailable, err)
	}

	patch := models.CacheEntryPatch{
		Name:        models.StringPtr(meta.Name),
		Description: models.StringPtr(meta.Description),
	}
	if len(meta.Images) > 0 {
		remoteURL := meta.Images[0]
		patch.ImageRemote = models.StringPtr(remoteURL)
		if local, ok := s.cache.DownloadAndCacheImage(ctx, id, remoteURL); ok {
			patch.ImageLocal = models.StringPtr(local)
		}
	}
	s.cache.Set(ctx, id, patch)

	entry := &models.CacheEntry{ID: id}
	patch.Apply(entry)
	if stored := s.cache.Get(ctx, id); stored != nil {
		entry = stored
	}

	return &models.ExerciseDetail{Source: SourceRemote, Entry: entry, Image: displayImage(entry)}, nil
}

// refreshImage makes sure the local image of a cached entry still exists,
// downloading it again when it was removed. On failure the entry falls back
// to the remote url.
func (s *ExerciseDetailService) refreshImage(ctx context.Context, entry *models.CacheEntry) {
	if entry.ImageRemote == "" {
		return
	}
	local, ok := s.cache.DownloadAndCacheImage(ctx, entry.ID, entry.ImageRemote)
	if !ok {
		entry.ImageLocal = ""
		return
	}
	if local != entry.ImageLocal {
		s.cache.Set(ctx, entry.ID, models.CacheEntryPatch{ImageLocal: models.StringPtr(local)})
		entry.ImageLocal = local
	}
}

// ClearCache drops cached metadata, images and raw API responses.
func (s *ExerciseDetailService) ClearCache(ctx context.Context) {
	s.cache.ClearAll(ctx)
	s.responseCache.Clear()
}

// displayImage prefers the local copy and falls back to the remote url.
func displayImage(entry *models.CacheEntry) string {
	if entry.ImageLocal != "" {
		return entry.ImageLocal
	}
	return entry.ImageRemote
}
