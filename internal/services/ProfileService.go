package services

import (
	"context"
	"errors"
	"fmt"
	"vivafit/internal/models"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"

	json "github.com/goccy/go-json"
)

const ProfileKey = "userProfile"

const (
	MinActivityLevel = 0
	MaxActivityLevel = 2
)

var ErrInvalidActivityLevel = errors.New("invalid activity level")

type ProfileServiceInterface interface {
	Profile(ctx context.Context) models.UserProfile
	SetActivityLevel(ctx context.Context, level int) error
}

type ProfileService struct {
	kv     interfaces.KeyValueStoreInterface
	logger providers.Logger
}

func NewProfileService(kv interfaces.KeyValueStoreInterface, logger providers.Logger) ProfileServiceInterface {
	return &ProfileService{kv: kv, logger: logger}
}

// Profile never fails: unreadable or out-of-range profiles fall back to the
// default activity level.
func (s *ProfileService) Profile(ctx context.Context) models.UserProfile {
	fallback := models.UserProfile{ActivityLevel: models.DefaultActivityLevel}

	raw, ok, err := s.kv.Get(ctx, ProfileKey)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Cannot read user profile: %s", err)
		return fallback
	}
	if !ok {
		return fallback
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.logger.Warnf(providers.TypeApp, "User profile is corrupt: %s", err)
		return fallback
	}
	if profile.ActivityLevel < MinActivityLevel || profile.ActivityLevel > MaxActivityLevel {
		s.logger.Warnf(providers.TypeApp, "User profile has unknown activity level %d", profile.ActivityLevel)
		return fallback
	}
	return profile
}

func (s *ProfileService) SetActivityLevel(ctx context.Context, level int) error {
	if level < MinActivityLevel || level > MaxActivityLevel {
		return fmt.Errorf("%w: %d", ErrInvalidActivityLevel, level)
	}
	raw, err := json.Marshal(models.UserProfile{ActivityLevel: level})
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, ProfileKey, string(raw)); err != nil {
		return fmt.Errorf("saving user profile: %w", err)
	}
	return nil
}
