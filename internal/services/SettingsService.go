package services

import (
	"context"
	"errors"
	"fmt"
	"vivafit/internal/models"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const (
	PreferencesKey = "prefs"
	OnboardedKey   = "hasOnboarded"
	// AuthUserIDKey mirrors the key read by the remote session provider.
	AuthUserIDKey = "authUserId"
)

var ErrInvalidPreferences = errors.New("invalid preferences")

type SettingsServiceInterface interface {
	Preferences(ctx context.Context) models.Preferences
	SavePreferences(ctx context.Context, prefs models.Preferences) error
	Onboarded(ctx context.Context) bool
	CompleteOnboarding(ctx context.Context) error
	SignOut(ctx context.Context) error
}

type SettingsService struct {
	kv     interfaces.KeyValueStoreInterface
	logger providers.Logger
}

func NewSettingsService(kv interfaces.KeyValueStoreInterface, logger providers.Logger) SettingsServiceInterface {
	return &SettingsService{kv: kv, logger: logger}
}

// Preferences falls back to the defaults field by field.
func (s *SettingsService) Preferences(ctx context.Context) models.Preferences {
	prefs := models.DefaultPreferences()

	raw, ok, err := s.kv.Get(ctx, PreferencesKey)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Cannot read preferences: %s", err)
		return prefs
	}
	if !ok || raw == "" {
		return prefs
	}

	var stored struct {
		Notifications *bool  `json:"notifications"`
		FontSize      string `json:"fontSize"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warnf(providers.TypeApp, "Preferences are corrupt: %s", err)
		return prefs
	}
	if stored.Notifications != nil {
		prefs.Notifications = *stored.Notifications
	}
	switch stored.FontSize {
	case models.FontSmall, models.FontNormal, models.FontLarge:
		prefs.FontSize = stored.FontSize
	}
	return prefs
}

func (s *SettingsService) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	v := validate.Struct(&prefs)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidPreferences, v.Errors.One())
	}
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, PreferencesKey, string(raw)); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

func (s *SettingsService) Onboarded(ctx context.Context) bool {
	raw, ok, err := s.kv.Get(ctx, OnboardedKey)
	if err != nil {
		s.logger.Warnf(providers.TypeApp, "Cannot read onboarding flag: %s", err)
		return false
	}
	return ok && raw == "true"
}

func (s *SettingsService) CompleteOnboarding(ctx context.Context) error {
	if err := s.kv.Set(ctx, OnboardedKey, "true"); err != nil {
		return fmt.Errorf("saving onboarding flag: %w", err)
	}
	return nil
}

// SignOut clears the session-scoped keys: profile, subscribed plan, onboarding
// flag and the signed-in user. History, preferences and caches stay.
func (s *SettingsService) SignOut(ctx context.Context) error {
	var errs []error
	for _, key := range []string{ProfileKey, SubscribedPlanKey, OnboardedKey, AuthUserIDKey} {
		if err := s.kv.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Signed out, session data cleared")
	return nil
}
