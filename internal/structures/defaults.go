package structures

import "time"

const (
	DefaultExerciseTTL      = 7 * 24 * time.Hour
	DefaultURLKeyLength     = 60
	DefaultTickInterval     = time.Second
	DefaultFinishCooldown   = 60 * time.Second
	DefaultWorkoutLabel     = "Custom Workout"
	DefaultSaveInterval     = 30 * time.Second
	DefaultAPITimeout       = 15 * time.Second
	DefaultAPIRetries       = 3
	DefaultAPILanguage      = 2
	DefaultResponseCacheTTL = 5 * time.Minute
	DefaultLogRingSize      = 100
)

// ApplyDefaults fills zero values that have a sensible fallback.
func (c *Config) ApplyDefaults() {
	if c.ExerciseCache.TTL <= 0 {
		c.ExerciseCache.TTL = DefaultExerciseTTL
	}
	if c.ExerciseCache.URLKeyLength <= 0 {
		c.ExerciseCache.URLKeyLength = DefaultURLKeyLength
	}
	if c.Workout.TickInterval <= 0 {
		c.Workout.TickInterval = DefaultTickInterval
	}
	if c.Workout.FinishCooldown <= 0 {
		c.Workout.FinishCooldown = DefaultFinishCooldown
	}
	if c.Workout.DefaultLabel == "" {
		c.Workout.DefaultLabel = DefaultWorkoutLabel
	}
	if c.Storage.SaveInterval <= 0 {
		c.Storage.SaveInterval = DefaultSaveInterval
	}
	if c.ExerciseAPI.Timeout <= 0 {
		c.ExerciseAPI.Timeout = DefaultAPITimeout
	}
	if c.ExerciseAPI.Language <= 0 {
		c.ExerciseAPI.Language = DefaultAPILanguage
	}
	if c.ExerciseAPI.Retries <= 0 {
		c.ExerciseAPI.Retries = DefaultAPIRetries
	}
	if c.ResponseCache.TTL <= 0 {
		c.ResponseCache.TTL = DefaultResponseCacheTTL
	}
	if c.Logger.RingSize <= 0 {
		c.Logger.RingSize = DefaultLogRingSize
	}
}
