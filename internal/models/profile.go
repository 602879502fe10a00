package models

const DefaultActivityLevel = 1

type UserProfile struct {
	ActivityLevel int `json:"activityLevel"`
}

type Achievement struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	MaxProgress int    `json:"maxProgress" yaml:"maxProgress"`
	Progress    int    `json:"progress" yaml:"-"`
	Unlocked    bool   `json:"unlocked" yaml:"-"`
}

// SubscriptionPlan is a training plan the user can subscribe to.
type SubscriptionPlan struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

const (
	FontSmall  = "small"
	FontNormal = "normal"
	FontLarge  = "large"
)

// Preferences are the display and notification settings of the app.
type Preferences struct {
	Notifications bool   `json:"notifications"`
	FontSize      string `json:"fontSize" validate:"required|in:small,normal,large"`
}

func DefaultPreferences() Preferences {
	return Preferences{Notifications: true, FontSize: FontNormal}
}
