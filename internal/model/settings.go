package model

// Settings holds the user-tunable application settings.
type Settings struct {
	MonthlyLimit        float64
	EnableNotifications bool
	EnableVoice         bool
}

// DefaultSettings returns the settings a fresh database starts with.
func DefaultSettings() Settings {
	return Settings{
		MonthlyLimit:        50000,
		EnableNotifications: true,
		EnableVoice:         true,
	}
}

// CategoryTotal aggregates the amount spent in one category over a period.
type CategoryTotal struct {
	CategoryID string
	Total      float64
}
