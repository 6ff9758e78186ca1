package domain

// UserPreferences is the per-installation settings singleton.
type UserPreferences struct {
	Language             string `json:"language"`
	Location             string `json:"location"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// Preference defaults applied on first use and on reset.
const (
	DefaultLanguage = "en"
	DefaultLocation = "Nairobi"
)

// DefaultPreferences returns the preferences a fresh installation starts with.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Language:             DefaultLanguage,
		Location:             DefaultLocation,
		NotificationsEnabled: true,
	}
}
