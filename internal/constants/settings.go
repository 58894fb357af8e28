package constants

const (
	SettingTimezone  = "timezone"
	SettingWeekStart = "week_start"
	SettingUserID    = "user_id"

	// Default Settings Values
	DefaultTimezone  = "Local" // Use system local timezone by default
	DefaultWeekStart = "monday"
)
