package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/constants"
)

// Settings represents application-wide settings
type Settings struct {
	Timezone  string       `json:"timezone" yaml:"timezone"`     // IANA timezone name, or "Local" for system timezone
	WeekStart time.Weekday `json:"week_start" yaml:"week_start"` // first day of a scoring week
	UserID    string       `json:"user_id" yaml:"user_id"`       // owner recorded on new habits and measurements
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{WeekStart: time.Monday}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingWeekStart:
			wd, err := ParseWeekStart(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing week_start: %w", err)
			}
			settings.WeekStart = wd
		case constants.SettingUserID:
			settings.UserID = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:  settings.Timezone,
		constants.SettingWeekStart: strings.ToLower(settings.WeekStart.String()),
		constants.SettingUserID:    settings.UserID,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

// ParseWeekStart accepts "sunday" or "monday" (case-insensitive)
func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon", "":
		return time.Monday, nil
	default:
		return time.Monday, fmt.Errorf("week must start on sunday or monday, got %q", s)
	}
}
