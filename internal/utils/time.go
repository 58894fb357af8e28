package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
)

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
// This ensures that "today" is determined by the user's configured timezone, not the system timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// GetTodayFromSettings returns today's date string (YYYY-MM-DD) using the timezone from settings.
func GetTodayFromSettings(settings models.Settings) (string, error) {
	return GetTodayInTimezone(settings.Timezone)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ParseDate parses a YYYY-MM-DD date string as midnight UTC.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", dateStr)
	}
	return t, nil
}

// ValidateDate checks if the string is a valid YYYY-MM-DD date.
func ValidateDate(dateStr string) bool {
	_, err := ParseDate(dateStr)
	return err == nil
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(dateStr string, n int) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// PreviousDay returns the day before dateStr.
func PreviousDay(dateStr string) (string, error) {
	return AddDays(dateStr, -1)
}

// DateRange returns every date from start to end inclusive.
// An end before start yields an empty slice.
func DateRange(start, end string) ([]string, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil, err
	}

	dates := []string{}
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(constants.DateFormat))
	}
	return dates, nil
}

// WeekStartOf returns the first day of the week containing dateStr.
func WeekStartOf(dateStr string, weekStart time.Weekday) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	offset := (int(t.Weekday()) - int(weekStart) + constants.DaysPerWeek) % constants.DaysPerWeek
	return t.AddDate(0, 0, -offset).Format(constants.DateFormat), nil
}

// WeekDates returns the seven dates of the week containing dateStr.
func WeekDates(dateStr string, weekStart time.Weekday) ([]string, error) {
	first, err := WeekStartOf(dateStr, weekStart)
	if err != nil {
		return nil, err
	}
	last, err := AddDays(first, constants.DaysPerWeek-1)
	if err != nil {
		return nil, err
	}
	return DateRange(first, last)
}

// WeekDatesThrough returns the dates of the week containing dateStr up to and including it.
func WeekDatesThrough(dateStr string, weekStart time.Weekday) ([]string, error) {
	first, err := WeekStartOf(dateStr, weekStart)
	if err != nil {
		return nil, err
	}
	return DateRange(first, dateStr)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
