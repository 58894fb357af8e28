package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/utils"
)

// Context is passed to every command's Run method
type Context struct {
	Store storage.Provider
	Debug bool

	settings *models.Settings
}

// Settings returns the stored settings, read once per command
func (c *Context) Settings() (models.Settings, error) {
	if c.settings != nil {
		return *c.settings, nil
	}
	s, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&s)
	c.settings = &s
	return s, nil
}

// InvalidateSettings drops the cached settings after they are changed
func (c *Context) InvalidateSettings() {
	c.settings = nil
}

// Today is the current date in the configured timezone
func (c *Context) Today() (string, error) {
	s, err := c.Settings()
	if err != nil {
		return "", err
	}
	return utils.GetTodayFromSettings(s)
}

// ResolveDate accepts YYYY-MM-DD, "today", "yesterday", or "" (today)
func (c *Context) ResolveDate(date string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(date)) {
	case "", "today":
		return c.Today()
	case "yesterday":
		today, err := c.Today()
		if err != nil {
			return "", err
		}
		return utils.PreviousDay(today)
	}
	if !utils.ValidateDate(date) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	return date, nil
}

// WeekOf returns the full scoring week containing date
func (c *Context) WeekOf(date string) ([]string, error) {
	s, err := c.Settings()
	if err != nil {
		return nil, err
	}
	return utils.WeekDates(date, s.WeekStart)
}

// Location is the configured timezone
func (c *Context) Location() (*time.Location, error) {
	s, err := c.Settings()
	if err != nil {
		return nil, err
	}
	return utils.LoadLocation(s.Timezone)
}
