package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Change settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	fmt.Println(cli.HeaderStyle.Render("Current Settings:"))
	fmt.Printf("  Timezone:    %s\n", settings.Timezone)
	fmt.Printf("  Week Start:  %s\n", strings.ToLower(settings.WeekStart.String()))
	fmt.Printf("  User ID:     %s\n", settings.UserID)
	fmt.Printf("  Storage:     %s\n", ctx.Store.GetConfigPath())
	return nil
}

type SettingsSetCmd struct {
	Timezone  *string `help:"IANA timezone name, or Local."`
	WeekStart *string `help:"First day of a scoring week (sunday or monday)."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.WeekStart != nil {
		wd, err := models.ParseWeekStart(*c.WeekStart)
		if err != nil {
			return err
		}
		settings.WeekStart = wd
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use 'settings show' to view settings or flags to update them.")
		return nil
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.InvalidateSettings()
	fmt.Println("Settings updated successfully.")
	return nil
}
