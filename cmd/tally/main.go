package main

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/cli/habits"
	"github.com/julianstephens/tally/internal/cli/measurements"
	"github.com/julianstephens/tally/internal/cli/settings"
	"github.com/julianstephens/tally/internal/cli/system"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, TALLY_DB_CONNECTION, or .pgpass." type:"string" default:"~/.config/tally/tally.db"`
	Debug   bool   `help:"Log to stderr at debug level."`

	Init        system.InitCmd              `cmd:"" help:"Initialize tally storage."`
	Migrate     system.MigrateCmd           `cmd:"" help:"Run database migrations."`
	Tui         system.TuiCmd               `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Status      habits.StatusCmd            `cmd:"" help:"Show today's habit completion and points."`
	Week        habits.WeekCmd              `cmd:"" help:"Show the week's completion grid and points."`
	Habit       habits.HabitCmd             `cmd:"" help:"Manage habits."`
	Measurement measurements.MeasurementCmd `cmd:"" help:"Manage measurements and daily recordings."`
	Settings    settings.SettingsCmd        `cmd:"" help:"Manage application settings."`
	Keyring     system.KeyringCmd           `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup      system.BackupCmd            `cmd:"" help:"Manage SQLite database snapshots."`
	Export      system.ExportCmd            `cmd:"" help:"Export all data as YAML."`
	Import      system.ImportCmd            `cmd:"" help:"Import data from a YAML export."`
}

// logDir places logs beside the SQLite database, or in the default config
// directory when the store is PostgreSQL.
func logDir(config string) string {
	if !postgres.IsConnString(config) {
		if path, err := cli.ExpandPath(config); err == nil {
			return filepath.Dir(path)
		}
	}
	path, err := cli.ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		return "."
	}
	return filepath.Dir(path)
}

// needsLoad reports whether the selected command requires an initialized store
func needsLoad(command string) bool {
	return command != "init" && !strings.HasPrefix(command, "keyring")
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit and measurement tracker with point scoring"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":             constants.Version,
			"habit_points":        strconv.Itoa(constants.DefaultHabitPoints),
			"habit_days_per_week": strconv.Itoa(constants.DefaultHabitDaysPerWeek),
			"habit_priority":      strconv.Itoa(constants.DefaultHabitPriority),
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir(CLI.Config)}); err != nil {
		errors.Fatal(err)
	}

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if needsLoad(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store: store,
		Debug: CLI.Debug,
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("failed to close store", "error", closeErr)
	}
	errors.Fatal(err)
}
