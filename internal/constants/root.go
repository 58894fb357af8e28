package constants

const (
	AppName            = "tally"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tally/tally.db"
	Version            = "v0.2.0"

	// EnvConnectionString overrides --config with a PostgreSQL connection string
	EnvConnectionString = "TALLY_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DaysPerWeek is the length of a scoring week
	DaysPerWeek = 7

	// Log constants
	LogDirName     = "logs"
	LogFileName    = "tally.log"
	LogMaxSizeMB   = 10
	LogMaxBackups  = 3
	LogMaxAgeDays  = 28
	DefaultLogDays = 14

	// Habit defaults applied by `habit add` when a flag is omitted
	DefaultHabitPoints      = 1
	DefaultHabitDaysPerWeek = 7
	DefaultHabitPriority    = 0
)

// SessionState represents the current state of the TUI application
type SessionState int

const (
	StateHabits SessionState = iota
	StateConfirmArchive
)
