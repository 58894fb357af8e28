package storage

import (
	"errors"

	"github.com/julianstephens/tally/internal/models"
)

// ErrNotFound is returned when a requested record does not exist or is deleted
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Measurements
	AddMeasurement(models.Measurement) error
	GetMeasurement(id string) (models.Measurement, error)
	GetMeasurementByName(name string) (models.Measurement, error)
	GetAllMeasurements(includeDeleted bool) ([]models.Measurement, error)
	UpdateMeasurement(models.Measurement) error
	DeleteMeasurement(id string) error
	RestoreMeasurement(id string) error

	// Measurement Recordings
	SetRecording(models.MeasurementRecording) error
	GetRecording(measurementID, day string) (models.MeasurementRecording, error)
	DeleteRecording(measurementID, day string) error
	GetRecordingsForMeasurement(measurementID, startDay, endDay string) ([]models.MeasurementRecording, error)
	// GetRecordingsInRange returns recordings of every non-deleted measurement
	// between startDay and endDay inclusive, ordered by day.
	GetRecordingsInRange(startDay, endDay string) ([]models.MeasurementRecording, error)

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetAllHabits(includeDeleted bool) ([]models.Habit, error)
	// SaveHabit upserts the habit and replaces its stored update log.
	SaveHabit(models.Habit) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Utils
	GetConfigPath() string
}
