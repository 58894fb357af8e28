// Package transfer moves a tally database between backends as a single YAML
// document holding measurements, their recordings, and full habit update logs.
package transfer

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/utils"
	"github.com/julianstephens/tally/internal/validation"
)

// FormatVersion is bumped whenever Bundle changes incompatibly
const FormatVersion = 1

const (
	firstDay = "0000-01-01"
	lastDay  = "9999-12-31"
)

// Bundle is the exported document
type Bundle struct {
	Version      int                           `yaml:"version"`
	ExportedAt   time.Time                     `yaml:"exported_at"`
	Settings     *BundleSettings               `yaml:"settings,omitempty"`
	Measurements []models.Measurement          `yaml:"measurements"`
	Recordings   []models.MeasurementRecording `yaml:"recordings"`
	Habits       []models.Habit                `yaml:"habits"`
}

// BundleSettings are the portable settings. The user id stays with the database.
type BundleSettings struct {
	Timezone  string `yaml:"timezone"`
	WeekStart string `yaml:"week_start"`
}

// Collect reads everything in p, including soft-deleted records.
func Collect(p storage.Provider) (Bundle, error) {
	b := Bundle{Version: FormatVersion, ExportedAt: time.Now().UTC().Truncate(time.Second)}

	if settings, err := p.GetSettings(); err == nil {
		m := models.SettingsToMap(settings)
		b.Settings = &BundleSettings{Timezone: settings.Timezone, WeekStart: m["week_start"]}
	}

	measurements, err := p.GetAllMeasurements(true)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to read measurements: %w", err)
	}
	b.Measurements = measurements

	b.Recordings = []models.MeasurementRecording{}
	for _, m := range measurements {
		recs, err := p.GetRecordingsForMeasurement(m.ID, firstDay, lastDay)
		if err != nil {
			return Bundle{}, fmt.Errorf("failed to read recordings for %s: %w", m.Name, err)
		}
		b.Recordings = append(b.Recordings, recs...)
	}

	habits, err := p.GetAllHabits(true)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to read habits: %w", err)
	}
	b.Habits = habits

	return b, nil
}

// Write encodes b as YAML
func Write(w io.Writer, b Bundle) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return enc.Close()
}

// Export is Collect followed by Write
func Export(p storage.Provider, w io.Writer) (Bundle, error) {
	b, err := Collect(p)
	if err != nil {
		return Bundle{}, err
	}
	return b, Write(w, b)
}

// Read decodes and validates a bundle
func Read(r io.Reader) (Bundle, error) {
	var b Bundle
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return Bundle{}, fmt.Errorf("failed to decode import: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// Validate checks the bundle is self-consistent before anything is written
func (b Bundle) Validate() error {
	if b.Version != FormatVersion {
		return fmt.Errorf("unsupported export version %d (expected %d)", b.Version, FormatVersion)
	}

	ids := map[string]bool{}
	for _, m := range b.Measurements {
		if m.ID == "" {
			return fmt.Errorf("measurement %q has no id", m.Name)
		}
		if err := validation.ValidateMeasurement(m); err != nil {
			return err
		}
		ids[m.ID] = true
	}

	for _, r := range b.Recordings {
		if !ids[r.MeasurementID] {
			return fmt.Errorf("recording on %s refers to unknown measurement %s", r.Day, r.MeasurementID)
		}
		if !utils.ValidateDate(r.Day) {
			return fmt.Errorf("recording for %s has invalid day %q", r.MeasurementID, r.Day)
		}
	}

	for _, h := range b.Habits {
		if h.ID == "" {
			return fmt.Errorf("habit with %d updates has no id", len(h.Updates))
		}
		for _, u := range h.Updates {
			if err := validateUpdate(u, ids); err != nil {
				return fmt.Errorf("habit %s: %w", h.ID, err)
			}
		}
	}

	if b.Settings != nil {
		if b.Settings.Timezone != "" && !utils.ValidateTimezone(b.Settings.Timezone) {
			return fmt.Errorf("invalid timezone %q", b.Settings.Timezone)
		}
		if _, err := models.ParseWeekStart(b.Settings.WeekStart); err != nil {
			return err
		}
	}
	return nil
}

// validateUpdate rejects values the engine would otherwise evaluate
// permissively, such as an unknown predicate or operator.
func validateUpdate(u models.HabitUpdate, measurementIDs map[string]bool) error {
	if !utils.ValidateDate(u.Date) {
		return fmt.Errorf("update has invalid date %q", u.Date)
	}
	if u.Predicate != nil && !u.Predicate.Valid() {
		return fmt.Errorf("update on %s has invalid predicate %q (expected AND or OR)", u.Date, *u.Predicate)
	}
	if u.Conditions == nil {
		return nil
	}
	for _, c := range *u.Conditions {
		if c.MeasurementID == "" {
			return fmt.Errorf("update on %s has a condition without a measurement id", u.Date)
		}
		if !c.Operator.Valid() {
			return fmt.Errorf("update on %s has invalid operator %q", u.Date, c.Operator)
		}
		if !measurementIDs[c.MeasurementID] {
			return fmt.Errorf("update on %s refers to unknown measurement %s", u.Date, c.MeasurementID)
		}
	}
	return nil
}

// Options controls how Import treats records that already exist
type Options struct {
	// Overwrite replaces the update log of habits that already exist
	Overwrite bool
	// SkipSettings leaves the target's settings untouched
	SkipSettings bool
}

// Result counts what Import wrote
type Result struct {
	Measurements int
	Recordings   int
	Habits       int
	Skipped      int
}

// Import writes b into p. Measurements and habits that already exist by id
// are skipped unless opts.Overwrite is set; recordings are always upserted.
func Import(p storage.Provider, b Bundle, opts Options) (Result, error) {
	var res Result

	if err := b.Validate(); err != nil {
		return res, err
	}

	if b.Settings != nil && !opts.SkipSettings {
		settings, err := p.GetSettings()
		if err != nil {
			return res, fmt.Errorf("failed to read settings: %w", err)
		}
		if b.Settings.Timezone != "" {
			settings.Timezone = b.Settings.Timezone
		}
		settings.WeekStart, _ = models.ParseWeekStart(b.Settings.WeekStart)
		if err := p.SaveSettings(settings); err != nil {
			return res, fmt.Errorf("failed to save settings: %w", err)
		}
	}

	existingMeasurements, err := p.GetAllMeasurements(true)
	if err != nil {
		return res, err
	}
	haveMeasurement := lo.SliceToMap(existingMeasurements, func(m models.Measurement) (string, bool) {
		return m.ID, true
	})

	for _, m := range b.Measurements {
		if haveMeasurement[m.ID] {
			if opts.Overwrite && m.DeletedAt == nil {
				if err := p.UpdateMeasurement(m); err != nil {
					return res, err
				}
				res.Measurements++
				continue
			}
			res.Skipped++
			continue
		}
		if err := p.AddMeasurement(m); err != nil {
			return res, err
		}
		res.Measurements++
	}

	for _, r := range b.Recordings {
		if err := p.SetRecording(r); err != nil {
			return res, err
		}
		res.Recordings++
	}

	existingHabits, err := p.GetAllHabits(true)
	if err != nil {
		return res, err
	}
	haveHabit := lo.SliceToMap(existingHabits, func(h models.Habit) (string, bool) {
		return h.ID, true
	})

	for _, h := range b.Habits {
		switch {
		case !haveHabit[h.ID]:
			err = p.AddHabit(h)
		case opts.Overwrite:
			err = p.SaveHabit(h)
		default:
			res.Skipped++
			continue
		}
		if err != nil {
			return res, err
		}
		res.Habits++
	}

	logger.Info("import finished",
		"measurements", res.Measurements,
		"recordings", res.Recordings,
		"habits", res.Habits,
		"skipped", res.Skipped)
	return res, nil
}
