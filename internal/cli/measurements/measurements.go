package measurements

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/utils"
	"github.com/julianstephens/tally/internal/validation"
)

type MeasurementCmd struct {
	Add      MeasurementAddCmd      `cmd:"" help:"Define a new measurement."`
	List     MeasurementListCmd     `cmd:"" help:"List measurements."`
	Delete   MeasurementDeleteCmd   `cmd:"" help:"Delete a measurement (soft delete)."`
	Restore  MeasurementRestoreCmd  `cmd:"" help:"Restore a deleted measurement."`
	Record   MeasurementRecordCmd   `cmd:"" help:"Record a value for a day."`
	Unrecord MeasurementUnrecordCmd `cmd:"" help:"Remove the value recorded for a day."`
	Log      MeasurementLogCmd      `cmd:"" help:"Show recent values."`
}

type MeasurementAddCmd struct {
	Name string `arg:"" help:"Measurement name."`
	Type string `help:"Value type (count, duration, bool)." enum:"count,duration,bool" default:"count"`
	Unit string `help:"Unit label shown next to values."`
}

func (c *MeasurementAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Store.GetMeasurementByName(c.Name); err == nil {
		return fmt.Errorf("measurement with name %q already exists", c.Name)
	}

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	m := models.Measurement{
		ID:        uuid.New().String(),
		UserID:    settings.UserID,
		Name:      c.Name,
		Type:      models.MeasurementType(c.Type),
		Unit:      c.Unit,
		CreatedAt: time.Now(),
	}
	if err := validation.ValidateMeasurement(m); err != nil {
		return err
	}
	if err := ctx.Store.AddMeasurement(m); err != nil {
		return err
	}

	fmt.Printf("Added measurement: %s (%s)\n", m.Name, m.Type)
	return nil
}

type MeasurementListCmd struct {
	Deleted bool `help:"Include deleted measurements."`
}

func (c *MeasurementListCmd) Run(ctx *cli.Context) error {
	measurements, err := ctx.Store.GetAllMeasurements(c.Deleted)
	if err != nil {
		return err
	}

	if len(measurements) == 0 {
		fmt.Println("No measurements found.")
		return nil
	}

	for _, m := range measurements {
		line := fmt.Sprintf("%-20s %-9s", m.Name, m.Type)
		if m.Unit != "" {
			line += " " + cli.MutedStyle.Render(m.Unit)
		}
		if m.DeletedAt != nil {
			line += " " + cli.DangerStyle.Render("[DELETED]")
		}
		fmt.Println(line)
	}
	return nil
}

type MeasurementDeleteCmd struct {
	Name string `arg:"" help:"Measurement name."`
}

func (c *MeasurementDeleteCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Store.GetMeasurementByName(c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteMeasurement(m.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted measurement: %s\n", m.Name)
	return nil
}

type MeasurementRestoreCmd struct {
	Name string `arg:"" help:"Measurement name."`
}

func (c *MeasurementRestoreCmd) Run(ctx *cli.Context) error {
	all, err := ctx.Store.GetAllMeasurements(true)
	if err != nil {
		return err
	}
	m, ok := lo.Find(all, func(m models.Measurement) bool {
		return m.DeletedAt != nil && m.Name == c.Name
	})
	if !ok {
		return fmt.Errorf("deleted measurement %q: %w", c.Name, storage.ErrNotFound)
	}
	if err := ctx.Store.RestoreMeasurement(m.ID); err != nil {
		return err
	}
	fmt.Printf("Restored measurement: %s\n", m.Name)
	return nil
}

type MeasurementRecordCmd struct {
	Name  string `arg:"" help:"Measurement name."`
	Value string `arg:"" help:"Value to record (yes/no for bool measurements)."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
	Add   bool   `help:"Add to the value already recorded instead of replacing it."`
}

func (c *MeasurementRecordCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	m, err := ctx.Store.GetMeasurementByName(c.Name)
	if err != nil {
		return err
	}

	value, err := ParseValue(m.Type, c.Value)
	if err != nil {
		return err
	}
	if c.Add {
		existing, err := ctx.Store.GetRecording(m.ID, date)
		switch {
		case err == nil:
			value += existing.Value
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}
	}

	rec := models.MeasurementRecording{MeasurementID: m.ID, Day: date, Value: value, UpdatedAt: time.Now()}
	if err := ctx.Store.SetRecording(rec); err != nil {
		return err
	}

	fmt.Printf("Recorded %s = %s on %s\n", m.Name, cli.FormatValue(&value), date)
	return nil
}

// ParseValue parses a user-entered value for a measurement of type t
func ParseValue(t models.MeasurementType, raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if t == models.MeasurementBool {
		switch s {
		case "1", "yes", "y", "true", "done":
			return 1, nil
		case "0", "no", "n", "false":
			return 0, nil
		}
		return 0, fmt.Errorf("invalid value %q for a bool measurement (use yes or no)", raw)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: must be a number", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid value %q: must not be negative", raw)
	}
	return v, nil
}

type MeasurementUnrecordCmd struct {
	Name string `arg:"" help:"Measurement name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *MeasurementUnrecordCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	m, err := ctx.Store.GetMeasurementByName(c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteRecording(m.ID, date); err != nil {
		return err
	}
	fmt.Printf("Removed %s recording on %s\n", m.Name, date)
	return nil
}

type MeasurementLogCmd struct {
	Name string `arg:"" help:"Measurement name."`
	Days int    `help:"Number of days to show." default:"14"`
	Date string `help:"Last day shown (default: today)."`
}

func (c *MeasurementLogCmd) Run(ctx *cli.Context) error {
	end, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	days := c.Days
	if days <= 0 {
		days = constants.DefaultLogDays
	}
	start, err := utils.AddDays(end, -(days - 1))
	if err != nil {
		return err
	}

	m, err := ctx.Store.GetMeasurementByName(c.Name)
	if err != nil {
		return err
	}
	recs, err := ctx.Store.GetRecordingsForMeasurement(m.ID, start, end)
	if err != nil {
		return err
	}
	byDay := lo.SliceToMap(recs, func(r models.MeasurementRecording) (string, float64) {
		return r.Day, r.Value
	})

	dates, err := utils.DateRange(start, end)
	if err != nil {
		return err
	}

	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("%s (%s to %s)", m.Name, start, end)))
	for _, d := range dates {
		var v *float64
		if val, ok := byDay[d]; ok {
			v = &val
		}
		fmt.Printf("  %s  %s %s\n", d, cli.FormatValue(v), cli.MutedStyle.Render(m.Unit))
	}
	return nil
}
