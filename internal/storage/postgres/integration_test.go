package postgres

import (
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/julianstephens/tally/internal/habit"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

// TestStore_Integration runs against a real database.
// Set TALLY_TEST_POSTGRES to run it, e.g.
// TALLY_TEST_POSTGRES="postgres://tally@localhost:5432/tally_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("TALLY_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("TALLY_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	suffix := uuid.New().String()[:8]

	t.Run("Settings", func(t *testing.T) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("Failed to get settings: %v", err)
		}
		if settings.UserID == "" {
			t.Error("Expected generated user id")
		}
	})

	measurement := models.Measurement{ID: uuid.New().String(), Name: "steps-" + suffix, Type: models.MeasurementCount}

	t.Run("Measurements", func(t *testing.T) {
		if err := store.AddMeasurement(measurement); err != nil {
			t.Fatalf("Failed to add measurement: %v", err)
		}
		got, err := store.GetMeasurementByName(measurement.Name)
		if err != nil {
			t.Fatalf("Failed to get measurement: %v", err)
		}
		if got.ID != measurement.ID {
			t.Errorf("Expected id %s, got %s", measurement.ID, got.ID)
		}
	})

	t.Run("HabitEvaluation", func(t *testing.T) {
		for day, v := range map[string]float64{"2024-06-03": 6000, "2024-06-04": 5000} {
			if err := store.SetRecording(models.MeasurementRecording{MeasurementID: measurement.ID, Day: day, Value: v}); err != nil {
				t.Fatalf("Failed to set recording: %v", err)
			}
		}

		name := "walk-" + suffix
		weekly := true
		conds := []models.Condition{{MeasurementID: measurement.ID, Operator: models.OpGreaterOrEqual, Target: 10000}}
		h := models.Habit{
			ID:      uuid.New().String(),
			Updates: []models.HabitUpdate{{Date: "2024-06-01", Name: &name, IsWeekly: &weekly, Conditions: &conds}},
		}
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("Failed to add habit: %v", err)
		}

		loaded, err := store.GetHabit(h.ID)
		if err != nil {
			t.Fatalf("Failed to get habit: %v", err)
		}
		idx, err := storage.LoadRecordingIndex(store, "2024-06-03", "2024-06-09")
		if err != nil {
			t.Fatalf("Failed to load recordings: %v", err)
		}

		computed := habit.ComputeHabit(loaded, "2024-06-09")
		week := []string{"2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07", "2024-06-08", "2024-06-09"}
		if day := habit.CompletionDay(&computed, idx, week); day != 1 {
			t.Errorf("Expected completion on day 1, got %d", day)
		}

		if err := store.DeleteHabit(h.ID); err != nil {
			t.Fatalf("Failed to delete habit: %v", err)
		}
		if _, err := store.GetHabit(h.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		if err := store.DeleteMeasurement(measurement.ID); err != nil {
			t.Errorf("Failed to delete measurement: %v", err)
		}
	})
}
