package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore(filepath.Join(t.TempDir(), "nested", "tally.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestInitCreatesSchemaAndSettings(t *testing.T) {
	store := setupTestStore(t)

	if _, err := os.Stat(store.GetConfigPath()); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	for _, table := range []string{"settings", "measurements", "measurement_recordings", "habits", "habit_updates", "SCHEMA_VERSION"} {
		exists, err := store.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%q) failed: %v", table, err)
		}
		if !exists {
			t.Errorf("tableExists(%q) = false, want true after running migrations", table)
		}
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.UserID == "" {
		t.Error("expected a generated user id")
	}

	st, err := store.SchemaStatus()
	if err != nil {
		t.Fatalf("SchemaStatus failed: %v", err)
	}
	if st.Current != st.Latest || len(st.Pending) != 0 {
		t.Errorf("expected schema to be current, got %+v", st)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	settings, _ := store.GetSettings()

	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	again, _ := store.GetSettings()
	if again.UserID != settings.UserID {
		t.Errorf("user id regenerated: %s != %s", again.UserID, settings.UserID)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "init") {
		t.Fatalf("expected not-initialized error, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.db")

	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.AddMeasurement(models.Measurement{ID: "m1", Name: "pages", Type: models.MeasurementCount}); err != nil {
		t.Fatalf("AddMeasurement failed: %v", err)
	}
	if err := store.SetRecording(models.MeasurementRecording{MeasurementID: "m1", Day: "2024-05-01", Value: 12}); err != nil {
		t.Fatalf("SetRecording failed: %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	idx, err := storage.LoadRecordingIndex(reopened, "2024-05-01", "2024-05-01")
	if err != nil {
		t.Fatalf("LoadRecordingIndex failed: %v", err)
	}
	if v, ok := idx.Value("m1", "2024-05-01"); !ok || v != 12 {
		t.Errorf("expected 12, got %v (%v)", v, ok)
	}
}

func TestLoadRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := store.DB().Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	defer reopened.Close()
	if err := reopened.Load(); err == nil || !strings.Contains(err.Error(), "newer") {
		t.Errorf("expected newer-schema error, got %v", err)
	}
}

func TestFindHabitByName(t *testing.T) {
	store := setupTestStore(t)

	early, late := "read", "read more"
	h := models.Habit{
		ID: "h1",
		Updates: []models.HabitUpdate{
			{Date: "2024-01-01", Name: &early},
			{Date: "2024-02-01", Name: &late},
		},
	}
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	if got, err := storage.FindHabitByName(store, "read", "2024-01-15"); err != nil || got.ID != "h1" {
		t.Errorf("expected h1 by old name, got %v %v", got.ID, err)
	}
	if _, err := storage.FindHabitByName(store, "read", "2024-02-15"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("old name should not match after rename, got %v", err)
	}

	if err := store.DeleteHabit("h1"); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if got, err := storage.FindDeletedHabitByName(store, "read more", "2024-02-15"); err != nil || got.ID != "h1" {
		t.Errorf("expected deleted h1, got %v %v", got.ID, err)
	}
}
