package measurements

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &cli.Context{Store: store}
}

func TestMeasurementAddAndDuplicate(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&MeasurementAddCmd{Name: "water", Type: "count", Unit: "cups"}).Run(ctx); err != nil {
		t.Fatalf("measurement add failed: %v", err)
	}
	m, err := ctx.Store.GetMeasurementByName("water")
	if err != nil {
		t.Fatalf("measurement not stored: %v", err)
	}
	if m.Unit != "cups" || m.UserID == "" {
		t.Errorf("unexpected measurement: %+v", m)
	}

	if err := (&MeasurementAddCmd{Name: "water", Type: "count"}).Run(ctx); err == nil {
		t.Error("expected duplicate name to fail")
	}
	if err := (&MeasurementAddCmd{Name: "mood", Type: "weight"}).Run(ctx); err == nil {
		t.Error("expected invalid type to fail validation")
	}
}

func TestMeasurementRecord(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&MeasurementAddCmd{Name: "steps", Type: "count"}).Run(ctx); err != nil {
		t.Fatalf("measurement add failed: %v", err)
	}
	m, _ := ctx.Store.GetMeasurementByName("steps")

	if err := (&MeasurementRecordCmd{Name: "steps", Value: "4000", Date: "2024-05-01"}).Run(ctx); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := (&MeasurementRecordCmd{Name: "steps", Value: "2500", Date: "2024-05-01", Add: true}).Run(ctx); err != nil {
		t.Fatalf("record --add failed: %v", err)
	}
	rec, err := ctx.Store.GetRecording(m.ID, "2024-05-01")
	if err != nil {
		t.Fatalf("GetRecording failed: %v", err)
	}
	if rec.Value != 6500 {
		t.Errorf("expected 6500, got %v", rec.Value)
	}

	if err := (&MeasurementRecordCmd{Name: "steps", Value: "100", Date: "2024-05-01"}).Run(ctx); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	rec, _ = ctx.Store.GetRecording(m.ID, "2024-05-01")
	if rec.Value != 100 {
		t.Errorf("expected replace to 100, got %v", rec.Value)
	}

	if err := (&MeasurementRecordCmd{Name: "steps", Value: "lots"}).Run(ctx); err == nil {
		t.Error("expected non-numeric value to fail")
	}
	if err := (&MeasurementRecordCmd{Name: "steps", Value: "1", Date: "05/01/2024"}).Run(ctx); err == nil {
		t.Error("expected bad date to fail")
	}

	if err := (&MeasurementUnrecordCmd{Name: "steps", Date: "2024-05-01"}).Run(ctx); err != nil {
		t.Fatalf("unrecord failed: %v", err)
	}
	if _, err := ctx.Store.GetRecording(m.ID, "2024-05-01"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected recording to be removed, got %v", err)
	}

	if err := (&MeasurementLogCmd{Name: "steps", Days: 7, Date: "2024-05-07"}).Run(ctx); err != nil {
		t.Errorf("log failed: %v", err)
	}
}

func TestMeasurementDeleteRestore(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&MeasurementAddCmd{Name: "coffee", Type: "count"}).Run(ctx); err != nil {
		t.Fatalf("measurement add failed: %v", err)
	}

	if err := (&MeasurementDeleteCmd{Name: "coffee"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.Store.GetMeasurementByName("coffee"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected deleted measurement to be hidden, got %v", err)
	}
	if err := (&MeasurementListCmd{Deleted: true}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}

	if err := (&MeasurementRestoreCmd{Name: "coffee"}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if _, err := ctx.Store.GetMeasurementByName("coffee"); err != nil {
		t.Errorf("expected restored measurement, got %v", err)
	}
	if err := (&MeasurementRestoreCmd{Name: "coffee"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound restoring an active measurement, got %v", err)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		typ     models.MeasurementType
		raw     string
		want    float64
		wantErr bool
	}{
		{models.MeasurementCount, "12", 12, false},
		{models.MeasurementDuration, "1.5", 1.5, false},
		{models.MeasurementCount, "-1", 0, true},
		{models.MeasurementCount, "abc", 0, true},
		{models.MeasurementBool, "yes", 1, false},
		{models.MeasurementBool, "No", 0, false},
		{models.MeasurementBool, "maybe", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseValue(tt.typ, tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseValue(%s, %q) error = %v, wantErr %v", tt.typ, tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseValue(%s, %q) = %v, want %v", tt.typ, tt.raw, got, tt.want)
		}
	}
}
