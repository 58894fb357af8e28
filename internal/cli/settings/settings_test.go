package settings

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return &cli.Context{Store: store}
}

func TestSettingsShow(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&SettingsShowCmd{}).Run(ctx); err != nil {
		t.Errorf("settings show failed: %v", err)
	}
}

func TestSettingsSet(t *testing.T) {
	ctx := setupTestDB(t)

	tz, ws := "Asia/Tokyo", "sunday"
	cmd := &SettingsSetCmd{Timezone: &tz, WeekStart: &ws}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != "Asia/Tokyo" {
		t.Errorf("expected timezone Asia/Tokyo, got %s", settings.Timezone)
	}
	if settings.WeekStart != time.Sunday {
		t.Errorf("expected sunday, got %v", settings.WeekStart)
	}

	cached, _ := ctx.Settings()
	if cached.Timezone != "Asia/Tokyo" {
		t.Errorf("context kept stale settings: %+v", cached)
	}
}

func TestSettingsSetRejectsInvalid(t *testing.T) {
	ctx := setupTestDB(t)

	badTZ := "Mars/Olympus"
	if err := (&SettingsSetCmd{Timezone: &badTZ}).Run(ctx); err == nil {
		t.Error("expected invalid timezone to fail")
	}

	badWS := "wednesday"
	if err := (&SettingsSetCmd{WeekStart: &badWS}).Run(ctx); err == nil {
		t.Error("expected invalid week start to fail")
	}
}
