package utils

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone America/New_York", timezone: "America/New_York", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestGetTodayInTimezone(t *testing.T) {
	today, err := GetTodayInTimezone("UTC")
	if err != nil {
		t.Fatalf("GetTodayInTimezone() error = %v", err)
	}
	if !ValidateDate(today) {
		t.Errorf("GetTodayInTimezone() = %q, not a YYYY-MM-DD date", today)
	}

	if _, err := GetTodayInTimezone("Not/AZone"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestPreviousDay(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024-03-01", "2024-02-29"},
		{"2024-01-01", "2023-12-31"},
		{"2024-06-15", "2024-06-14"},
	}
	for _, tt := range tests {
		got, err := PreviousDay(tt.in)
		if err != nil {
			t.Fatalf("PreviousDay(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("PreviousDay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := PreviousDay("2024/01/01"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestDateRange(t *testing.T) {
	got, err := DateRange("2024-02-27", "2024-03-01")
	if err != nil {
		t.Fatalf("DateRange() error = %v", err)
	}
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DateRange() = %v, want %v", got, want)
	}

	empty, err := DateRange("2024-03-02", "2024-03-01")
	if err != nil {
		t.Fatalf("DateRange() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty range, got %v", empty)
	}
}

func TestWeekDates(t *testing.T) {
	// 2024-01-03 is a Wednesday
	tests := []struct {
		name      string
		weekStart time.Weekday
		wantFirst string
		wantLast  string
	}{
		{name: "monday start", weekStart: time.Monday, wantFirst: "2024-01-01", wantLast: "2024-01-07"},
		{name: "sunday start", weekStart: time.Sunday, wantFirst: "2023-12-31", wantLast: "2024-01-06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week, err := WeekDates("2024-01-03", tt.weekStart)
			if err != nil {
				t.Fatalf("WeekDates() error = %v", err)
			}
			if len(week) != 7 {
				t.Fatalf("expected 7 dates, got %d", len(week))
			}
			if week[0] != tt.wantFirst || week[6] != tt.wantLast {
				t.Errorf("WeekDates() = %v, want %s..%s", week, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestWeekDatesThrough(t *testing.T) {
	week, err := WeekDatesThrough("2024-01-03", time.Monday)
	if err != nil {
		t.Fatalf("WeekDatesThrough() error = %v", err)
	}
	want := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	if !reflect.DeepEqual(week, want) {
		t.Errorf("WeekDatesThrough() = %v, want %v", week, want)
	}

	// First day of the week yields a single date
	week, err = WeekDatesThrough("2024-01-01", time.Monday)
	if err != nil {
		t.Fatalf("WeekDatesThrough() error = %v", err)
	}
	if !reflect.DeepEqual(week, []string{"2024-01-01"}) {
		t.Errorf("WeekDatesThrough() = %v", week)
	}
}
