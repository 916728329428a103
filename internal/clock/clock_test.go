package clock

import (
	"os"
	"testing"

	"github.com/becoming-cli/becoming/internal/constants"
)

func TestAddDays(t *testing.T) {
	tests := []struct {
		day  string
		n    int
		want string
	}{
		{"2025-08-26", 1, "2025-08-27"},
		{"2025-08-26", -1, "2025-08-25"},
		{"2025-08-31", 1, "2025-09-01"},
		{"2025-12-31", 1, "2026-01-01"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2025-02-28", 1, "2025-03-01"},
	}

	for _, tt := range tests {
		got, err := AddDays(tt.day, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%s, %d) returned error: %v", tt.day, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%s, %d) = %s, want %s", tt.day, tt.n, got, tt.want)
		}
	}

	if _, err := AddDays("not-a-date", 1); err == nil {
		t.Error("AddDays with invalid date should return an error")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2025-08-25", "2025-08-26", 1},
		{"2025-08-25", "2025-08-27", 2},
		{"2025-08-27", "2025-08-25", -2},
		{"2025-08-26", "2025-08-26", 0},
		{"2025-08-29", "2025-09-01", 3}, // month boundary
	}

	for _, tt := range tests {
		got, err := DaysBetween(tt.a, tt.b)
		if err != nil {
			t.Fatalf("DaysBetween(%s, %s) returned error: %v", tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSystemTodayOverride(t *testing.T) {
	t.Setenv(constants.EnvToday, "2025-08-26")

	day, err := System{}.Today("America/New_York")
	if err != nil {
		t.Fatalf("Today returned error: %v", err)
	}
	if day != "2025-08-26" {
		t.Errorf("Today = %s, want override 2025-08-26", day)
	}
}

func TestSystemTodayInvalidOverride(t *testing.T) {
	t.Setenv(constants.EnvToday, "yesterday")

	if _, err := (System{}).Today(""); err == nil {
		t.Error("Today with malformed override should return an error")
	}
}

func TestSystemTodayInvalidTimezone(t *testing.T) {
	os.Unsetenv(constants.EnvToday)

	if _, err := (System{}).Today("Mars/Olympus_Mons"); err == nil {
		t.Error("Today with unknown timezone should return an error")
	}
}

func TestFixedClock(t *testing.T) {
	c := Fixed{Day: "2025-08-26"}

	day, err := c.Today("Europe/Berlin")
	if err != nil {
		t.Fatalf("Today returned error: %v", err)
	}
	if day != "2025-08-26" {
		t.Errorf("Today = %s, want 2025-08-26", day)
	}

	if got := c.Now().Format(constants.DateFormat); got != "2025-08-26" {
		t.Errorf("Now().Format = %s, want 2025-08-26", got)
	}
}
