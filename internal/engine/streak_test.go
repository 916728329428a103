package engine_test

import (
	"testing"

	"github.com/becoming-cli/becoming/internal/engine"
	"github.com/becoming-cli/becoming/internal/models"
)

func resolutionsFor(days ...string) []models.Resolution {
	rs := make([]models.Resolution, 0, len(days))
	for _, d := range days {
		rs = append(rs, models.Resolution{Day: d, Path: models.PathPerfect})
	}
	return rs
}

func TestRecomputeStreak(t *testing.T) {
	tests := []struct {
		name    string
		days    []string
		current int
		longest int
		last    string
	}{
		{"empty history", nil, 0, 0, ""},
		{"single day", []string{"2026-08-28"}, 1, 1, "2026-08-28"},
		{"consecutive days", []string{"2026-08-26", "2026-08-27", "2026-08-28"}, 3, 3, "2026-08-28"},
		{"grace gap of two counts", []string{"2026-08-24", "2026-08-26"}, 2, 2, "2026-08-26"},
		{"gap of three breaks", []string{"2026-08-24", "2026-08-27"}, 1, 1, "2026-08-27"},
		{"longest survives a break", []string{"2026-08-20", "2026-08-21", "2026-08-22", "2026-08-28"}, 1, 3, "2026-08-28"},
		{"month boundary", []string{"2026-08-31", "2026-09-01"}, 2, 2, "2026-09-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest, last, err := engine.RecomputeStreak(resolutionsFor(tt.days...))
			if err != nil {
				t.Fatalf("RecomputeStreak: %v", err)
			}
			if current != tt.current || longest != tt.longest {
				t.Errorf("streak = (%d, %d), want (%d, %d)", current, longest, tt.current, tt.longest)
			}
			if tt.last == "" {
				if last != nil {
					t.Errorf("last = %v, want nil", *last)
				}
			} else if last == nil || *last != tt.last {
				t.Errorf("last = %v, want %s", last, tt.last)
			}
		})
	}
}

func TestRecomputeStreakRejectsBadDay(t *testing.T) {
	if _, _, _, err := engine.RecomputeStreak(resolutionsFor("2026-08-28", "not-a-day")); err == nil {
		t.Fatal("expected error for malformed day")
	}
}
