package progression

import (
	"testing"

	"github.com/becoming-cli/becoming/internal/models"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy{}

	if d := p.IntentionSet(); d.Clarity != 1 || d.XP != 0 {
		t.Errorf("IntentionSet = %+v, want clarity 1", d)
	}
	if d := p.Resolution(models.PathPerfect); d.XP != 20 || d.Discipline != 1 {
		t.Errorf("perfect resolution = %+v, want 20 XP +1 discipline", d)
	}
	for _, path := range []models.ResolutionPath{models.PathActiveRecovery, models.PathPassiveRecovery} {
		if d := p.Resolution(path); d.XP != 15 || d.Resilience != 1 {
			t.Errorf("%s resolution = %+v, want 15 XP +1 resilience", path, d)
		}
	}
	if d := p.FocusBlockCompleted(); d.XP != 10 {
		t.Errorf("FocusBlockCompleted = %+v, want 10 XP", d)
	}
}

func TestDeltaApply(t *testing.T) {
	stats := models.CharacterStats{UserID: "u", XP: 90, Clarity: 2}
	got := Delta{XP: 20, Discipline: 1}.Apply(stats)

	if got.XP != 110 || got.Clarity != 2 || got.Discipline != 1 {
		t.Errorf("Apply = %+v", got)
	}
	if stats.XP != 90 {
		t.Error("Apply mutated its input")
	}
}

func TestLevelCurve(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1}, {99, 1}, {100, 2}, {399, 2}, {400, 3}, {900, 4},
	}
	for _, tt := range tests {
		got := models.CharacterStats{XP: tt.xp}.Level()
		if got != tt.want {
			t.Errorf("Level(%d XP) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}
