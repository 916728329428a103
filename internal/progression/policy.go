// Package progression owns the reward curve: which stat and XP deltas each
// game event grants. The engine applies deltas without knowing the table, so
// alternate curves can be swapped in without touching resolution logic.
package progression

import (
	"github.com/becoming-cli/becoming/internal/models"
)

// Delta is a set of stat adjustments granted by a single game event.
type Delta struct {
	XP         int
	Clarity    int
	Discipline int
	Resilience int
}

// Apply adds the delta to a stats snapshot and returns the result.
func (d Delta) Apply(stats models.CharacterStats) models.CharacterStats {
	stats.XP += d.XP
	stats.Clarity += d.Clarity
	stats.Discipline += d.Discipline
	stats.Resilience += d.Resilience
	return stats
}

// Policy maps game events to stat deltas.
type Policy interface {
	// IntentionSet rewards declaring an intention for the day.
	IntentionSet() Delta
	// Resolution rewards resolving a day along the given path.
	Resolution(path models.ResolutionPath) Delta
	// FocusBlockCompleted rewards finishing a focus block.
	FocusBlockCompleted() Delta
}

// DefaultPolicy is the standard reward table. A perfect day pays more than a
// recovered one, but recovery still pays: failing forward must never feel
// like losing.
type DefaultPolicy struct{}

func (DefaultPolicy) IntentionSet() Delta {
	return Delta{Clarity: 1}
}

func (DefaultPolicy) Resolution(path models.ResolutionPath) Delta {
	switch path {
	case models.PathPerfect:
		return Delta{XP: 20, Discipline: 1}
	case models.PathActiveRecovery, models.PathPassiveRecovery:
		return Delta{XP: 15, Resilience: 1}
	}
	return Delta{}
}

func (DefaultPolicy) FocusBlockCompleted() Delta {
	return Delta{XP: 10}
}
