package progression

import "github.com/becoming-cli/becoming/internal/models"

// Advisor supplies the coaching copy shown after game events. Implementations
// must be side-effect free; the engine may call them on read-only paths.
type Advisor interface {
	// IntentionSet is shown after an intention is declared.
	IntentionSet(description string) string
	// Resolved is shown after a day resolves along the given path.
	Resolved(path models.ResolutionPath) string
	// QuestPrompt produces the reflection prompt attached to a new
	// recovery quest for the given failed intention.
	QuestPrompt(description string) string
}

// StaticAdvisor returns fixed coaching lines. It keeps the CLI fully offline.
type StaticAdvisor struct{}

func (StaticAdvisor) IntentionSet(description string) string {
	return "Intention locked in. One day, one needle-mover."
}

func (StaticAdvisor) Resolved(path models.ResolutionPath) string {
	switch path {
	case models.PathPerfect:
		return "Perfect day. The streak grows because you showed up."
	case models.PathActiveRecovery:
		return "You stumbled and recovered the same day. That is the whole game."
	case models.PathPassiveRecovery:
		return "Yesterday is repaired. Failing forward keeps the streak alive."
	}
	return "Day resolved."
}

func (StaticAdvisor) QuestPrompt(description string) string {
	return "What was the smallest version of \"" + description + "\" you could have shipped? Write it down."
}
