package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/becoming-cli/becoming/internal/engine"
	"github.com/becoming-cli/becoming/internal/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	streakStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	blockedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// PathLabel renders a resolution path for display.
func PathLabel(path models.ResolutionPath) string {
	switch path {
	case models.PathPerfect:
		return "Perfect"
	case models.PathActiveRecovery:
		return "Active Recovery"
	case models.PathPassiveRecovery:
		return "Passive Recovery"
	}
	return string(path)
}

// RenderStreak renders the one-line streak header.
func RenderStreak(user models.User) string {
	flame := "🔥"
	if user.CurrentStreak == 0 {
		flame = "·"
	}
	line := fmt.Sprintf("%s streak: %d", flame, user.CurrentStreak)
	if user.LongestStreak > user.CurrentStreak {
		line += faintStyle.Render(fmt.Sprintf("  (best: %d)", user.LongestStreak))
	}
	return streakStyle.Render(line)
}

// RenderState renders a check-in state with the user's valid next action.
func RenderState(state engine.CheckInState) string {
	var b strings.Builder

	switch state.Kind {
	case engine.StateBlocked:
		b.WriteString(blockedStyle.Render("⛔ Blocked: yesterday's intention failed and its recovery quest is open."))
		b.WriteString("\n\n")
		b.WriteString("  " + state.Quest.Prompt + "\n\n")
		b.WriteString(faintStyle.Render("  Answer it with: becoming quest done"))

	case engine.StateReady:
		b.WriteString(okStyle.Render("Ready for a new intention."))
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("  Set it with: becoming intent set \"<one needle-mover>\""))

	case engine.StateAlreadyResolved:
		in := state.Intention
		switch {
		case state.Resolution != nil:
			b.WriteString(okStyle.Render(fmt.Sprintf("✓ %s resolved (%s).", state.Resolution.Day, PathLabel(state.Resolution.Path))))
		case state.Quest != nil:
			b.WriteString(fmt.Sprintf("Intention failed: %s\n\n", in.Description))
			b.WriteString("  " + state.Quest.Prompt + "\n\n")
			b.WriteString(faintStyle.Render("  Recover today with: becoming quest done"))
		case in.Status == models.IntentionPending:
			b.WriteString(fmt.Sprintf("Today's intention: %s\n", in.Description))
			b.WriteString(faintStyle.Render("  Finish with 'becoming intent done' or declare 'becoming intent fail'"))
		default:
			b.WriteString(fmt.Sprintf("Today's intention is %s: %s", in.Status, in.Description))
		}
	}

	return b.String()
}
