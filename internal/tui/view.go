package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/becoming-cli/becoming/internal/engine"
	"github.com/becoming-cli/becoming/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.loadError != "" {
		return docStyle.Render(dangerStyle.Render("Error: " + m.loadError))
	}

	var content string
	switch m.state {
	case stateIntentionForm, stateQuestForm:
		content = m.form.View()
		if m.formError != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, dangerStyle.Render(m.formError), "", content)
		}
	case stateConfirmFail:
		content = m.viewConfirmFail()
	default:
		content = m.viewDashboard()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		"",
		m.help.View(m),
	)

	return docStyle.Render(ui)
}

func (m Model) viewHeader() string {
	title := titleStyle.Render(fmt.Sprintf("becoming — %s — %s", m.user.Name, m.game.Today))

	flame := "🔥"
	if m.user.CurrentStreak == 0 {
		flame = "·"
	}
	streak := streakStyle.Render(fmt.Sprintf("%s streak: %d", flame, m.user.CurrentStreak))
	if m.user.LongestStreak > m.user.CurrentStreak {
		streak += faintStyle.Render(fmt.Sprintf("  (best: %d)", m.user.LongestStreak))
	}

	level := faintStyle.Render(fmt.Sprintf("level %d · %d XP", m.stats.Level(), m.stats.XP))

	return lipgloss.JoinVertical(lipgloss.Left, title, streak, level, "")
}

func (m Model) viewDashboard() string {
	var b strings.Builder

	switch m.game.Kind {
	case engine.StateBlocked:
		b.WriteString(dangerStyle.Render("⛔ Blocked: yesterday's intention failed and its recovery quest is open."))
		b.WriteString("\n\n")
		b.WriteString("  " + m.game.Quest.Prompt + "\n\n")
		b.WriteString(faintStyle.Render("  Press 'a' to answer it."))

	case engine.StateReady:
		b.WriteString(okStyle.Render("Ready for a new intention."))
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("  Press 'i' to set the one thing that makes today a win."))

	case engine.StateAlreadyResolved:
		in := m.game.Intention
		switch {
		case m.game.Resolution != nil:
			b.WriteString(okStyle.Render(fmt.Sprintf("✓ %s resolved (%s).", m.game.Resolution.Day, pathLabel(m.game.Resolution.Path))))
			b.WriteString("\n")
			b.WriteString(faintStyle.Render("  Come back tomorrow."))
		case m.answerableQuest():
			b.WriteString(fmt.Sprintf("Intention failed: %s\n\n", in.Description))
			b.WriteString("  " + m.game.Quest.Prompt + "\n\n")
			b.WriteString(faintStyle.Render("  Press 'a' to recover today."))
		case in.Status == models.IntentionPending:
			b.WriteString("Today's intention:\n\n")
			b.WriteString("  " + in.Description + "\n\n")
			b.WriteString(faintStyle.Render("  Press 'd' when it's done, 'f' to declare failure."))
		default:
			b.WriteString(fmt.Sprintf("Today's intention is %s: %s", in.Status, in.Description))
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(m.statusMsg)
	}

	return b.String()
}

func (m Model) viewConfirmFail() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render("Declare today's intention failed?"),
		faintStyle.Render("A recovery quest will open; answering it keeps the streak alive."),
		"",
		"[y] Yes",
		"[n] No",
	)
}
