package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/becoming-cli/becoming/internal/engine"
	"github.com/becoming-cli/becoming/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	// Handle Intention Form State
	if m.state == stateIntentionForm {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.state = stateDashboard
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			description := strings.TrimSpace(m.intentionForm.Description)
			if description == "" {
				m.formError = "Intention cannot be empty"
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			if _, err := m.engine.SetIntention(m.user.ID, description); err != nil {
				m.formError = fmt.Sprintf("Failed to set intention: %v", err)
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.formError = ""
			m.statusMsg = "Intention set. Go do the thing."
			m.state = stateDashboard
			m.refresh()
		case huh.StateAborted:
			m.state = stateDashboard
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Quest Form State
	if m.state == stateQuestForm {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.state = stateDashboard
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			response := strings.TrimSpace(m.questForm.Response)
			if response == "" {
				m.formError = "Reflection cannot be empty"
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			quest := m.game.Quest
			res, err := m.engine.CompleteRecoveryQuest(m.user.ID, quest.ID, response)
			if err != nil {
				m.formError = fmt.Sprintf("Failed to complete quest: %v", err)
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.formError = ""
			m.statusMsg = fmt.Sprintf("✓ %s resolved (%s, +%d XP)", res.Day, pathLabel(res.Path), res.XPAwarded)
			m.state = stateDashboard
			m.refresh()
		case huh.StateAborted:
			m.state = stateDashboard
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Confirm Fail State
	if m.state == stateConfirmFail {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "y":
				quest, err := m.engine.FailIntention(m.user.ID, m.game.Intention.ID)
				if err != nil {
					m.statusMsg = dangerStyle.Render(fmt.Sprintf("Failed to declare failure: %v", err))
				} else {
					m.statusMsg = "Failure declared. Recovery quest: " + quest.Prompt
				}
				m.state = stateDashboard
				m.refresh()
			case "n", "esc", "q":
				m.state = stateDashboard
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.Refresh):
			m.statusMsg = ""
			if _, err := m.engine.CheckIn(m.user.ID); err != nil {
				m.loadError = err.Error()
				return m, nil
			}
			m.refresh()

		case key.Matches(msg, m.keys.Intent):
			if m.game.Kind != engine.StateReady {
				return m, nil
			}
			m.intentionForm = &IntentionFormModel{}
			m.form = huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("What is the one thing that would make today a win?").
					Value(&m.intentionForm.Description),
			))
			m.formError = ""
			m.state = stateIntentionForm
			return m, m.form.Init()

		case key.Matches(msg, m.keys.Done):
			if m.game.Intention == nil || m.game.Intention.Status != models.IntentionPending || m.game.Quest != nil {
				return m, nil
			}
			res, err := m.engine.CompleteIntention(m.user.ID, m.game.Intention.ID)
			if err != nil {
				m.statusMsg = dangerStyle.Render(fmt.Sprintf("Failed to complete intention: %v", err))
				return m, nil
			}
			m.statusMsg = okStyle.Render(fmt.Sprintf("✓ %s resolved (%s, +%d XP)", res.Day, pathLabel(res.Path), res.XPAwarded))
			m.refresh()

		case key.Matches(msg, m.keys.Fail):
			if m.game.Intention == nil || m.game.Intention.Status != models.IntentionPending {
				return m, nil
			}
			m.state = stateConfirmFail

		case key.Matches(msg, m.keys.Answer):
			if m.game.Quest == nil {
				return m, nil
			}
			m.questForm = &QuestFormModel{}
			m.form = huh.NewForm(huh.NewGroup(
				huh.NewText().
					Title(m.game.Quest.Prompt).
					Value(&m.questForm.Response),
			))
			m.formError = ""
			m.state = stateQuestForm
			return m, m.form.Init()
		}
	}

	return m, tea.Batch(cmds...)
}

// answerableQuest reports whether a pending quest is on screen. Used by the
// view to decide which hints to show.
func (m Model) answerableQuest() bool {
	return m.game.Quest != nil && m.game.Quest.Status == models.QuestPending
}

func pathLabel(path models.ResolutionPath) string {
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
