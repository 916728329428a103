// Package tui is the interactive dashboard: one screen showing the streak,
// today's state, and the single valid next action.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/becoming-cli/becoming/internal/engine"
	"github.com/becoming-cli/becoming/internal/models"
)

type sessionState int

const (
	stateDashboard sessionState = iota
	stateIntentionForm
	stateQuestForm
	stateConfirmFail
)

type IntentionFormModel struct {
	Description string
}

type QuestFormModel struct {
	Response string
}

type Model struct {
	engine        *engine.Engine
	user          models.User
	stats         models.CharacterStats
	game          engine.CheckInState
	state         sessionState
	keys          KeyMap
	help          help.Model
	form          *huh.Form
	intentionForm *IntentionFormModel
	questForm     *QuestFormModel
	statusMsg     string
	formError     string
	loadError     string
	quitting      bool
	width         int
	height        int
}

func NewModel(eng *engine.Engine, user models.User) Model {
	m := Model{
		engine: eng,
		user:   user,
		state:  stateDashboard,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}

	// Check-in runs housekeeping (expiring lapsed quests) before the first
	// render; later refreshes are read-only.
	if _, err := eng.CheckIn(user.ID); err != nil {
		m.loadError = err.Error()
		return m
	}
	m.refresh()

	return m
}

// refresh reloads the streak, stats and today's state from the store.
func (m *Model) refresh() {
	gs, err := m.engine.GetGameState(m.user.ID)
	if err != nil {
		m.loadError = err.Error()
		return
	}
	m.user = gs.User
	m.stats = gs.Stats
	m.game = gs.State
	m.loadError = ""
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{}
	switch m.game.Kind {
	case engine.StateReady:
		keys = append(keys, m.keys.Intent)
	case engine.StateBlocked:
		keys = append(keys, m.keys.Answer)
	case engine.StateAlreadyResolved:
		if m.game.Quest != nil {
			keys = append(keys, m.keys.Answer)
		} else if m.game.Intention != nil && m.game.Intention.Status == models.IntentionPending {
			keys = append(keys, m.keys.Done, m.keys.Fail)
		}
	}
	return append(keys, m.keys.Refresh, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Intent, m.keys.Done, m.keys.Fail, m.keys.Answer},
		{m.keys.Refresh, m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}
