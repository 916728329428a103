// Package engine implements the daily-resolution game loop: one intention
// per calendar day, recovery quests for failed intentions, a consistency
// streak with a single grace day, and progression rewards on every resolved
// day. All mutations are precondition-guarded and commit through single
// storage transactions, so retries are safe and partial state is never
// observable.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/becoming-cli/becoming/internal/clock"
	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/progression"
	"github.com/becoming-cli/becoming/internal/storage"
)

// StateKind classifies a user's check-in state for today.
type StateKind string

const (
	// StateBlocked means yesterday's intention failed and its recovery quest
	// is still pending; it must be resolved before anything else.
	StateBlocked StateKind = "blocked_on_recovery"
	// StateAlreadyResolved means today's intention exists; the day is either
	// resolved or mid-flight (pending intention or same-day quest).
	StateAlreadyResolved StateKind = "already_resolved_today"
	// StateReady means the user may set a new intention for today.
	StateReady StateKind = "ready_for_intention"
)

// CheckInState is the declarative answer to "what is my valid next action".
type CheckInState struct {
	Kind  StateKind
	Today string
	// Intention is today's intention, when one exists.
	Intention *models.DailyIntention
	// Quest is the blocking prior-day quest (StateBlocked) or today's
	// pending same-day quest (StateAlreadyResolved after a failure).
	Quest *models.RecoveryQuest
	// Resolution is today's resolution record, when the day has resolved.
	Resolution *models.Resolution
}

// GameState is a read-only snapshot for status displays.
type GameState struct {
	User  models.User
	Stats models.CharacterStats
	State CheckInState
}

type Engine struct {
	store   storage.Provider
	clock   clock.Clock
	policy  progression.Policy
	advisor progression.Advisor
}

func New(store storage.Provider, clk clock.Clock, policy progression.Policy, advisor progression.Advisor) *Engine {
	return &Engine{store: store, clock: clk, policy: policy, advisor: advisor}
}

// CheckIn classifies the user's current state and performs housekeeping:
// pending quests whose grace window has lapsed are marked expired. Repeated
// calls on the same day return the same state; the housekeeping write
// happens at most once per quest.
func (e *Engine) CheckIn(userID string) (CheckInState, error) {
	user, err := e.store.GetUser(userID)
	if err != nil {
		return CheckInState{}, err
	}
	today, err := e.clock.Today(user.Timezone)
	if err != nil {
		return CheckInState{}, err
	}

	if err := e.expireStaleQuests(userID, today); err != nil {
		return CheckInState{}, err
	}

	return e.classify(userID, today)
}

// expireStaleQuests marks pending quests older than the grace window as
// expired. An expired quest can never complete; it exists so the journal
// explains why a streak broke.
func (e *Engine) expireStaleQuests(userID, today string) error {
	pending, err := e.store.GetPendingQuests(userID)
	if err != nil {
		return err
	}
	for _, q := range pending {
		gap, err := clock.DaysBetween(q.Day, today)
		if err != nil {
			return err
		}
		if gap < 2 {
			continue
		}
		q.Status = models.QuestExpired
		if err := e.store.UpdateQuest(q); err != nil {
			return fmt.Errorf("failed to expire quest %s: %w", q.ID, err)
		}
	}
	return nil
}

func (e *Engine) classify(userID, today string) (CheckInState, error) {
	state := CheckInState{Kind: StateReady, Today: today}

	yesterday, err := clock.AddDays(today, -1)
	if err != nil {
		return CheckInState{}, err
	}

	// A failed intention from yesterday with a pending quest blocks
	// everything else. Older unresolved days are past the grace window and
	// never block.
	yIntention, err := e.store.GetIntention(userID, yesterday)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return CheckInState{}, err
	}
	if err == nil && yIntention.Status == models.IntentionFailed {
		quest, err := e.store.GetQuestByIntention(yIntention.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return CheckInState{}, err
		}
		if err == nil && quest.Status == models.QuestPending {
			state.Kind = StateBlocked
			state.Quest = &quest
			return state, nil
		}
	}

	tIntention, err := e.store.GetIntention(userID, today)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return state, nil
		}
		return CheckInState{}, err
	}

	state.Kind = StateAlreadyResolved
	state.Intention = &tIntention

	if tIntention.Status == models.IntentionFailed {
		quest, err := e.store.GetQuestByIntention(tIntention.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return CheckInState{}, err
		}
		if err == nil && quest.Status == models.QuestPending {
			state.Quest = &quest
		}
	}

	if res, err := e.store.GetResolution(userID, today); err == nil {
		state.Resolution = &res
	} else if !errors.Is(err, storage.ErrNotFound) {
		return CheckInState{}, err
	}

	return state, nil
}

// SetIntention declares the user's one intention for today.
func (e *Engine) SetIntention(userID, description string) (models.DailyIntention, error) {
	user, err := e.store.GetUser(userID)
	if err != nil {
		return models.DailyIntention{}, err
	}
	today, err := e.clock.Today(user.Timezone)
	if err != nil {
		return models.DailyIntention{}, err
	}

	state, err := e.classify(userID, today)
	if err != nil {
		return models.DailyIntention{}, err
	}
	switch state.Kind {
	case StateBlocked:
		return models.DailyIntention{}, ErrBlockedByRecovery
	case StateAlreadyResolved:
		return models.DailyIntention{}, ErrDuplicateIntention
	}

	now := e.clock.Now()
	intention := models.DailyIntention{
		ID:          uuid.NewString(),
		UserID:      userID,
		Day:         today,
		Description: description,
		Status:      models.IntentionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stats, err := e.store.GetStats(userID)
	if err != nil {
		return models.DailyIntention{}, err
	}
	stats = e.policy.IntentionSet().Apply(stats)

	if err := e.store.CreateIntention(intention, stats); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return models.DailyIntention{}, ErrDuplicateIntention
		}
		return models.DailyIntention{}, err
	}

	return intention, nil
}

// CompleteIntention finishes today's intention on its own day (Perfect path).
func (e *Engine) CompleteIntention(userID, intentionID string) (models.Resolution, error) {
	intention, user, today, err := e.loadIntention(userID, intentionID)
	if err != nil {
		return models.Resolution{}, err
	}
	if intention.Status != models.IntentionPending {
		return models.Resolution{}, fmt.Errorf("%w: intention is %s", ErrInvalidTransition, intention.Status)
	}
	if intention.Day != today {
		return models.Resolution{}, fmt.Errorf("%w: intention is for %s, not today", ErrInvalidTransition, intention.Day)
	}

	intention.Status = models.IntentionCompleted
	intention.UpdatedAt = e.clock.Now()

	return e.resolve(user, &intention, nil, today, models.PathPerfect)
}

// FailIntention declares failure on today's intention and creates its
// recovery quest in the same transaction.
func (e *Engine) FailIntention(userID, intentionID string) (models.RecoveryQuest, error) {
	intention, _, today, err := e.loadIntention(userID, intentionID)
	if err != nil {
		return models.RecoveryQuest{}, err
	}
	if intention.Status != models.IntentionPending {
		return models.RecoveryQuest{}, fmt.Errorf("%w: intention is %s", ErrInvalidTransition, intention.Status)
	}
	if intention.Day != today {
		return models.RecoveryQuest{}, fmt.Errorf("%w: intention is for %s, not today", ErrInvalidTransition, intention.Day)
	}

	now := e.clock.Now()
	intention.Status = models.IntentionFailed
	intention.UpdatedAt = now

	quest := models.RecoveryQuest{
		ID:                uuid.NewString(),
		UserID:            userID,
		SourceIntentionID: intention.ID,
		Day:               intention.Day,
		Prompt:            e.advisor.QuestPrompt(intention.Description),
		Status:            models.QuestPending,
		CreatedAt:         now,
	}

	if err := e.store.FailIntention(intention, quest); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return models.RecoveryQuest{}, fmt.Errorf("%w: a recovery quest already exists", ErrInvalidTransition)
		}
		return models.RecoveryQuest{}, err
	}

	return quest, nil
}

// CompleteRecoveryQuest records the user's reflection and resolves the
// quest's day. Same-day completion is Active Recovery; completing
// yesterday's quest is Passive Recovery and resolves yesterday. The quest is
// one-shot: a second submission is rejected.
func (e *Engine) CompleteRecoveryQuest(userID, questID, response string) (models.Resolution, error) {
	quest, err := e.store.GetQuest(questID)
	if err != nil {
		return models.Resolution{}, err
	}
	if quest.UserID != userID {
		return models.Resolution{}, storage.ErrNotFound
	}

	user, err := e.store.GetUser(userID)
	if err != nil {
		return models.Resolution{}, err
	}
	today, err := e.clock.Today(user.Timezone)
	if err != nil {
		return models.Resolution{}, err
	}
	yesterday, err := clock.AddDays(today, -1)
	if err != nil {
		return models.Resolution{}, err
	}

	if quest.Status != models.QuestPending {
		return models.Resolution{}, fmt.Errorf("%w: quest is %s", ErrInvalidTransition, quest.Status)
	}
	if quest.Day != today && quest.Day != yesterday {
		return models.Resolution{}, fmt.Errorf("%w: quest for %s is past its grace window", ErrInvalidTransition, quest.Day)
	}

	now := e.clock.Now()
	quest.Status = models.QuestCompleted
	quest.Response = response
	quest.CompletedAt = &now

	path := models.PathPassiveRecovery
	if quest.Day == today {
		path = models.PathActiveRecovery
	}

	return e.resolve(user, nil, &quest, quest.Day, path)
}

// GetGameState returns a read-only snapshot of streak, stats and today's
// state. It never writes, so housekeeping is left to CheckIn.
func (e *Engine) GetGameState(userID string) (GameState, error) {
	user, err := e.store.GetUser(userID)
	if err != nil {
		return GameState{}, err
	}
	stats, err := e.store.GetStats(userID)
	if err != nil {
		return GameState{}, err
	}
	today, err := e.clock.Today(user.Timezone)
	if err != nil {
		return GameState{}, err
	}
	state, err := e.classify(userID, today)
	if err != nil {
		return GameState{}, err
	}

	return GameState{User: user, Stats: stats, State: state}, nil
}

// StartFocusBlock opens a timeboxed work block against today's pending
// intention. Only one block may be active at a time.
func (e *Engine) StartFocusBlock(userID, description string, durationMin int) (models.FocusBlock, error) {
	user, err := e.store.GetUser(userID)
	if err != nil {
		return models.FocusBlock{}, err
	}
	today, err := e.clock.Today(user.Timezone)
	if err != nil {
		return models.FocusBlock{}, err
	}

	intention, err := e.store.GetIntention(userID, today)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.FocusBlock{}, fmt.Errorf("%w: no intention set for today", ErrInvalidTransition)
		}
		return models.FocusBlock{}, err
	}
	if intention.Status != models.IntentionPending {
		return models.FocusBlock{}, fmt.Errorf("%w: today's intention is %s", ErrInvalidTransition, intention.Status)
	}

	if _, err := e.store.GetPendingFocusBlock(intention.ID); err == nil {
		return models.FocusBlock{}, fmt.Errorf("%w: a focus block is already in progress", ErrInvalidTransition)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.FocusBlock{}, err
	}

	block := models.FocusBlock{
		ID:          uuid.NewString(),
		IntentionID: intention.ID,
		Description: description,
		DurationMin: durationMin,
		Status:      models.FocusBlockPending,
		CreatedAt:   e.clock.Now(),
	}
	if err := e.store.AddFocusBlock(block); err != nil {
		return models.FocusBlock{}, err
	}

	return block, nil
}

// CompleteFocusBlock closes the active focus block on today's intention and
// applies its reward.
func (e *Engine) CompleteFocusBlock(userID string) (models.FocusBlock, error) {
	user, err := e.store.GetUser(userID)
	if err != nil {
		return models.FocusBlock{}, err
	}
	today, err := e.clock.Today(user.Timezone)
	if err != nil {
		return models.FocusBlock{}, err
	}

	intention, err := e.store.GetIntention(userID, today)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.FocusBlock{}, fmt.Errorf("%w: no intention set for today", ErrInvalidTransition)
		}
		return models.FocusBlock{}, err
	}

	block, err := e.store.GetPendingFocusBlock(intention.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.FocusBlock{}, fmt.Errorf("%w: no focus block in progress", ErrInvalidTransition)
		}
		return models.FocusBlock{}, err
	}

	now := e.clock.Now()
	block.Status = models.FocusBlockCompleted
	block.CompletedAt = &now

	stats, err := e.store.GetStats(userID)
	if err != nil {
		return models.FocusBlock{}, err
	}
	stats = e.policy.FocusBlockCompleted().Apply(stats)

	if err := e.store.CompleteFocusBlock(block, stats); err != nil {
		return models.FocusBlock{}, err
	}

	return block, nil
}

func (e *Engine) loadIntention(userID, intentionID string) (models.DailyIntention, models.User, string, error) {
	intention, err := e.store.GetIntentionByID(intentionID)
	if err != nil {
		return models.DailyIntention{}, models.User{}, "", err
	}
	if intention.UserID != userID {
		return models.DailyIntention{}, models.User{}, "", storage.ErrNotFound
	}

	user, err := e.store.GetUser(userID)
	if err != nil {
		return models.DailyIntention{}, models.User{}, "", err
	}
	today, err := e.clock.Today(user.Timezone)
	if err != nil {
		return models.DailyIntention{}, models.User{}, "", err
	}

	return intention, user, today, nil
}

// resolve is the single point where a day becomes resolved: it folds the
// day into the streak, asks the policy for the reward, and commits the
// ledger mutation, resolution record, streak fields and stats atomically.
// The unique (user, day) index on resolutions guarantees at-most-one
// resolution per day even under a lost race.
func (e *Engine) resolve(user models.User, intention *models.DailyIntention, quest *models.RecoveryQuest, day string, path models.ResolutionPath) (models.Resolution, error) {
	if err := advanceStreak(&user, day); err != nil {
		return models.Resolution{}, err
	}

	stats, err := e.store.GetStats(user.ID)
	if err != nil {
		return models.Resolution{}, err
	}
	delta := e.policy.Resolution(path)
	stats = delta.Apply(stats)

	resolution := models.Resolution{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Day:       day,
		Path:      path,
		XPAwarded: delta.XP,
		CreatedAt: e.clock.Now(),
	}

	update := storage.ResolutionUpdate{
		Intention:  intention,
		Quest:      quest,
		Resolution: resolution,
		User:       user,
		Stats:      stats,
	}
	if err := e.store.ApplyResolution(update); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return models.Resolution{}, fmt.Errorf("%w: %s is already resolved", ErrInvalidTransition, day)
		}
		return models.Resolution{}, err
	}

	return resolution, nil
}
