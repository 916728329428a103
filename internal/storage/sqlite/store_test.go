package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "becoming.db")
	s := New(path)
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func addTestUser(t *testing.T, s *Store, name string) models.User {
	t.Helper()

	user := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Timezone:  "UTC",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.AddUser(user); err != nil {
		t.Fatalf("failed to add user %q: %v", name, err)
	}
	return user
}

func TestLoadWithoutInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	s := New(path)
	if err := s.Load(); err == nil {
		t.Fatal("expected error loading a database that was never initialized")
	}
}

func TestInitThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "becoming.db")

	s := New(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.Close()

	s2 := New(path)
	if err := s2.Load(); err != nil {
		t.Fatalf("Load after Init: %v", err)
	}
	s2.Close()
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings on fresh db: %v", err)
	}
	if settings.CurrentUserID != "" {
		t.Errorf("fresh settings CurrentUserID = %q, want empty", settings.CurrentUserID)
	}

	settings.CurrentUserID = "user-1"
	if err := s.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	settings.CurrentUserID = "user-2"
	if err := s.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings upsert: %v", err)
	}

	got, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.CurrentUserID != "user-2" {
		t.Errorf("CurrentUserID = %q, want user-2", got.CurrentUserID)
	}
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)

	user := addTestUser(t, s, "ada")

	got, err := s.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != "ada" || got.CurrentStreak != 0 || got.LastResolvedDay != nil {
		t.Errorf("GetUser = %+v", got)
	}

	byName, err := s.GetUserByName("ada")
	if err != nil {
		t.Fatalf("GetUserByName: %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("GetUserByName ID = %q, want %q", byName.ID, user.ID)
	}

	// Adding a user creates a zeroed stats row.
	stats, err := s.GetStats(user.ID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.XP != 0 || stats.Clarity != 0 {
		t.Errorf("fresh stats = %+v", stats)
	}

	dup := user
	dup.ID = uuid.NewString()
	if err := s.AddUser(dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("duplicate name error = %v, want ErrDuplicate", err)
	}

	day := "2026-08-27"
	user.CurrentStreak = 3
	user.LongestStreak = 7
	user.LastResolvedDay = &day
	if err := s.UpdateUser(user); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, err = s.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser after update: %v", err)
	}
	if got.CurrentStreak != 3 || got.LongestStreak != 7 || got.LastResolvedDay == nil || *got.LastResolvedDay != day {
		t.Errorf("updated user = %+v", got)
	}

	if err := s.UpdateUser(models.User{ID: "nope"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("UpdateUser on missing row = %v, want ErrNotFound", err)
	}

	if _, err := s.GetUser("nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetUser on missing row = %v, want ErrNotFound", err)
	}
}

func TestIntentions(t *testing.T) {
	s := newTestStore(t)
	user := addTestUser(t, s, "ada")

	now := time.Now().UTC()
	intention := models.DailyIntention{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Day:         "2026-08-28",
		Description: "finish the draft",
		Status:      models.IntentionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stats := models.CharacterStats{UserID: user.ID, XP: 20, Clarity: 1}
	if err := s.CreateIntention(intention, stats); err != nil {
		t.Fatalf("CreateIntention: %v", err)
	}

	// The stats write rides in the same transaction.
	gotStats, err := s.GetStats(user.ID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if gotStats.XP != 20 || gotStats.Clarity != 1 {
		t.Errorf("stats after CreateIntention = %+v", gotStats)
	}

	got, err := s.GetIntention(user.ID, "2026-08-28")
	if err != nil {
		t.Fatalf("GetIntention: %v", err)
	}
	if got.Description != "finish the draft" || got.Status != models.IntentionPending {
		t.Errorf("GetIntention = %+v", got)
	}

	byID, err := s.GetIntentionByID(intention.ID)
	if err != nil {
		t.Fatalf("GetIntentionByID: %v", err)
	}
	if byID.Day != "2026-08-28" {
		t.Errorf("GetIntentionByID day = %q", byID.Day)
	}

	dup := intention
	dup.ID = uuid.NewString()
	if err := s.CreateIntention(dup, stats); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("second intention for same day = %v, want ErrDuplicate", err)
	}

	intention.Status = models.IntentionCompleted
	intention.UpdatedAt = now.Add(time.Hour)
	if err := s.UpdateIntention(intention); err != nil {
		t.Fatalf("UpdateIntention: %v", err)
	}
	got, _ = s.GetIntention(user.ID, "2026-08-28")
	if got.Status != models.IntentionCompleted {
		t.Errorf("status after update = %q", got.Status)
	}

	second := models.DailyIntention{
		ID: uuid.NewString(), UserID: user.ID, Day: "2026-08-29",
		Description: "review notes", Status: models.IntentionPending,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.CreateIntention(second, stats); err != nil {
		t.Fatalf("CreateIntention second day: %v", err)
	}

	window, err := s.GetIntentions(user.ID, "2026-08-28", "2026-08-29")
	if err != nil {
		t.Fatalf("GetIntentions: %v", err)
	}
	if len(window) != 2 || window[0].Day != "2026-08-28" || window[1].Day != "2026-08-29" {
		t.Errorf("GetIntentions window = %+v", window)
	}
}

func TestFailIntentionCreatesQuest(t *testing.T) {
	s := newTestStore(t)
	user := addTestUser(t, s, "ada")

	now := time.Now().UTC()
	intention := models.DailyIntention{
		ID: uuid.NewString(), UserID: user.ID, Day: "2026-08-28",
		Description: "finish the draft", Status: models.IntentionPending,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.CreateIntention(intention, models.CharacterStats{UserID: user.ID}); err != nil {
		t.Fatalf("CreateIntention: %v", err)
	}

	intention.Status = models.IntentionFailed
	intention.UpdatedAt = now.Add(time.Hour)
	quest := models.RecoveryQuest{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		SourceIntentionID: intention.ID,
		Day:               "2026-08-28",
		Prompt:            "What was the smallest version you could have shipped?",
		Status:            models.QuestPending,
		CreatedAt:         now.Add(time.Hour),
	}
	if err := s.FailIntention(intention, quest); err != nil {
		t.Fatalf("FailIntention: %v", err)
	}

	got, err := s.GetQuestByIntention(intention.ID)
	if err != nil {
		t.Fatalf("GetQuestByIntention: %v", err)
	}
	if got.Status != models.QuestPending || got.Prompt != quest.Prompt {
		t.Errorf("quest = %+v", got)
	}
	if got.CompletedAt != nil {
		t.Errorf("pending quest has completed_at set")
	}

	pending, err := s.GetPendingQuests(user.ID)
	if err != nil {
		t.Fatalf("GetPendingQuests: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != quest.ID {
		t.Errorf("pending quests = %+v", pending)
	}

	// A second quest for the same intention violates the unique index.
	again := quest
	again.ID = uuid.NewString()
	if err := s.FailIntention(intention, again); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("second quest for same intention = %v, want ErrDuplicate", err)
	}
}

func TestApplyResolution(t *testing.T) {
	s := newTestStore(t)
	user := addTestUser(t, s, "ada")

	now := time.Now().UTC()
	intention := models.DailyIntention{
		ID: uuid.NewString(), UserID: user.ID, Day: "2026-08-28",
		Description: "finish the draft", Status: models.IntentionPending,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.CreateIntention(intention, models.CharacterStats{UserID: user.ID}); err != nil {
		t.Fatalf("CreateIntention: %v", err)
	}

	day := "2026-08-28"
	intention.Status = models.IntentionCompleted
	intention.UpdatedAt = now.Add(time.Hour)
	user.CurrentStreak = 1
	user.LongestStreak = 1
	user.LastResolvedDay = &day

	update := storage.ResolutionUpdate{
		Intention: &intention,
		Resolution: models.Resolution{
			ID: uuid.NewString(), UserID: user.ID, Day: day,
			Path: models.PathPerfect, XPAwarded: 20, CreatedAt: now.Add(time.Hour),
		},
		User:  user,
		Stats: models.CharacterStats{UserID: user.ID, XP: 40, Clarity: 1, Discipline: 1},
	}
	if err := s.ApplyResolution(update); err != nil {
		t.Fatalf("ApplyResolution: %v", err)
	}

	res, err := s.GetResolution(user.ID, day)
	if err != nil {
		t.Fatalf("GetResolution: %v", err)
	}
	if res.Path != models.PathPerfect || res.XPAwarded != 20 {
		t.Errorf("resolution = %+v", res)
	}

	gotUser, _ := s.GetUser(user.ID)
	if gotUser.CurrentStreak != 1 || gotUser.LastResolvedDay == nil || *gotUser.LastResolvedDay != day {
		t.Errorf("user after resolution = %+v", gotUser)
	}

	gotStats, _ := s.GetStats(user.ID)
	if gotStats.XP != 40 || gotStats.Discipline != 1 {
		t.Errorf("stats after resolution = %+v", gotStats)
	}

	// Resolving the same day twice must fail atomically: the duplicate
	// insert rolls back every other write in the transaction.
	update.Resolution.ID = uuid.NewString()
	update.Stats.XP = 999
	if err := s.ApplyResolution(update); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("second resolution for same day = %v, want ErrDuplicate", err)
	}
	gotStats, _ = s.GetStats(user.ID)
	if gotStats.XP != 40 {
		t.Errorf("stats mutated by rolled-back resolution: %+v", gotStats)
	}

	all, err := s.GetResolutions(user.ID)
	if err != nil {
		t.Fatalf("GetResolutions: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("resolution count = %d, want 1", len(all))
	}
}

func TestFocusBlocks(t *testing.T) {
	s := newTestStore(t)
	user := addTestUser(t, s, "ada")

	now := time.Now().UTC()
	intention := models.DailyIntention{
		ID: uuid.NewString(), UserID: user.ID, Day: "2026-08-28",
		Description: "finish the draft", Status: models.IntentionPending,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.CreateIntention(intention, models.CharacterStats{UserID: user.ID}); err != nil {
		t.Fatalf("CreateIntention: %v", err)
	}

	block := models.FocusBlock{
		ID:          uuid.NewString(),
		IntentionID: intention.ID,
		Description: "outline section two",
		DurationMin: 25,
		Status:      models.FocusBlockPending,
		CreatedAt:   now,
	}
	if err := s.AddFocusBlock(block); err != nil {
		t.Fatalf("AddFocusBlock: %v", err)
	}

	pending, err := s.GetPendingFocusBlock(intention.ID)
	if err != nil {
		t.Fatalf("GetPendingFocusBlock: %v", err)
	}
	if pending.ID != block.ID || pending.DurationMin != 25 {
		t.Errorf("pending block = %+v", pending)
	}

	done := now.Add(25 * time.Minute)
	block.Status = models.FocusBlockCompleted
	block.CompletedAt = &done
	if err := s.CompleteFocusBlock(block, models.CharacterStats{UserID: user.ID, XP: 10}); err != nil {
		t.Fatalf("CompleteFocusBlock: %v", err)
	}

	if _, err := s.GetPendingFocusBlock(intention.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("pending block after completion = %v, want ErrNotFound", err)
	}

	blocks, err := s.GetFocusBlocks(intention.ID)
	if err != nil {
		t.Fatalf("GetFocusBlocks: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Status != models.FocusBlockCompleted || blocks[0].CompletedAt == nil {
		t.Errorf("blocks = %+v", blocks)
	}

	gotStats, _ := s.GetStats(user.ID)
	if gotStats.XP != 10 {
		t.Errorf("stats after focus block = %+v", gotStats)
	}
}
