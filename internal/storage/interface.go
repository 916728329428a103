package storage

import (
	"errors"

	"github.com/becoming-cli/becoming/internal/models"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a uniqueness constraint would be violated.
	ErrDuplicate = errors.New("already exists")
)

// ResolutionUpdate is the atomic unit for resolving one day: the ledger
// mutation, the resolution record, the streak fields and the progression
// deltas commit together or not at all.
type ResolutionUpdate struct {
	// Intention, if set, is written with its new status.
	Intention *models.DailyIntention
	// Quest, if set, is written with its new status and response.
	Quest *models.RecoveryQuest
	// Resolution is the append-only record of the resolved day.
	Resolution models.Resolution
	// User carries the updated streak fields.
	User models.User
	// Stats carries the updated character stats.
	Stats models.CharacterStats
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Users
	AddUser(models.User) error // also creates the user's stats row
	GetUser(id string) (models.User, error)
	GetUserByName(name string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	UpdateUser(models.User) error

	// Character stats
	GetStats(userID string) (models.CharacterStats, error)
	SaveStats(models.CharacterStats) error

	// Daily intentions
	GetIntention(userID, day string) (models.DailyIntention, error)
	GetIntentionByID(id string) (models.DailyIntention, error)
	GetIntentions(userID, startDay, endDay string) ([]models.DailyIntention, error)
	// CreateIntention inserts the intention and saves the stats row in one
	// transaction.
	CreateIntention(models.DailyIntention, models.CharacterStats) error
	UpdateIntention(models.DailyIntention) error

	// Recovery quests
	GetQuest(id string) (models.RecoveryQuest, error)
	GetQuestByIntention(intentionID string) (models.RecoveryQuest, error)
	GetPendingQuests(userID string) ([]models.RecoveryQuest, error)
	// FailIntention flips the intention to failed and inserts its recovery
	// quest in one transaction.
	FailIntention(models.DailyIntention, models.RecoveryQuest) error
	UpdateQuest(models.RecoveryQuest) error

	// Resolutions
	GetResolution(userID, day string) (models.Resolution, error)
	GetResolutions(userID string) ([]models.Resolution, error) // ascending by day
	// ApplyResolution commits a ResolutionUpdate atomically.
	ApplyResolution(ResolutionUpdate) error

	// Focus blocks
	AddFocusBlock(models.FocusBlock) error
	GetFocusBlock(id string) (models.FocusBlock, error)
	GetFocusBlocks(intentionID string) ([]models.FocusBlock, error)
	GetPendingFocusBlock(intentionID string) (models.FocusBlock, error)
	// CompleteFocusBlock writes the block and saves the stats row in one
	// transaction.
	CompleteFocusBlock(models.FocusBlock, models.CharacterStats) error
}
