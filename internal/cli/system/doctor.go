package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/becoming-cli/becoming/internal/backup"
	"github.com/becoming-cli/becoming/internal/cli"
	"github.com/becoming-cli/becoming/internal/clock"
	"github.com/becoming-cli/becoming/internal/constants"
	"github.com/becoming-cli/becoming/internal/engine"
	"github.com/becoming-cli/becoming/internal/models"
	"github.com/becoming-cli/becoming/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	if dbReachable {
		if err := checkStreakIntegrity(ctx); err != nil {
			fmt.Printf("❌ Streak integrity: FAIL\n   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Streak integrity: OK\n")
		}

		if err := checkLedgerIntegrity(ctx); err != nil {
			fmt.Printf("❌ Ledger integrity: FAIL\n   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Ledger integrity: OK\n")
		}

		if err := checkStaleQuests(ctx); err != nil {
			fmt.Printf("⚠ Quest housekeeping: WARNING\n   %v\n", err)
		} else {
			fmt.Printf("✓ Quest housekeeping: OK\n")
		}

		if err := checkTimezones(ctx); err != nil {
			fmt.Printf("❌ User timezones: FAIL\n   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ User timezones: OK\n")
		}
	} else {
		fmt.Printf("⊘ Streak integrity: SKIPPED (database not reachable)\n")
		fmt.Printf("⊘ Ledger integrity: SKIPPED (database not reachable)\n")
		fmt.Printf("⊘ Quest housekeeping: SKIPPED (database not reachable)\n")
		fmt.Printf("⊘ User timezones: SKIPPED (database not reachable)\n")
	}

	if !ctx.IsPostgres() {
		if err := checkBackupsPresent(ctx); err != nil {
			fmt.Printf("⚠ Backups present: WARNING\n   %v\n", err)
		} else {
			fmt.Printf("✓ Backups present: OK\n")
		}
	}

	if err := checkConcurrentProcesses(); err != nil {
		fmt.Printf("⚠ Concurrent processes: WARNING\n   %v\n", err)
	} else {
		fmt.Printf("✓ Concurrent processes: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

// checkStreakIntegrity replays every user's resolution journal and compares
// it against the cached streak fields.
func checkStreakIntegrity(ctx *cli.Context) error {
	users, err := ctx.Store.GetAllUsers()
	if err != nil {
		return err
	}

	for _, u := range users {
		resolutions, err := ctx.Store.GetResolutions(u.ID)
		if err != nil {
			return err
		}
		current, longest, last, err := engine.RecomputeStreak(resolutions)
		if err != nil {
			return err
		}

		if current != u.CurrentStreak || longest != u.LongestStreak {
			return fmt.Errorf("user %q: cached streak (%d, %d) disagrees with journal replay (%d, %d)",
				u.Name, u.CurrentStreak, u.LongestStreak, current, longest)
		}
		cachedLast := ""
		if u.LastResolvedDay != nil {
			cachedLast = *u.LastResolvedDay
		}
		replayLast := ""
		if last != nil {
			replayLast = *last
		}
		if cachedLast != replayLast {
			return fmt.Errorf("user %q: cached last resolved day %q disagrees with journal replay %q",
				u.Name, cachedLast, replayLast)
		}
	}
	return nil
}

// checkLedgerIntegrity verifies that every failed intention has its recovery
// quest and that no concluded intention carries a pending one.
func checkLedgerIntegrity(ctx *cli.Context) error {
	users, err := ctx.Store.GetAllUsers()
	if err != nil {
		return err
	}

	for _, u := range users {
		intentions, err := ctx.Store.GetIntentions(u.ID, "0001-01-01", "9999-12-31")
		if err != nil {
			return err
		}
		for _, in := range intentions {
			quest, err := ctx.Store.GetQuestByIntention(in.ID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			hasQuest := err == nil

			if in.Status == models.IntentionFailed && !hasQuest {
				return fmt.Errorf("user %q: failed intention %s (%s) has no recovery quest", u.Name, in.ID, in.Day)
			}
			if in.Status != models.IntentionFailed && hasQuest && quest.Status == models.QuestPending {
				return fmt.Errorf("user %q: %s intention %s (%s) has a pending quest", u.Name, in.Status, in.ID, in.Day)
			}
		}
	}
	return nil
}

// checkStaleQuests warns about pending quests past their grace window;
// check-in housekeeping will expire them.
func checkStaleQuests(ctx *cli.Context) error {
	users, err := ctx.Store.GetAllUsers()
	if err != nil {
		return err
	}

	clk := ctx.Clock
	var stale int
	for _, u := range users {
		today, err := clk.Today(u.Timezone)
		if err != nil {
			continue
		}
		pending, err := ctx.Store.GetPendingQuests(u.ID)
		if err != nil {
			return err
		}
		for _, q := range pending {
			gap, err := clock.DaysBetween(q.Day, today)
			if err != nil {
				return err
			}
			if gap >= 2 {
				stale++
			}
		}
	}
	if stale > 0 {
		return fmt.Errorf("%d quest(s) past the grace window; 'becoming checkin' will mark them expired", stale)
	}
	return nil
}

func checkTimezones(ctx *cli.Context) error {
	users, err := ctx.Store.GetAllUsers()
	if err != nil {
		return err
	}
	for _, u := range users {
		if _, err := clock.LoadLocation(u.Timezone); err != nil {
			return fmt.Errorf("user %q: %w", u.Name, err)
		}
		if _, err := ctx.Clock.Today(u.Timezone); err != nil {
			return fmt.Errorf("user %q: %w", u.Name, err)
		}
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found; run 'becoming backup create'")
	}
	return nil
}

// checkConcurrentProcesses warns when another becoming process is running.
// Resolution mutations assume a single writer per database file.
func checkConcurrentProcesses() error {
	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("could not enumerate processes: %w", err)
	}

	self := os.Getpid()
	var others int
	for _, p := range processes {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(p.Executable()), ".exe")
		if name == constants.AppName {
			others++
		}
	}
	if others > 0 {
		return fmt.Errorf("%d other %s process(es) running; concurrent writes can corrupt the day ledger", others, constants.AppName)
	}
	return nil
}
