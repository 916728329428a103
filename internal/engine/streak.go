package engine

import (
	"fmt"

	"github.com/becoming-cli/becoming/internal/clock"
	"github.com/becoming-cli/becoming/internal/models"
)

// advanceStreak folds one newly-resolved day into the user's streak fields.
// Resolution proceeds day by day, so in the unbroken case the gap from the
// last resolved day is 1 (same-day resolution) or 2 (the grace day itself is
// being resolved); anything larger means the chain broke and the streak
// restarts at 1.
func advanceStreak(u *models.User, day string) error {
	if u.LastResolvedDay == nil {
		u.CurrentStreak = 1
	} else {
		gap, err := clock.DaysBetween(*u.LastResolvedDay, day)
		if err != nil {
			return fmt.Errorf("streak advance: %w", err)
		}
		if gap >= 1 && gap <= 2 {
			u.CurrentStreak++
		} else {
			u.CurrentStreak = 1
		}
	}

	if u.CurrentStreak > u.LongestStreak {
		u.LongestStreak = u.CurrentStreak
	}
	resolved := day
	u.LastResolvedDay = &resolved
	return nil
}

// RecomputeStreak replays the resolution journal (ascending by day) and
// returns the streak state it implies. The cached fields on the user row must
// always agree with this; doctor and the engine tests use it as the oracle.
func RecomputeStreak(resolutions []models.Resolution) (current, longest int, last *string, err error) {
	var u models.User
	for _, r := range resolutions {
		if err := advanceStreak(&u, r.Day); err != nil {
			return 0, 0, nil, err
		}
	}
	return u.CurrentStreak, u.LongestStreak, u.LastResolvedDay, nil
}
