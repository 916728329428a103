package clock

import (
	"fmt"
	"os"
	"time"

	"github.com/becoming-cli/becoming/internal/constants"
)

// Clock supplies "today" in a user's reckoning. The engine never calls
// time.Now directly so tests and demos can time travel.
type Clock interface {
	// Today returns the current date string (YYYY-MM-DD) in the given IANA
	// timezone ("" or "Local" means the system timezone).
	Today(timezone string) (string, error)
	Now() time.Time
}

// System is the real clock. The BECOMING_TODAY environment variable, when
// set to a valid date, overrides Today for all timezones.
type System struct{}

func (System) Today(timezone string) (string, error) {
	if override := os.Getenv(constants.EnvToday); override != "" {
		if _, err := time.Parse(constants.DateFormat, override); err != nil {
			return "", fmt.Errorf("invalid %s value %q: %w", constants.EnvToday, override, err)
		}
		return override, nil
	}

	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", err
	}
	return time.Now().In(loc).Format(constants.DateFormat), nil
}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same day. Used in tests.
type Fixed struct {
	Day string
}

func (f Fixed) Today(string) (string, error) {
	return f.Day, nil
}

func (f Fixed) Now() time.Time {
	t, err := time.Parse(constants.DateFormat, f.Day)
	if err != nil {
		return time.Time{}
	}
	return t
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// AddDays returns the date string n days after day (n may be negative).
func AddDays(day string, n int) (string, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", day, err)
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// DaysBetween returns b - a in whole days.
func DaysBetween(a, b string) (int, error) {
	ta, err := time.Parse(constants.DateFormat, a)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", a, err)
	}
	tb, err := time.Parse(constants.DateFormat, b)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", b, err)
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// ValidDay reports whether day matches the standard date format.
func ValidDay(day string) bool {
	_, err := time.Parse(constants.DateFormat, day)
	return err == nil
}
