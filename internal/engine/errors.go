package engine

import "errors"

var (
	// ErrDuplicateIntention is returned when an intention already exists for
	// the requested day.
	ErrDuplicateIntention = errors.New("an intention already exists for this day")
	// ErrInvalidTransition is returned when a status or date precondition is
	// violated. It is never retried internally.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrBlockedByRecovery is returned when a new intention is requested
	// while a prior-day recovery quest is outstanding.
	ErrBlockedByRecovery = errors.New("a recovery quest from yesterday is outstanding")
)
