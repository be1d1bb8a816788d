package bracket

import "errors"

var (
	// ErrInvalidInput covers empty team lists, self pairings and bad scores.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned for unknown tournaments, teams or matches.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a duplicate (tournament, round, match number) or a stale match version.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition is returned when a status change is not allowed from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)
