package bracket

import (
	"fmt"
	"slices"
	"time"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, s)
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// Terminal statuses have no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (m *Match) transitionError(next Status) error {
	return fmt.Errorf("%w: match %s cannot move from %s to %s", ErrInvalidTransition, m.Position(), m.Status, next)
}

// Schedule sets the planned date. Only a match that has not started can be (re)scheduled.
func (m *Match) Schedule(at time.Time) error {
	if m.Status == "" {
		m.Status = StatusScheduled
	}
	if m.Status != StatusScheduled {
		return fmt.Errorf("%w: match %s is %s and can no longer be scheduled", ErrInvalidTransition, m.Position(), m.Status)
	}
	at = at.UTC()
	m.ScheduledAt = &at
	return nil
}

func (m *Match) Start() error {
	if !m.Status.CanTransitionTo(StatusInProgress) {
		return m.transitionError(StatusInProgress)
	}
	if !m.Decided() {
		return fmt.Errorf("%w: match %s does not have both teams yet", ErrInvalidTransition, m.Position())
	}
	m.Status = StatusInProgress
	return nil
}

// Complete records the final score. Ties are rejected, the higher score wins.
func (m *Match) Complete(score1, score2 int, at time.Time) error {
	if !m.Status.CanTransitionTo(StatusCompleted) {
		return m.transitionError(StatusCompleted)
	}
	if !m.Decided() {
		return fmt.Errorf("%w: match %s does not have both teams yet", ErrInvalidTransition, m.Position())
	}
	if score1 < 0 || score2 < 0 {
		return fmt.Errorf("%w: scores must be non-negative, got %d-%d", ErrInvalidInput, score1, score2)
	}
	if score1 == score2 {
		return fmt.Errorf("%w: match %s cannot end in a tie (%d-%d)", ErrInvalidInput, m.Position(), score1, score2)
	}

	winner := m.Team1
	if score2 > score1 {
		winner = m.Team2
	}
	at = at.UTC()

	m.Score1, m.Score2 = &score1, &score2
	m.Winner = &winner
	m.CompletedAt = &at
	m.Status = StatusCompleted
	return nil
}

func (m *Match) Cancel() error {
	if !m.Status.CanTransitionTo(StatusCancelled) {
		return m.transitionError(StatusCancelled)
	}
	m.Status = StatusCancelled
	return nil
}

// resolveBye settles a scheduled slot that has a BYE on one or both sides. A lone team wins
// without scores; two BYEs cancel the slot. It reports whether the slot was settled.
func (m *Match) resolveBye(at time.Time) bool {
	if m.Status != StatusScheduled || m.Team1.IsPlaceholder() || m.Team2.IsPlaceholder() {
		return false
	}

	var winner Ref
	switch {
	case m.Team1.IsBye() && m.Team2.IsBye():
		m.Status = StatusCancelled
		m.IsBye = true
		return true
	case m.Team2.IsBye():
		winner = m.Team1
	case m.Team1.IsBye():
		winner = m.Team2
	default:
		return false
	}

	m.Winner = &winner
	m.Status = StatusCompleted
	m.IsBye = true
	if !at.IsZero() {
		at = at.UTC()
		m.CompletedAt = &at
	}
	return true
}
