package bracket

import (
	"fmt"
	"sort"
	"time"
)

// Arena indexes the slots of one tournament by (round, match number). Progression reads and
// mutates slots only through the arena so that every destination is looked up the same way.
type Arena struct {
	matches map[Position]*Match
	now     time.Time
}

// NewArena builds an arena over the given matches. now stamps the completion date of byes
// that settle while advancing; a zero time leaves it unset.
func NewArena(matches []*Match, now time.Time) *Arena {
	a := &Arena{matches: make(map[Position]*Match, len(matches)), now: now}
	for _, m := range matches {
		a.matches[m.Position()] = m
	}
	return a
}

func (a *Arena) Get(p Position) (*Match, bool) {
	m, ok := a.matches[p]
	return m, ok
}

// Advance pushes the outcome of the finished match at p into the slots it feeds: the winner
// into its winner target and, in double elimination, the loser into its loser target. A
// destination whose other side is a BYE settles at once and advances in turn.
//
// It returns every match it changed, in the order they were changed. Advancing a match a
// second time changes nothing.
func (a *Arena) Advance(p Position) ([]*Match, error) {
	m, ok := a.matches[p]
	if !ok {
		return nil, fmt.Errorf("%w: match %s", ErrNotFound, p)
	}

	var changed changeSet
	if err := a.advance(m, &changed); err != nil {
		return changed.list, err
	}
	return changed.list, nil
}

func (a *Arena) advance(m *Match, changed *changeSet) error {
	var winner, loser Ref

	switch {
	case m.Status == StatusCompleted:
		if m.Winner == nil {
			return fmt.Errorf("%w: completed match %s has no winner", ErrInvalidInput, m.Position())
		}
		winner = *m.Winner
		loser, _ = m.Loser()
	case m.Status == StatusCancelled && m.IsBye:
		winner, loser = Bye, Bye
	case m.Status == StatusCancelled:
		// An administratively cancelled match sends nobody forward.
		return nil
	default:
		return fmt.Errorf("%w: match %s is %s, not finished", ErrInvalidTransition, m.Position(), m.Status)
	}

	if t, ok := m.WinnerTarget(); ok {
		if err := a.place(t, winner, changed); err != nil {
			return err
		}
	}
	if t, ok := m.LoserTarget(); ok {
		if err := a.place(t, loser, changed); err != nil {
			return err
		}
	}
	return nil
}

func (a *Arena) place(t Target, r Ref, changed *changeSet) error {
	dest, ok := a.matches[t.Position]
	if !ok {
		return fmt.Errorf("%w: destination match %s", ErrNotFound, t.Position)
	}

	current := dest.Side(t.Slot)
	if current == r {
		return nil
	}
	switch {
	case dest.Status == StatusCancelled:
		// A cancelled slot takes nobody, like a cancelled match sends nobody.
		return nil
	case dest.Status != StatusScheduled:
		return fmt.Errorf("%w: match %s is already %s", ErrConflict, t.Position, dest.Status)
	case !current.IsPlaceholder():
		return fmt.Errorf("%w: slot %d of match %s already holds %s", ErrConflict, t.Slot, t.Position, current)
	}

	dest.setSide(t.Slot, r)
	changed.add(dest)

	if dest.resolveBye(a.now) {
		return a.advance(dest, changed)
	}
	return nil
}

// settle resolves every bye slot in round order. Builders call it once after seeding.
func (a *Arena) settle() error {
	positions := make([]Position, 0, len(a.matches))
	for p := range a.matches {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Round != positions[j].Round {
			return positions[i].Round < positions[j].Round
		}
		return positions[i].MatchNumber < positions[j].MatchNumber
	})

	var changed changeSet
	for _, p := range positions {
		m := a.matches[p]
		if m.resolveBye(a.now) {
			if err := a.advance(m, &changed); err != nil {
				return err
			}
		}
	}
	return nil
}

type changeSet struct {
	list []*Match
	seen map[*Match]bool
}

func (c *changeSet) add(m *Match) {
	if c.seen == nil {
		c.seen = make(map[*Match]bool)
	}
	if c.seen[m] {
		return
	}
	c.seen[m] = true
	c.list = append(c.list, m)
}
