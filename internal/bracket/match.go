package bracket

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ref is what occupies one side of a slot: a team ID, a TBD placeholder or a synthetic BYE.
type Ref string

const (
	TBD Ref = "TBD"
	Bye Ref = "BYE"
)

func TeamRef(id uuid.UUID) Ref {
	return Ref(id.String())
}

func (r Ref) IsBye() bool {
	return r == Bye
}

// IsPlaceholder reports whether the side still waits for an earlier result.
func (r Ref) IsPlaceholder() bool {
	return r == TBD || r == ""
}

func (r Ref) IsTeam() bool {
	return !r.IsBye() && !r.IsPlaceholder()
}

func (r Ref) TeamID() (uuid.UUID, bool) {
	if !r.IsTeam() {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(string(r))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

type BracketSide string

const (
	WinnersSide BracketSide = "winners"
	LosersSide  BracketSide = "losers"
	FinalsSide  BracketSide = "finals"
	GroupSide   BracketSide = "group"
)

func ParseSide(s string) (BracketSide, error) {
	switch side := BracketSide(s); side {
	case WinnersSide, LosersSide, FinalsSide, GroupSide:
		return side, nil
	}
	return "", fmt.Errorf("%w: unknown bracket side %q", ErrInvalidInput, s)
}

// Position is the logical key of a match inside one tournament.
type Position struct {
	Round       int
	MatchNumber int
}

func (p Position) String() string {
	return fmt.Sprintf("R%dM%d", p.Round, p.MatchNumber)
}

// Target is one side (slot 1 or 2) of a match that receives a result.
type Target struct {
	Position
	Slot int
}

// NextTarget is where the winner of an elimination match at p goes: the next round, match
// ceil(m/2), slot 1 for odd match numbers and slot 2 for even ones.
func NextTarget(p Position) Target {
	slot := 1
	if p.MatchNumber%2 == 0 {
		slot = 2
	}
	return Target{Position: Position{Round: p.Round + 1, MatchNumber: (p.MatchNumber + 1) / 2}, Slot: slot}
}

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`

	// Position in the tournament for reconstructing the view
	BracketSide BracketSide `db:"bracket_side" json:"bracket_side"`
	Round       int         `db:"round_number" json:"round"`
	MatchNumber int         `db:"match_number" json:"match_number"`

	Team1 Ref `db:"team_1_ref" json:"team1"`
	Team2 Ref `db:"team_2_ref" json:"team2"`

	Score1 *int   `db:"score_1" json:"score1,omitempty"`
	Score2 *int   `db:"score_2" json:"score2,omitempty"`
	Winner *Ref   `db:"winner_ref" json:"winner,omitempty"`
	Status Status `db:"status" json:"status"`
	IsBye  bool   `db:"is_bye" json:"is_bye"`

	WinnerNextRound *int `db:"winner_next_round" json:"-"`
	WinnerNextMatch *int `db:"winner_next_match" json:"-"`
	WinnerNextSlot  *int `db:"winner_next_slot" json:"-"`

	LoserNextRound *int `db:"loser_next_round" json:"-"`
	LoserNextMatch *int `db:"loser_next_match" json:"-"`
	LoserNextSlot  *int `db:"loser_next_slot" json:"-"`

	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (m *Match) Position() Position {
	return Position{Round: m.Round, MatchNumber: m.MatchNumber}
}

func (m *Match) WinnerTarget() (Target, bool) {
	return target(m.WinnerNextRound, m.WinnerNextMatch, m.WinnerNextSlot)
}

func (m *Match) LoserTarget() (Target, bool) {
	return target(m.LoserNextRound, m.LoserNextMatch, m.LoserNextSlot)
}

func (m *Match) setWinnerTarget(t Target) {
	m.WinnerNextRound, m.WinnerNextMatch, m.WinnerNextSlot = &t.Round, &t.MatchNumber, &t.Slot
}

func (m *Match) setLoserTarget(t Target) {
	m.LoserNextRound, m.LoserNextMatch, m.LoserNextSlot = &t.Round, &t.MatchNumber, &t.Slot
}

func target(round, match, slot *int) (Target, bool) {
	if round == nil || match == nil || slot == nil {
		return Target{}, false
	}
	return Target{Position: Position{Round: *round, MatchNumber: *match}, Slot: *slot}, true
}

// Side returns the occupant of slot 1 or 2.
func (m *Match) Side(slot int) Ref {
	if slot == 2 {
		return m.Team2
	}
	return m.Team1
}

func (m *Match) setSide(slot int, r Ref) {
	if slot == 2 {
		m.Team2 = r
	} else {
		m.Team1 = r
	}
	if r.IsBye() {
		m.IsBye = true
	}
}

// Decided reports whether both sides are concrete teams.
func (m *Match) Decided() bool {
	return m.Team1.IsTeam() && m.Team2.IsTeam()
}

// Loser is the side that did not win a completed match. For byes that is the BYE itself.
func (m *Match) Loser() (Ref, bool) {
	if m.Status != StatusCompleted || m.Winner == nil {
		return "", false
	}
	if *m.Winner == m.Team1 {
		return m.Team2, true
	}
	return m.Team1, true
}

func (m *Match) IsWinner(slot int) bool {
	return m.Status == StatusCompleted && m.Winner != nil && *m.Winner == m.Side(slot)
}

func (m *Match) IsLoser(slot int) bool {
	return m.Status == StatusCompleted && m.Winner != nil && *m.Winner != m.Side(slot)
}

// Validate checks the structural invariants of a slot that do not depend on its status.
func (m *Match) Validate() error {
	if m.Round < 1 || m.MatchNumber < 1 {
		return fmt.Errorf("%w: round and match number must be positive, got %s", ErrInvalidInput, m.Position())
	}
	if m.Team1.IsTeam() && m.Team1 == m.Team2 {
		return fmt.Errorf("%w: team %s cannot play itself", ErrInvalidInput, m.Team1)
	}
	for _, r := range []Ref{m.Team1, m.Team2} {
		if r.IsTeam() {
			if _, ok := r.TeamID(); !ok {
				return fmt.Errorf("%w: malformed team reference %q", ErrInvalidInput, r)
			}
		}
	}
	return nil
}
