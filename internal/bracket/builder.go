package bracket

import (
	"fmt"
	"strconv"
	"time"
)

// Round is one column of a bracket. Number is unique across the whole tournament, so the
// rounds of a double elimination bracket are numbered winners first, then losers, then the
// Grand Final.
type Round struct {
	Number  int         `json:"number"`
	Side    BracketSide `json:"side"`
	Label   string      `json:"label"`
	Matches []Match     `json:"matches"`
}

// Builder lays out the rounds of one bracket format. Builders are pure: the same seeds always
// give the same rounds, and an error means no rounds at all.
type Builder interface {
	Format() Format
	Build(seeds []Seed) ([]Round, error)
}

func NewBuilder(f Format) (Builder, error) {
	switch f {
	case SingleElimination:
		return SingleEliminationBuilder{}, nil
	case DoubleElimination:
		return DoubleEliminationBuilder{}, nil
	case GroupStage:
		return GroupStageBuilder{Groups: DefaultGroupCount}, nil
	}
	return nil, fmt.Errorf("%w: unsupported bracket format %q", ErrInvalidInput, f)
}

// Build normalizes the teams into seeds and runs the builder for the format.
func Build(f Format, teams []Team) ([]Round, error) {
	b, err := NewBuilder(f)
	if err != nil {
		return nil, err
	}
	seeds, err := Normalize(teams)
	if err != nil {
		return nil, err
	}
	return b.Build(seeds)
}

func newRound(number int, side BracketSide, size int) Round {
	matches := make([]Match, size)
	for i := range matches {
		matches[i] = Match{
			BracketSide: side,
			Round:       number,
			MatchNumber: i + 1,
			Team1:       TBD,
			Team2:       TBD,
			Status:      StatusScheduled,
		}
	}
	return Round{Number: number, Side: side, Matches: matches}
}

// layoutTree creates the rounds of a knockout tree for size seeds, numbered from first, with
// every match linked to its slot in the following round.
func layoutTree(size int, side BracketSide, first int) []Round {
	var rounds []Round
	for n, r := size/2, first; n >= 1; n, r = n/2, r+1 {
		rounds = append(rounds, newRound(r, side, n))
	}

	for i := 0; i+1 < len(rounds); i++ {
		for j := range rounds[i].Matches {
			m := &rounds[i].Matches[j]
			m.setWinnerTarget(NextTarget(m.Position()))
		}
	}
	return rounds
}

// seedRound pairs adjacent seeds (2i, 2i+1) into the matches of r.
func seedRound(r *Round, seeds []Seed) {
	for i := range r.Matches {
		r.Matches[i].setSide(1, seeds[2*i].Ref)
		r.Matches[i].setSide(2, seeds[2*i+1].Ref)
	}
}

// settleRounds resolves byes across all rounds. The matches are addressed in place.
func settleRounds(rounds []Round) error {
	var ptrs []*Match
	for i := range rounds {
		for j := range rounds[i].Matches {
			ptrs = append(ptrs, &rounds[i].Matches[j])
		}
	}
	return NewArena(ptrs, time.Time{}).settle()
}

func validateEliminationSeeds(seeds []Seed) error {
	if len(seeds) == 0 {
		return fmt.Errorf("%w: no seeds", ErrInvalidInput)
	}
	if !isPowerOfTwo(len(seeds)) {
		return fmt.Errorf("%w: elimination brackets need a power of two seeds, got %d", ErrInvalidInput, len(seeds))
	}
	if len(realSeeds(seeds)) == 0 {
		return fmt.Errorf("%w: every seed is a bye", ErrInvalidInput)
	}
	return nil
}

// LabelRounds names rounds by side and position the same way for freshly built and for
// reassembled brackets.
func LabelRounds(f Format, rounds []Round) {
	totals := make(map[BracketSide]int)
	for _, r := range rounds {
		totals[r.Side]++
	}

	seen := make(map[BracketSide]int)
	for i := range rounds {
		side := rounds[i].Side
		seen[side]++
		rounds[i].Label = roundLabel(f, side, seen[side], totals[side])
	}
}

func roundLabel(f Format, side BracketSide, n, total int) string {
	switch side {
	case GroupSide:
		if n <= 26 {
			return "Group " + string(rune('A'+n-1))
		}
		return "Group " + strconv.Itoa(n)
	case FinalsSide:
		return "Grand Final"
	case LosersSide:
		if n == total {
			return "Losers Final"
		}
		return "Losers Round " + strconv.Itoa(n)
	}

	if f == DoubleElimination {
		if n == total {
			return "Winners Final"
		}
		return "Winners Round " + strconv.Itoa(n)
	}
	switch {
	case n == total:
		return "Final"
	case n == total-1 && total >= 3:
		return "Semifinal"
	}
	return "Round " + strconv.Itoa(n)
}
