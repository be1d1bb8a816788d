package bracket

import (
	"fmt"
	"math/bits"

	"github.com/google/uuid"
)

// Seed is an entry point into a bracket. Synthetic BYE seeds carry no team.
type Seed struct {
	Position int   `json:"position"`
	Ref      Ref   `json:"ref"`
	Team     *Team `json:"team,omitempty"`
}

// bracketSize gets the nearest power of 2 while rounding up, so with input 5 it returns 8
func bracketSize(count int) int {
	if count <= 1 {
		return count
	}
	return 1 << bits.Len(uint(count-1))
}

// Normalize turns teams into a seed list whose length is the next power of two, appending BYE
// seeds after the real teams. The relative order of the teams is kept.
func Normalize(teams []Team) ([]Seed, error) {
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: cannot seed a bracket without teams", ErrInvalidInput)
	}

	size := bracketSize(len(teams))
	seeds := make([]Seed, 0, size)
	seen := make(map[Ref]bool, len(teams))

	for i := range teams {
		if teams[i].ID == uuid.Nil {
			return nil, fmt.Errorf("%w: team %q has no id", ErrInvalidInput, teams[i].Name)
		}
		ref := teams[i].Ref()
		if seen[ref] {
			return nil, fmt.Errorf("%w: team %q is listed twice", ErrInvalidInput, teams[i].Name)
		}
		seen[ref] = true
		seeds = append(seeds, Seed{Position: i + 1, Ref: ref, Team: &teams[i]})
	}
	for i := len(teams); i < size; i++ {
		seeds = append(seeds, Seed{Position: i + 1, Ref: Bye})
	}

	return seeds, nil
}

// realSeeds drops the synthetic BYE seeds.
func realSeeds(seeds []Seed) []Seed {
	out := make([]Seed, 0, len(seeds))
	for _, s := range seeds {
		if s.Ref.IsTeam() {
			out = append(out, s)
		}
	}
	return out
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
