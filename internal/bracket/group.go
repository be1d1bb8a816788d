package bracket

import "fmt"

const DefaultGroupCount = 4

// GroupStageBuilder splits the teams into groups and plays a round robin inside each group.
// Every group becomes one round; nothing carries over between groups.
type GroupStageBuilder struct {
	Groups int
}

func (GroupStageBuilder) Format() Format {
	return GroupStage
}

func (b GroupStageBuilder) Build(seeds []Seed) ([]Round, error) {
	teams := realSeeds(seeds)
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: no teams to place in groups", ErrInvalidInput)
	}
	groupCount := b.Groups
	if groupCount <= 0 {
		groupCount = DefaultGroupCount
	}

	rounds := make([]Round, 0, groupCount)
	for g, members := range partition(teams, groupCount) {
		r := Round{Number: g + 1, Side: GroupSide, Matches: []Match{}}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				r.Matches = append(r.Matches, Match{
					BracketSide: GroupSide,
					Round:       r.Number,
					MatchNumber: len(r.Matches) + 1,
					Team1:       members[i].Ref,
					Team2:       members[j].Ref,
					Status:      StatusScheduled,
				})
			}
		}
		rounds = append(rounds, r)
	}

	LabelRounds(b.Format(), rounds)
	return rounds, nil
}

// partition cuts seeds into at most groups contiguous chunks whose sizes differ by at most
// one. Earlier groups take the extra teams, and no group is left empty.
func partition(seeds []Seed, groups int) [][]Seed {
	if groups > len(seeds) {
		groups = len(seeds)
	}
	base, extra := len(seeds)/groups, len(seeds)%groups

	out := make([][]Seed, 0, groups)
	start := 0
	for g := 0; g < groups; g++ {
		size := base
		if g < extra {
			size++
		}
		out = append(out, seeds[start:start+size])
		start += size
	}
	return out
}
