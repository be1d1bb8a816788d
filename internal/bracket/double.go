package bracket

import "math/bits"

// DoubleEliminationBuilder adds a losers bracket to the single elimination tree. A team is out
// after its second loss; the winners champion meets the losers champion in one Grand Final.
// There is no bracket reset match.
type DoubleEliminationBuilder struct{}

func (DoubleEliminationBuilder) Format() Format {
	return DoubleElimination
}

func (b DoubleEliminationBuilder) Build(seeds []Seed) ([]Round, error) {
	if err := validateEliminationSeeds(seeds); err != nil {
		return nil, err
	}

	size := len(seeds)
	if size < 2 {
		return []Round{}, nil
	}
	k := bits.Len(uint(size)) - 1

	winners := layoutTree(size, WinnersSide, 1)
	next := k + 1

	// Losers rounds alternate: odd rounds halve the field, even rounds take in the losers of
	// the next winners round.
	var losers []Round
	n := size / 4
	for i := 1; i <= 2*(k-1); i++ {
		if i > 1 && i%2 == 1 {
			n /= 2
		}
		losers = append(losers, newRound(next, LosersSide, n))
		next++
	}
	final := newRound(next, FinalsSide, 1)
	grandFinal := final.Matches[0].Position()

	winnersFinal := &winners[k-1].Matches[0]
	winnersFinal.setWinnerTarget(Target{Position: grandFinal, Slot: 1})

	if k == 1 {
		winnersFinal.setLoserTarget(Target{Position: grandFinal, Slot: 2})
	} else {
		linkLosers(winners, losers)
		losersFinal := &losers[len(losers)-1].Matches[0]
		losersFinal.setWinnerTarget(Target{Position: grandFinal, Slot: 2})
	}

	rounds := make([]Round, 0, len(winners)+len(losers)+1)
	rounds = append(rounds, winners...)
	rounds = append(rounds, losers...)
	rounds = append(rounds, final)

	seedRound(&rounds[0], seeds)
	if err := settleRounds(rounds); err != nil {
		return nil, err
	}

	LabelRounds(b.Format(), rounds)
	return rounds, nil
}

// linkLosers wires the drop-downs from the winners bracket and the progression inside the
// losers bracket. Winners round 1 losers pair up in losers round 1; the losers of winners
// round i+1 meet the survivors of losers round 2i-1 in losers round 2i, positionally.
func linkLosers(winners, losers []Round) {
	for j := range winners[0].Matches {
		m := &winners[0].Matches[j]
		t := NextTarget(m.Position())
		t.Round = losers[0].Number
		m.setLoserTarget(t)
	}

	for i := 1; i < len(winners); i++ {
		drop := losers[2*i-1]
		for j := range winners[i].Matches {
			winners[i].Matches[j].setLoserTarget(Target{Position: drop.Matches[j].Position(), Slot: 2})
		}
	}

	for i := 0; i+1 < len(losers); i++ {
		for j := range losers[i].Matches {
			m := &losers[i].Matches[j]
			if (i+1)%2 == 1 {
				// odd losers round feeds the drop-in round at the same index
				m.setWinnerTarget(Target{Position: losers[i+1].Matches[j].Position(), Slot: 1})
				continue
			}
			t := NextTarget(m.Position())
			t.Round = losers[i+1].Number
			m.setWinnerTarget(t)
		}
	}
}
