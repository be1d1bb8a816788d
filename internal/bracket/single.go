package bracket

// SingleEliminationBuilder pairs adjacent seeds and sends every winner one round on until one
// team is left.
type SingleEliminationBuilder struct{}

func (SingleEliminationBuilder) Format() Format {
	return SingleElimination
}

func (b SingleEliminationBuilder) Build(seeds []Seed) ([]Round, error) {
	if err := validateEliminationSeeds(seeds); err != nil {
		return nil, err
	}

	rounds := layoutTree(len(seeds), WinnersSide, 1)
	if len(rounds) == 0 {
		// A single team has nobody to play.
		return []Round{}, nil
	}

	seedRound(&rounds[0], seeds)
	if err := settleRounds(rounds); err != nil {
		return nil, err
	}

	LabelRounds(b.Format(), rounds)
	return rounds, nil
}
