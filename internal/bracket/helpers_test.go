package bracket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.March, 14, 18, 30, 0, 0, time.UTC)

func testTeams(n int) []Team {
	tournamentID := uuid.New()
	teams := make([]Team, n)
	for i := range teams {
		teams[i] = Team{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Name:         string(rune('A' + i%26)),
			Seed:         i + 1,
		}
	}
	return teams
}

func matchPtrs(rounds []Round) []*Match {
	var out []*Match
	for i := range rounds {
		for j := range rounds[i].Matches {
			out = append(out, &rounds[i].Matches[j])
		}
	}
	return out
}

func countReal(rounds []Round) int {
	n := 0
	for _, r := range rounds {
		for _, m := range r.Matches {
			if !m.IsBye {
				n++
			}
		}
	}
	return n
}

// playOut completes every playable match with slot 1 winning until nothing is left to play.
// It returns the number of matches that were actually played.
func playOut(t *testing.T, rounds []Round) int {
	t.Helper()

	ptrs := matchPtrs(rounds)
	arena := NewArena(ptrs, time.Now())
	played := 0

	for progress := true; progress; {
		progress = false
		for _, m := range ptrs {
			if m.Status != StatusScheduled || !m.Decided() {
				continue
			}
			require.NoError(t, m.Complete(1, 0, time.Now()))
			_, err := arena.Advance(m.Position())
			require.NoError(t, err)
			played++
			progress = true
		}
	}
	return played
}
