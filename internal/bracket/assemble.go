package bracket

import (
	"sort"

	"github.com/google/uuid"
)

// View is the read projection of a tournament's bracket.
type View struct {
	Tournament Tournament         `json:"tournament"`
	Teams      map[uuid.UUID]Team `json:"teams"`
	Rounds     []Round            `json:"rounds"`
	Champion   *Team              `json:"champion,omitempty"`
}

// Assemble groups the persisted matches of a tournament into rounds ordered by round and match
// number. It never mutates its input and accepts brackets at any stage of play.
func Assemble(t Tournament, teams []Team, matches []Match) *View {
	view := &View{
		Tournament: t,
		Teams:      make(map[uuid.UUID]Team, len(teams)),
		Rounds:     []Round{},
	}
	for _, team := range teams {
		view.Teams[team.ID] = team
	}

	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Round != sorted[j].Round {
			return sorted[i].Round < sorted[j].Round
		}
		return sorted[i].MatchNumber < sorted[j].MatchNumber
	})

	for _, m := range sorted {
		n := len(view.Rounds)
		if n == 0 || view.Rounds[n-1].Number != m.Round {
			view.Rounds = append(view.Rounds, Round{Number: m.Round, Side: m.BracketSide})
			n++
		}
		view.Rounds[n-1].Matches = append(view.Rounds[n-1].Matches, m)
	}
	LabelRounds(t.Format, view.Rounds)

	view.Champion = view.champion()
	return view
}

func (v *View) champion() *Team {
	if !v.Tournament.Format.IsElimination() || len(v.Rounds) == 0 {
		return nil
	}
	last := v.Rounds[len(v.Rounds)-1]
	if len(last.Matches) != 1 {
		return nil
	}
	m := last.Matches[0]
	if m.Status != StatusCompleted || m.Winner == nil {
		return nil
	}
	return v.Team(*m.Winner)
}

func (v *View) Team(r Ref) *Team {
	id, ok := r.TeamID()
	if !ok {
		return nil
	}
	team, ok := v.Teams[id]
	if !ok {
		return nil
	}
	return &team
}

// TeamName renders a slot occupant for display.
func (v *View) TeamName(r Ref) string {
	switch {
	case r.IsBye():
		return "BYE"
	case r.IsPlaceholder():
		return "TBD"
	}
	if team := v.Team(r); team != nil {
		return team.Name
	}
	return "Unknown team"
}
