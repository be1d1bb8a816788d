package views

import (
	"strconv"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
)

// Section is one visual block of the bracket page: the winners bracket, the losers bracket,
// the Grand Final or the groups.
type Section struct {
	Title  string
	Side   bracket.BracketSide
	Rounds []bracket.Round
}

var sectionTitles = map[bracket.BracketSide]string{
	bracket.WinnersSide: "Winners Bracket",
	bracket.LosersSide:  "Losers Bracket",
	bracket.FinalsSide:  "Grand Final",
	bracket.GroupSide:   "Groups",
}

// PrepareSections splits the assembled rounds into sections, keeping round order.
func PrepareSections(view *bracket.View) []Section {
	var sections []Section
	index := make(map[bracket.BracketSide]int)

	for _, r := range view.Rounds {
		i, ok := index[r.Side]
		if !ok {
			title := sectionTitles[r.Side]
			if r.Side == bracket.WinnersSide && view.Tournament.Format == bracket.SingleElimination {
				title = "Bracket"
			}
			sections = append(sections, Section{Title: title, Side: r.Side})
			i = len(sections) - 1
			index[r.Side] = i
		}
		sections[i].Rounds = append(sections[i].Rounds, r)
	}
	return sections
}

// scoreText renders a side's score, or nothing before the match is completed.
func scoreText(score *int) string {
	if score == nil {
		return ""
	}
	return strconv.Itoa(*score)
}
