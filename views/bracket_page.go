package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
)

// BracketPage renders a read-only HTML page of the bracket.
func BracketPage(view *bracket.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := templ.EscapeString(view.Tournament.Name)
		if _, err := fmt.Fprintf(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body>", name); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<h1>%s</h1>", name); err != nil {
			return err
		}
		if view.Champion != nil {
			if _, err := fmt.Fprintf(w, "<p class=\"champion\">Champion: %s</p>", templ.EscapeString(view.Champion.Name)); err != nil {
				return err
			}
		}
		for _, section := range PrepareSections(view) {
			if err := writeSection(w, view, section); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func writeSection(w io.Writer, view *bracket.View, section Section) error {
	if _, err := fmt.Fprintf(w, "<section class=\"%s\"><h2>%s</h2>", section.Side, templ.EscapeString(section.Title)); err != nil {
		return err
	}
	for _, round := range section.Rounds {
		if _, err := fmt.Fprintf(w, "<div class=\"round\" data-round=\"%d\"><h3>%s</h3>", round.Number, templ.EscapeString(round.Label)); err != nil {
			return err
		}
		for i := range round.Matches {
			if err := writeMatch(w, view, &round.Matches[i]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</div>"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</section>")
	return err
}

func writeMatch(w io.Writer, view *bracket.View, m *bracket.Match) error {
	if _, err := fmt.Fprintf(w, "<div class=\"match %s\" id=\"%s\">", m.Status, m.ID); err != nil {
		return err
	}
	scores := [2]*int{m.Score1, m.Score2}
	for slot := 1; slot <= 2; slot++ {
		class := "team"
		switch {
		case m.IsWinner(slot):
			class += " winner"
		case m.IsLoser(slot):
			class += " loser"
		}
		_, err := fmt.Fprintf(w, "<div class=\"%s\"><span class=\"name\">%s</span><span class=\"score\">%s</span></div>",
			class, templ.EscapeString(view.TeamName(m.Side(slot))), scoreText(scores[slot-1]))
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</div>")
	return err
}
