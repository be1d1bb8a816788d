package views

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
)

func teams(tid uuid.UUID, names ...string) []bracket.Team {
	out := make([]bracket.Team, len(names))
	for i, name := range names {
		out[i] = bracket.Team{ID: uuid.New(), TournamentID: tid, Name: name, Seed: i + 1}
	}
	return out
}

func buildView(t *testing.T, format bracket.Format, names ...string) *bracket.View {
	t.Helper()
	tournament := bracket.Tournament{ID: uuid.New(), Name: "Spring <Cup>", Format: format}
	ts := teams(tournament.ID, names...)
	rounds, err := bracket.Build(format, ts)
	require.NoError(t, err)

	var matches []bracket.Match
	for _, r := range rounds {
		matches = append(matches, r.Matches...)
	}
	return bracket.Assemble(tournament, ts, matches)
}

func TestPrepareSectionsDouble(t *testing.T) {
	view := buildView(t, bracket.DoubleElimination, "A", "B", "C", "D")

	sections := PrepareSections(view)
	require.Len(t, sections, 3)
	assert.Equal(t, "Winners Bracket", sections[0].Title)
	assert.Equal(t, "Losers Bracket", sections[1].Title)
	assert.Equal(t, "Grand Final", sections[2].Title)

	total := 0
	for _, s := range sections {
		for _, r := range s.Rounds {
			assert.Equal(t, s.Side, r.Side)
		}
		total += len(s.Rounds)
	}
	assert.Equal(t, len(view.Rounds), total)
}

func TestPrepareSectionsSingle(t *testing.T) {
	view := buildView(t, bracket.SingleElimination, "A", "B", "C", "D")

	sections := PrepareSections(view)
	require.Len(t, sections, 1)
	assert.Equal(t, "Bracket", sections[0].Title)
	assert.Len(t, sections[0].Rounds, 2)
}

func TestBracketPageEscapesAndMarksWinners(t *testing.T) {
	view := buildView(t, bracket.SingleElimination, "A", "B", "<script>")
	first := &view.Rounds[0].Matches[0]
	if !first.Decided() {
		first = &view.Rounds[0].Matches[1]
	}
	require.True(t, first.Decided())
	require.NoError(t, first.Complete(3, 1, time.Now()))

	var sb strings.Builder
	require.NoError(t, BracketPage(view).Render(context.Background(), &sb))
	html := sb.String()

	assert.Contains(t, html, "<h1>Spring &lt;Cup&gt;</h1>")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "team winner")
	assert.Contains(t, html, "team loser")
	assert.Contains(t, html, "<span class=\"score\">3</span>")
	assert.Contains(t, html, "BYE")
	assert.Contains(t, html, "TBD")
}

func TestRenderSetsContentType(t *testing.T) {
	view := buildView(t, bracket.GroupStage, "A", "B", "C")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	require.NoError(t, Render(rec, req, BracketPage(view)))
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Groups")
	assert.NotContains(t, rec.Body.String(), "champion")
}
