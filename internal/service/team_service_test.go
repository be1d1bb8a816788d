package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTeamList(t *testing.T) {
	text := "Red Foxes | https://cdn.example.com/foxes.png\n\n  Blue Owls  \r\nGreen Geese|\n"

	inputs, err := ParseTeamList(text)
	require.NoError(t, err)
	assert.Equal(t, []TeamInput{
		{Name: "Red Foxes", LogoURL: "https://cdn.example.com/foxes.png"},
		{Name: "Blue Owls"},
		{Name: "Green Geese"},
	}, inputs)

	_, err = ParseTeamList("Red Foxes\n | https://cdn.example.com/x.png")
	assert.ErrorIs(t, err, bracket.ErrInvalidInput)

	inputs, err = ParseTeamList("\n \n")
	require.NoError(t, err)
	assert.Empty(t, inputs)
}

func TestAddTeams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tournament, err := f.tournaments.CreateTournament(ctx, CreateTournamentInput{Name: "Open Cup", Teams: teamInputs(2)})
	require.NoError(t, err)

	added, err := f.teams.AddTeams(ctx, tournament.ID, []TeamInput{{Name: "Late A"}, {Name: "Late B"}})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, 3, added[0].Seed)
	assert.Equal(t, 4, added[1].Seed)

	teams, err := f.teams.ListTeams(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, teams, 4)

	_, err = f.teams.AddTeams(ctx, tournament.ID, []TeamInput{{Name: "team 1"}})
	assert.ErrorIs(t, err, bracket.ErrConflict)

	_, err = f.teams.AddTeams(ctx, tournament.ID, nil)
	assert.ErrorIs(t, err, bracket.ErrInvalidInput)

	_, err = f.teams.AddTeams(ctx, uuid.New(), []TeamInput{{Name: "Nowhere"}})
	assert.ErrorIs(t, err, bracket.ErrNotFound)

	_, err = f.tournaments.GenerateBracket(ctx, tournament.ID, false)
	require.NoError(t, err)
	_, err = f.teams.AddTeams(ctx, tournament.ID, []TeamInput{{Name: "Too Late"}})
	assert.ErrorIs(t, err, bracket.ErrConflict)

	teams, err = f.teams.ListTeams(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, teams, 4)
}

func TestRemoveTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tournament, err := f.tournaments.CreateTournament(ctx, CreateTournamentInput{Name: "Trim Cup", Teams: teamInputs(3)})
	require.NoError(t, err)
	teams, err := f.teams.ListTeams(ctx, tournament.ID)
	require.NoError(t, err)

	require.NoError(t, f.teams.RemoveTeam(ctx, tournament.ID, teams[1].ID))
	assert.ErrorIs(t, f.teams.RemoveTeam(ctx, tournament.ID, teams[1].ID), bracket.ErrNotFound)

	_, err = f.tournaments.GenerateBracket(ctx, tournament.ID, false)
	require.NoError(t, err)
	assert.ErrorIs(t, f.teams.RemoveTeam(ctx, tournament.ID, teams[0].ID), bracket.ErrConflict)

	view, err := f.tournaments.GetBracket(ctx, tournament.ID.String())
	require.NoError(t, err)
	require.Len(t, view.Rounds, 1)
	assert.Equal(t, "Final", view.Rounds[0].Label)
	assert.Equal(t, teams[0].Ref(), view.Rounds[0].Matches[0].Team1)
	assert.Equal(t, teams[2].Ref(), view.Rounds[0].Matches[0].Team2)
}
