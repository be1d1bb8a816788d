package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/db"
	"github.com/AdamBeresnev/bracket-engine/internal/metrics"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a SQLite database in a temp dir and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to open test DB")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")
	return database
}

type fixture struct {
	db          *sqlx.DB
	store       *store.TournamentStore
	metrics     *metrics.Mock
	tournaments *TournamentService
	teams       *TeamService
	matches     *MatchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := setupTestDB(t)
	tournamentStore := store.NewTournamentStore(database)
	m := metrics.NewMock()

	return &fixture{
		db:          database,
		store:       tournamentStore,
		metrics:     m,
		tournaments: NewTournamentService(database, tournamentStore, m),
		teams:       NewTeamService(database, tournamentStore),
		matches:     NewMatchService(database, tournamentStore, m),
	}
}

func teamInputs(n int) []TeamInput {
	inputs := make([]TeamInput, n)
	for i := range inputs {
		inputs[i] = TeamInput{Name: fmt.Sprintf("Team %d", i+1)}
	}
	return inputs
}

// createTournament creates a tournament with n teams named "Team 1".."Team n" and generates
// its bracket.
func (f *fixture) createTournament(t *testing.T, format bracket.Format, n int) (*bracket.Tournament, []bracket.Team) {
	t.Helper()
	ctx := context.Background()

	tournament, err := f.tournaments.CreateTournament(ctx, CreateTournamentInput{
		Name:   fmt.Sprintf("Cup %s", uuid.NewString()[:8]),
		Format: string(format),
		Teams:  teamInputs(n),
	})
	require.NoError(t, err)

	_, err = f.tournaments.GenerateBracket(ctx, tournament.ID, false)
	require.NoError(t, err)

	teams, err := f.store.FindTeamsByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, teams, n)
	return tournament, teams
}

func (f *fixture) findMatch(t *testing.T, tournamentID uuid.UUID, round, number int) *bracket.Match {
	t.Helper()

	matches, err := f.store.FindMatchesByTournament(context.Background(), tournamentID)
	require.NoError(t, err)
	for i := range matches {
		if matches[i].Round == round && matches[i].MatchNumber == number {
			return &matches[i]
		}
	}
	t.Fatalf("match R%dM%d not found", round, number)
	return nil
}
