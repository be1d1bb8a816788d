package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// matchBatchSize keeps bulk inserts well under SQLite's bound variable limit.
const matchBatchSize = 200

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// mapError turns driver errors into the bracket sentinels.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", bracket.ErrNotFound, what)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s already exists", bracket.ErrConflict, what)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %s refers to a missing tournament", bracket.ErrNotFound, what)
		}
	}
	return err
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", bracket.ErrNotFound, what)
	}
	return nil
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, slug, format, status, created_at)
        VALUES (:id, :name, :slug, :format, :status, :created_at)`, tournament)
	return mapError(err, "tournament "+tournament.Slug)
}

func (s *TournamentStore) UpdateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	res, err := tx.NamedExecContext(ctx, `UPDATE tournaments SET name = :name, slug = :slug, format = :format
        WHERE id = :id`, tournament)
	if err != nil {
		return mapError(err, "tournament "+tournament.Slug)
	}
	return expectOneRow(res, "tournament "+tournament.ID.String())
}

func (s *TournamentStore) UpdateTournamentStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status bracket.TournamentStatus) error {
	res, err := tx.ExecContext(ctx, "UPDATE tournaments SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, "tournament "+id.String())
}

// DeleteTournament removes the tournament with its teams and matches.
func (s *TournamentStore) DeleteTournament(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM tournaments WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOneRow(res, "tournament "+id.String())
}

func getTournament(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	if err := sqlx.GetContext(ctx, q, &tournament, "SELECT * FROM tournaments WHERE id = ?", id); err != nil {
		return nil, mapError(err, "tournament "+id.String())
	}
	return &tournament, nil
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	return getTournament(ctx, s.db, id)
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Tournament, error) {
	return getTournament(ctx, tx, id)
}

func (s *TournamentStore) GetTournamentBySlug(ctx context.Context, slug string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	if err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE slug = ?", slug); err != nil {
		return nil, mapError(err, "tournament "+slug)
	}
	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	tournaments := []bracket.Tournament{}
	err := s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments ORDER BY created_at DESC, name ASC")
	return tournaments, err
}

func (s *TournamentStore) CreateTeams(ctx context.Context, tx *sqlx.Tx, teams []bracket.Team) error {
	if len(teams) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO teams (id, tournament_id, name, seed, logo_url, created_at)
            VALUES (:id, :tournament_id, :name, :seed, :logo_url, :created_at)`, teams)
	return mapError(err, "team")
}

func (s *TournamentStore) DeleteTeam(ctx context.Context, tx *sqlx.Tx, tournamentID, teamID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM teams WHERE id = ? AND tournament_id = ?", teamID, tournamentID)
	if err != nil {
		return err
	}
	return expectOneRow(res, "team "+teamID.String())
}

func findTeams(ctx context.Context, q sqlx.QueryerContext, tournamentID uuid.UUID) ([]bracket.Team, error) {
	teams := []bracket.Team{}
	err := sqlx.SelectContext(ctx, q, &teams, "SELECT * FROM teams WHERE tournament_id = ? ORDER BY seed ASC", tournamentID)
	return teams, err
}

// FindTeamsByTournament returns the teams in seed order, which is the bracket's input order.
func (s *TournamentStore) FindTeamsByTournament(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Team, error) {
	return findTeams(ctx, s.db, tournamentID)
}

func (s *TournamentStore) FindTeamsByTournamentTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]bracket.Team, error) {
	return findTeams(ctx, tx, tournamentID)
}

func (s *TournamentStore) CountTeams(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM teams WHERE tournament_id = ?", tournamentID)
	return count, err
}

// NextSeedTx is the seed the next added team gets. Seeds keep their gaps after deletions.
func (s *TournamentStore) NextSeedTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int, error) {
	var seed int
	err := tx.GetContext(ctx, &seed, "SELECT COALESCE(MAX(seed), 0) + 1 FROM teams WHERE tournament_id = ?", tournamentID)
	return seed, err
}

const insertMatch = `INSERT INTO matches (id, tournament_id, bracket_side, round_number, match_number,
        team_1_ref, team_2_ref, score_1, score_2, winner_ref, status, is_bye,
        winner_next_round, winner_next_match, winner_next_slot, loser_next_round, loser_next_match, loser_next_slot,
        scheduled_at, completed_at, version, created_at)
    VALUES (:id, :tournament_id, :bracket_side, :round_number, :match_number,
        :team_1_ref, :team_2_ref, :score_1, :score_2, :winner_ref, :status, :is_bye,
        :winner_next_round, :winner_next_match, :winner_next_slot, :loser_next_round, :loser_next_match, :loser_next_slot,
        :scheduled_at, :completed_at, :version, :created_at)`

// CreateMatches inserts a whole bracket. A second bracket for the same tournament collides on
// (tournament_id, round_number, match_number) and returns bracket.ErrConflict.
func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	for start := 0; start < len(matches); start += matchBatchSize {
		end := min(start+matchBatchSize, len(matches))
		if _, err := tx.NamedExecContext(ctx, insertMatch, matches[start:end]); err != nil {
			return mapError(err, "match")
		}
	}
	return nil
}

func (s *TournamentStore) CreateMatch(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	_, err := tx.NamedExecContext(ctx, insertMatch, match)
	return mapError(err, "match "+match.Position().String())
}

func getMatch(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	if err := sqlx.GetContext(ctx, q, &match, "SELECT * FROM matches WHERE id = ?", id); err != nil {
		return nil, mapError(err, "match "+id.String())
	}
	return &match, nil
}

func (s *TournamentStore) GetMatch(ctx context.Context, id uuid.UUID) (*bracket.Match, error) {
	return getMatch(ctx, s.db, id)
}

func (s *TournamentStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Match, error) {
	return getMatch(ctx, tx, id)
}

func findMatches(ctx context.Context, q sqlx.QueryerContext, tournamentID uuid.UUID) ([]bracket.Match, error) {
	matches := []bracket.Match{}
	err := sqlx.SelectContext(ctx, q, &matches,
		"SELECT * FROM matches WHERE tournament_id = ? ORDER BY round_number ASC, match_number ASC", tournamentID)
	return matches, err
}

func (s *TournamentStore) FindMatchesByTournament(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	return findMatches(ctx, s.db, tournamentID)
}

func (s *TournamentStore) FindMatchesByTournamentTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]bracket.Match, error) {
	return findMatches(ctx, tx, tournamentID)
}

func (s *TournamentStore) NextMatchNumberTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, round int) (int, error) {
	var n int
	err := tx.GetContext(ctx, &n,
		"SELECT COALESCE(MAX(match_number), 0) + 1 FROM matches WHERE tournament_id = ? AND round_number = ?", tournamentID, round)
	return n, err
}

// UpdateMatch writes the mutable columns of a match if nobody changed it since it was read.
// On success match.Version is bumped; a stale version returns bracket.ErrConflict.
func (s *TournamentStore) UpdateMatch(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	res, err := tx.NamedExecContext(ctx, `UPDATE matches SET
            team_1_ref = :team_1_ref, team_2_ref = :team_2_ref,
            score_1 = :score_1, score_2 = :score_2, winner_ref = :winner_ref,
            status = :status, is_bye = :is_bye,
            scheduled_at = :scheduled_at, completed_at = :completed_at,
            version = version + 1
        WHERE id = :id AND version = :version`, match)
	if err != nil {
		return mapError(err, "match "+match.ID.String())
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := getMatch(ctx, tx, match.ID); err != nil {
			return err
		}
		return fmt.Errorf("%w: match %s was modified concurrently", bracket.ErrConflict, match.Position())
	}

	match.Version++
	return nil
}

func (s *TournamentStore) DeleteMatch(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOneRow(res, "match "+id.String())
}

func (s *TournamentStore) DeleteMatchesByTournament(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int64, error) {
	res, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE tournament_id = ?", tournamentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
