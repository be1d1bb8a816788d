package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/metrics"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	metrics metrics.Metrics
	now     func() time.Time
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore, m metrics.Metrics) *MatchService {
	return &MatchService{db: db, store: store, metrics: m, now: time.Now}
}

type MatchData struct {
	Match *bracket.Match `json:"match"`
	Team1 *bracket.Team  `json:"team1,omitempty"`
	Team2 *bracket.Team  `json:"team2,omitempty"`
}

func (s *MatchService) GetMatch(ctx context.Context, id uuid.UUID) (*MatchData, error) {
	match, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	teams, err := s.store.FindTeamsByTournament(ctx, match.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}

	data := &MatchData{Match: match}
	for i := range teams {
		switch teams[i].Ref() {
		case match.Team1:
			data.Team1 = &teams[i]
		case match.Team2:
			data.Team2 = &teams[i]
		}
	}
	return data, nil
}

type CreateMatchInput struct {
	Round       int        `json:"round"`
	Team1ID     uuid.UUID  `json:"team1_id"`
	Team2ID     uuid.UUID  `json:"team2_id"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// CreateMatch schedules a match between two teams of the tournament outside the generated
// bracket. It takes the next free match number in its round and feeds no other match.
func (s *MatchService) CreateMatch(ctx context.Context, tournamentID uuid.UUID, input CreateMatchInput) (*bracket.Match, error) {
	if input.Round < 1 {
		return nil, fmt.Errorf("%w: round must be positive, got %d", bracket.ErrInvalidInput, input.Round)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	teams, err := s.store.FindTeamsByTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	known := make(map[uuid.UUID]bool, len(teams))
	for _, team := range teams {
		known[team.ID] = true
	}
	for _, id := range []uuid.UUID{input.Team1ID, input.Team2ID} {
		if !known[id] {
			return nil, fmt.Errorf("%w: team %s in tournament %s", bracket.ErrNotFound, id, tournament.Slug)
		}
	}

	number, err := s.store.NextMatchNumberTx(ctx, tx, tournamentID, input.Round)
	if err != nil {
		return nil, err
	}

	side := bracket.WinnersSide
	if tournament.Format == bracket.GroupStage {
		side = bracket.GroupSide
	}
	match := &bracket.Match{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		BracketSide:  side,
		Round:        input.Round,
		MatchNumber:  number,
		Team1:        bracket.TeamRef(input.Team1ID),
		Team2:        bracket.TeamRef(input.Team2ID),
		Status:       bracket.StatusScheduled,
		Version:      1,
		CreatedAt:    s.now().UTC(),
	}
	if err := match.Validate(); err != nil {
		return nil, err
	}
	if input.ScheduledAt != nil {
		if err := match.Schedule(*input.ScheduledAt); err != nil {
			return nil, err
		}
	}

	if err := s.store.CreateMatch(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, tx.Commit()
}

// loadForUpdate reads a match inside tx and checks the version the caller last saw, if any.
func (s *MatchService) loadForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, expectedVersion *int) (*bracket.Match, error) {
	match, err := s.store.GetMatchTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion != nil && *expectedVersion != match.Version {
		return nil, fmt.Errorf("%w: match %s is at version %d, not %d", bracket.ErrConflict, match.Position(), match.Version, *expectedVersion)
	}
	return match, nil
}

// transition applies change to one match and stores it without touching any other match.
func (s *MatchService) transition(ctx context.Context, id uuid.UUID, expectedVersion *int, change func(m *bracket.Match) error) (*bracket.Match, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.loadForUpdate(ctx, tx, id, expectedVersion)
	if err != nil {
		return nil, err
	}
	before := match.Status
	if err := change(match); err != nil {
		return nil, err
	}

	if err := s.store.UpdateMatch(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}
	if match.Status.Terminal() {
		if err := s.completeTournamentIfDone(ctx, tx, match.TournamentID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if match.Status != before {
		s.metrics.IncMatchTransitions(string(match.Status))
	}
	return match, nil
}

func (s *MatchService) Schedule(ctx context.Context, id uuid.UUID, at time.Time, expectedVersion *int) (*bracket.Match, error) {
	return s.transition(ctx, id, expectedVersion, func(m *bracket.Match) error {
		return m.Schedule(at)
	})
}

func (s *MatchService) Start(ctx context.Context, id uuid.UUID, expectedVersion *int) (*bracket.Match, error) {
	return s.transition(ctx, id, expectedVersion, func(m *bracket.Match) error {
		return m.Start()
	})
}

// Cancel stops a match for good. Nobody advances out of a cancelled match, so the slots it
// feeds wait until an admin fills them.
func (s *MatchService) Cancel(ctx context.Context, id uuid.UUID, expectedVersion *int) (*bracket.Match, error) {
	return s.transition(ctx, id, expectedVersion, func(m *bracket.Match) error {
		return m.Cancel()
	})
}

type CompleteResult struct {
	Match    *bracket.Match  `json:"match"`
	Advanced []bracket.Match `json:"advanced"`
}

// Complete records the score of a match and advances the winner (and in double elimination
// the loser) in the same transaction. Byes met along the way settle and advance too.
func (s *MatchService) Complete(ctx context.Context, id uuid.UUID, score1, score2 int, expectedVersion *int) (*CompleteResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.loadForUpdate(ctx, tx, id, expectedVersion)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := match.Complete(score1, score2, now); err != nil {
		return nil, err
	}

	all, err := s.store.FindMatchesByTournamentTx(ctx, tx, match.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	ptrs := make([]*bracket.Match, 0, len(all))
	for i := range all {
		if all[i].ID == match.ID {
			ptrs = append(ptrs, match)
			continue
		}
		ptrs = append(ptrs, &all[i])
	}

	changed, err := bracket.NewArena(ptrs, now).Advance(match.Position())
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateMatch(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}
	advanced := make([]bracket.Match, 0, len(changed))
	for _, m := range changed {
		if err := s.store.UpdateMatch(ctx, tx, m); err != nil {
			return nil, fmt.Errorf("failed to update match %s: %w", m.Position(), err)
		}
		advanced = append(advanced, *m)
	}

	if err := s.completeTournamentIfDone(ctx, tx, match.TournamentID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.metrics.IncMatchTransitions(string(bracket.StatusCompleted))
	s.metrics.AddSlotsAdvanced(len(changed))
	slog.Info("match completed", "match", match.Position().String(), "score", fmt.Sprintf("%d-%d", score1, score2),
		"winner", *match.Winner, "advanced", len(changed))

	return &CompleteResult{Match: match, Advanced: advanced}, nil
}

// DeleteMatch removes a match that is not linked into a bracket and has not been played.
func (s *MatchService) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if match.Status == bracket.StatusInProgress || match.Status == bracket.StatusCompleted {
		return fmt.Errorf("%w: match %s is %s and cannot be deleted", bracket.ErrInvalidTransition, match.Position(), match.Status)
	}

	all, err := s.store.FindMatchesByTournamentTx(ctx, tx, match.TournamentID)
	if err != nil {
		return err
	}
	if linked(match, all) {
		return fmt.Errorf("%w: match %s is part of the bracket; regenerate it instead", bracket.ErrConflict, match.Position())
	}

	if err := s.store.DeleteMatch(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// linked reports whether m feeds another match or is fed by one.
func linked(m *bracket.Match, all []bracket.Match) bool {
	if _, ok := m.WinnerTarget(); ok {
		return true
	}
	if _, ok := m.LoserTarget(); ok {
		return true
	}
	p := m.Position()
	for i := range all {
		if w, ok := all[i].WinnerTarget(); ok && w.Position == p {
			return true
		}
		if l, ok := all[i].LoserTarget(); ok && l.Position == p {
			return true
		}
	}
	return false
}

// completeTournamentIfDone marks the tournament completed once every match is over.
func (s *MatchService) completeTournamentIfDone(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) error {
	matches, err := s.store.FindMatchesByTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if !m.Status.Terminal() {
			return nil
		}
	}
	if err := s.store.UpdateTournamentStatus(ctx, tx, tournamentID, bracket.TournamentCompleted); err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}
	return nil
}
