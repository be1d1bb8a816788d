package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/google/uuid"
)

// GenerateBracket builds the tournament's bracket from its teams in seed order and persists
// every match in one transaction. An existing bracket is only replaced when replace is set
// and none of its real matches has started.
func (s *TournamentService) GenerateBracket(ctx context.Context, id uuid.UUID, replace bool) (*bracket.View, error) {
	started := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	teams, err := s.store.FindTeamsByTournamentTx(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}

	existing, err := s.store.FindMatchesByTournamentTx(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	if len(existing) > 0 {
		if !replace {
			return nil, fmt.Errorf("%w: tournament %s already has a bracket", bracket.ErrConflict, tournament.Slug)
		}
		if played := firstPlayedMatch(existing); played != nil {
			return nil, fmt.Errorf("%w: match %s is already %s", bracket.ErrConflict, played.Position(), played.Status)
		}
		if _, err := s.store.DeleteMatchesByTournament(ctx, tx, id); err != nil {
			return nil, fmt.Errorf("failed to delete old bracket: %w", err)
		}
	}

	rounds, err := bracket.Build(tournament.Format, teams)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var matches []bracket.Match
	for i := range rounds {
		for j := range rounds[i].Matches {
			m := &rounds[i].Matches[j]
			m.ID = uuid.New()
			m.TournamentID = id
			m.Version = 1
			m.CreatedAt = now
			if m.Status == bracket.StatusCompleted {
				m.CompletedAt = &now
			}
			matches = append(matches, *m)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: tournament %s needs at least two teams", bracket.ErrInvalidInput, tournament.Slug)
	}

	if err := s.store.CreateMatches(ctx, tx, matches); err != nil {
		return nil, fmt.Errorf("failed to create matches: %w", err)
	}
	if err := s.store.UpdateTournamentStatus(ctx, tx, id, bracket.TournamentStarted); err != nil {
		return nil, fmt.Errorf("failed to update tournament status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.metrics.IncBracketsGenerated(string(tournament.Format))
	s.metrics.ObserveGenerationDuration(time.Since(started).Seconds())
	slog.Info("bracket generated", "tournament", tournament.Slug, "format", tournament.Format,
		"teams", len(teams), "matches", len(matches), "replaced", len(existing) > 0)

	tournament.Status = bracket.TournamentStarted
	return bracket.Assemble(*tournament, teams, matches), nil
}

// firstPlayedMatch returns a real match that was started or finished, if any.
func firstPlayedMatch(matches []bracket.Match) *bracket.Match {
	for i := range matches {
		m := &matches[i]
		if m.IsBye {
			continue
		}
		if m.Status == bracket.StatusInProgress || m.Status == bracket.StatusCompleted {
			return m
		}
	}
	return nil
}
