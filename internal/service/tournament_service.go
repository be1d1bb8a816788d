package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/metrics"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

const (
	maxNameLength = 50
	// slugAttempts bounds the numeric suffixes tried when two tournaments share a name.
	slugAttempts = 20
)

type TournamentService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	metrics metrics.Metrics
	now     func() time.Time
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, m metrics.Metrics) *TournamentService {
	return &TournamentService{db: db, store: store, metrics: m, now: time.Now}
}

type CreateTournamentInput struct {
	Name   string      `json:"name"`
	Format string      `json:"format"`
	Teams  []TeamInput `json:"teams"`
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", bracket.ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return "", fmt.Errorf("%w: name '%s' exceeds %d characters", bracket.ErrInvalidInput, name, maxNameLength)
	}
	return name, nil
}

func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*bracket.Tournament, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	format, err := bracket.ParseFormat(input.Format)
	if err != nil {
		return nil, err
	}
	base := slug.Make(name)
	if base == "" {
		return nil, fmt.Errorf("%w: name '%s' has no usable characters", bracket.ErrInvalidInput, name)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament := bracket.Tournament{
		ID:        uuid.New(),
		Name:      name,
		Format:    format,
		Status:    bracket.TournamentDraft,
		CreatedAt: s.now().UTC(),
	}
	if err := s.insertWithUniqueSlug(ctx, tx, &tournament, base); err != nil {
		return nil, err
	}

	teams, err := newTeams(tournament.ID, 1, input.Teams, tournament.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateTeams(ctx, tx, teams); err != nil {
		return nil, fmt.Errorf("failed to create teams: %w", err)
	}

	return &tournament, tx.Commit()
}

// insertWithUniqueSlug tries base, base-2, base-3... until the slug is free.
func (s *TournamentService) insertWithUniqueSlug(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament, base string) error {
	for i := 1; i <= slugAttempts; i++ {
		tournament.Slug = base
		if i > 1 {
			tournament.Slug = base + "-" + strconv.Itoa(i)
		}

		err := s.store.CreateTournament(ctx, tx, tournament)
		if err == nil {
			return nil
		}
		if !errors.Is(err, bracket.ErrConflict) {
			return fmt.Errorf("failed to create tournament: %w", err)
		}
	}
	return fmt.Errorf("%w: too many tournaments named '%s'", bracket.ErrConflict, tournament.Name)
}

type UpdateTournamentInput struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

// UpdateTournament renames a tournament or changes its format. The format is fixed once a
// bracket exists.
func (s *TournamentService) UpdateTournament(ctx context.Context, id uuid.UUID, input UpdateTournamentInput) (*bracket.Tournament, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	format := tournament.Format
	if input.Format != "" {
		if format, err = bracket.ParseFormat(input.Format); err != nil {
			return nil, err
		}
	}
	if format != tournament.Format {
		matches, err := s.store.FindMatchesByTournamentTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			return nil, fmt.Errorf("%w: the format cannot change after the bracket was generated", bracket.ErrConflict)
		}
	}

	if name != tournament.Name {
		tournament.Name = name
		// keep the old slug when the new name yields nothing
		if newSlug := slug.Make(name); newSlug != "" {
			tournament.Slug = newSlug
		}
	}
	tournament.Format = format

	if err := s.store.UpdateTournament(ctx, tx, tournament); err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	return tournament, tx.Commit()
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.DeleteTournament(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	return s.store.ListTournaments(ctx)
}

// GetTournament accepts either the tournament ID or its slug.
func (s *TournamentService) GetTournament(ctx context.Context, idOrSlug string) (*bracket.Tournament, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.store.GetTournament(ctx, id)
	}
	return s.store.GetTournamentBySlug(ctx, idOrSlug)
}

// GetBracket loads a tournament with its teams and matches and assembles the bracket view.
func (s *TournamentService) GetBracket(ctx context.Context, idOrSlug string) (*bracket.View, error) {
	tournament, err := s.GetTournament(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	var (
		teams   []bracket.Team
		matches []bracket.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.store.FindTeamsByTournament(gctx, tournament.ID)
		if err != nil {
			return fmt.Errorf("failed to get teams: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.store.FindMatchesByTournament(gctx, tournament.ID)
		if err != nil {
			return fmt.Errorf("failed to get matches: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return bracket.Assemble(*tournament, teams, matches), nil
}
