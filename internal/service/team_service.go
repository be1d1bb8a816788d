package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/AdamBeresnev/bracket-engine/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TeamService struct {
	db    *sqlx.DB
	store *store.TournamentStore
	now   func() time.Time
}

func NewTeamService(db *sqlx.DB, store *store.TournamentStore) *TeamService {
	return &TeamService{db: db, store: store, now: time.Now}
}

type TeamInput struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

// ParseTeamList reads one team per line, either "Name" or "Name | logo-url". Blank lines are
// skipped.
func ParseTeamList(text string) ([]TeamInput, error) {
	var inputs []TeamInput
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, logo, _ := strings.Cut(line, "|")
		input := TeamInput{Name: strings.TrimSpace(name), LogoURL: strings.TrimSpace(logo)}
		if input.Name == "" {
			return nil, fmt.Errorf("%w: line %d has no team name", bracket.ErrInvalidInput, i+1)
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// newTeams turns inputs into teams seeded from firstSeed on, in input order.
func newTeams(tournamentID uuid.UUID, firstSeed int, inputs []TeamInput, now time.Time) ([]bracket.Team, error) {
	teams := make([]bracket.Team, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))

	for i, input := range inputs {
		name, err := validateName(input.Name)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("%w: team '%s' is listed twice", bracket.ErrInvalidInput, name)
		}
		seen[key] = true

		logo := utils.TrimmedOrNil(input.LogoURL)
		if logo != nil {
			if u, err := url.Parse(*logo); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				return nil, fmt.Errorf("%w: logo of team '%s' is not an http(s) URL", bracket.ErrInvalidInput, name)
			}
		}

		teams = append(teams, bracket.Team{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Name:         name,
			Seed:         firstSeed + i,
			LogoURL:      logo,
			CreatedAt:    now.UTC(),
		})
	}
	return teams, nil
}

// AddTeams appends teams after the current last seed. The team list is frozen once a bracket
// exists.
func (s *TeamService) AddTeams(ctx context.Context, tournamentID uuid.UUID, inputs []TeamInput) ([]bracket.Team, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no teams given", bracket.ErrInvalidInput)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.store.GetTournamentTx(ctx, tx, tournamentID); err != nil {
		return nil, err
	}

	matches, err := s.store.FindMatchesByTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return nil, fmt.Errorf("%w: teams cannot be added once the bracket exists", bracket.ErrConflict)
	}

	existing, err := s.store.FindTeamsByTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, team := range existing {
		for _, input := range inputs {
			if strings.EqualFold(team.Name, strings.TrimSpace(input.Name)) {
				return nil, fmt.Errorf("%w: team '%s' already exists", bracket.ErrConflict, team.Name)
			}
		}
	}

	seed, err := s.store.NextSeedTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	teams, err := newTeams(tournamentID, seed, inputs, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateTeams(ctx, tx, teams); err != nil {
		return nil, fmt.Errorf("failed to create teams: %w", err)
	}
	return teams, tx.Commit()
}

// RemoveTeam deletes a team that no bracket refers to yet.
func (s *TeamService) RemoveTeam(ctx context.Context, tournamentID, teamID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	matches, err := s.store.FindMatchesByTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		return fmt.Errorf("%w: teams cannot be removed once the bracket exists", bracket.ErrConflict)
	}

	if err := s.store.DeleteTeam(ctx, tx, tournamentID, teamID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *TeamService) ListTeams(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Team, error) {
	return s.store.FindTeamsByTournament(ctx, tournamentID)
}
