package bracket

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentStarted   TournamentStatus = "started"
	TournamentCompleted TournamentStatus = "completed"
)

// Format selects which bracket builder runs for a tournament.
type Format string

const (
	SingleElimination Format = "single"
	DoubleElimination Format = "double"
	GroupStage        Format = "group"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case SingleElimination, DoubleElimination, GroupStage:
		return f, nil
	case "":
		return SingleElimination, nil
	}
	return "", fmt.Errorf("%w: unknown bracket format %q", ErrInvalidInput, s)
}

func (f Format) IsElimination() bool {
	return f == SingleElimination || f == DoubleElimination
}

type Tournament struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Slug      string           `db:"slug" json:"slug"`
	Format    Format           `db:"format" json:"format"`
	Status    TournamentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// Team is a seed source. It is never owned by a bracket, only referenced from slots.
type Team struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	Name         string    `db:"name" json:"name"`
	Seed         int       `db:"seed" json:"seed"`
	LogoURL      *string   `db:"logo_url" json:"logo_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (t Team) Ref() Ref {
	return TeamRef(t.ID)
}
