package main

import (
	"fmt"
	"io"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/config"
	"github.com/AdamBeresnev/bracket-engine/internal/db"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	previewFormat string
	dbPath        string
	rollbackSteps int
)

func init() {
	previewCmd.Flags().StringVarP(&previewFormat, "format", "f", string(bracket.SingleElimination), "Bracket format: single, double or group")
	migrateCmd.Flags().StringVar(&dbPath, "db", "", "Path of the SQLite database (defaults to DB_PATH)")
	migrateCmd.Flags().IntVar(&rollbackSteps, "rollback", 0, "Roll back this many migrations instead of applying them")

	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(migrateCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview TEAM...",
	Short: "Print the bracket generated for the given teams, in seed order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := bracket.ParseFormat(previewFormat)
		if err != nil {
			return err
		}
		view, err := previewBracket(format, args)
		if err != nil {
			return err
		}
		printBracket(cmd.OutOrStdout(), view)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dbPath
		if path == "" {
			config.LoadEnvFile()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			path = cfg.DBPath
		}

		database, err := db.InitDB(path)
		if err != nil {
			return err
		}
		defer database.Close()

		if rollbackSteps > 0 {
			if err := db.RollbackMigrations(database.DB, rollbackSteps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s) on %s\n", rollbackSteps, path)
			return nil
		}
		if err := db.RunMigrations(database.DB); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied to %s\n", path)
		return nil
	},
}

func previewBracket(format bracket.Format, names []string) (*bracket.View, error) {
	tournament := bracket.Tournament{ID: uuid.New(), Name: "Preview", Format: format, CreatedAt: time.Now().UTC()}

	teams := make([]bracket.Team, len(names))
	for i, name := range names {
		teams[i] = bracket.Team{ID: uuid.New(), TournamentID: tournament.ID, Name: name, Seed: i + 1}
	}

	rounds, err := bracket.Build(format, teams)
	if err != nil {
		return nil, err
	}
	var matches []bracket.Match
	for _, r := range rounds {
		matches = append(matches, r.Matches...)
	}
	return bracket.Assemble(tournament, teams, matches), nil
}

func printBracket(w io.Writer, view *bracket.View) {
	for _, round := range view.Rounds {
		fmt.Fprintf(w, "%s [round %d, %s]\n", round.Label, round.Number, round.Side)
		for _, m := range round.Matches {
			line := fmt.Sprintf("  M%-3d %s vs %s", m.MatchNumber, view.TeamName(m.Team1), view.TeamName(m.Team2))
			switch {
			case m.Status == bracket.StatusCompleted && m.Winner != nil:
				line += fmt.Sprintf("  -> %s advances", view.TeamName(*m.Winner))
			case m.Status == bracket.StatusCancelled:
				line += "  (cancelled)"
			}
			fmt.Fprintln(w, line)
		}
	}
}
