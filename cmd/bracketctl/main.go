package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bracketctl",
	Short: "Tools for the bracket engine",
	Long: `bracketctl previews brackets without a database and manages the schema
of the bracket engine's SQLite database.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bracketctl: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
