package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-r6-metrics/internal/report"
	"github.com/pable/go-r6-metrics/internal/storage"
)

var trendCmd = &cobra.Command{
	Use:   "trend <username>",
	Short: "Chronological per-match performance trend for a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	username := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	stats, err := db.GetAllPlayerMatchStats(username)
	if err != nil {
		return fmt.Errorf("query stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Fprintf(os.Stderr, "No data found for player %q\n", username)
		return nil
	}

	fmt.Fprintln(os.Stdout)
	report.PrintTrendTable(os.Stdout, stats)
	return nil
}
