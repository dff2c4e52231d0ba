package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-r6-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'r6metrics parse <match.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-18s  %-10s  %-10s  %s\n",
		"HASH", "MAP", "DATE", "MODE", "SCORE")
	fmt.Fprintf(os.Stdout, "%-14s  %-18s  %-10s  %-10s  %s\n",
		"──────────────", "──────────────────", "──────────", "──────────", "──────")
	for _, m := range matches {
		score := fmt.Sprintf("%d-%d", m.TeamAScore, m.TeamBScore)
		fmt.Fprintf(os.Stdout, "%-14s  %-18s  %-10s  %-10s  %s\n",
			m.MatchHash[:12], m.MapName, m.MatchDate, m.GameMode, score)
	}
	return nil
}
