package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-r6-metrics/internal/report"
	"github.com/pable/go-r6-metrics/internal/storage"
)

var showFocus string

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show stored match stats by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFocus, "player", "", "highlight player username")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with hash prefix %q\n", prefix)
		return nil
	}

	stats, err := db.GetPlayerMatchStats(match.MatchHash)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintPlayerTable(stats, showFocus)
	return nil
}
