package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-r6-metrics/internal/storage"
)

var dropForce bool

// dropCmd removes one stored match and all of its per-player rows.
var dropCmd = &cobra.Command{
	Use:   "drop <hash-prefix>",
	Short: "Remove a stored match from the database",
	Long:  "Remove a stored match and its per-player rows from the metrics database. The replay file itself is untouched; re-parse it to restore the match.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
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

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will remove match %s (%s, %s).\n",
			match.MatchHash[:12], match.MapName, match.MatchDate)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if err := db.DeleteMatch(match.MatchHash); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Removed match %s\n", match.MatchHash[:12])
	return nil
}
