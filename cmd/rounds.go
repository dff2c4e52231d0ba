package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-r6-metrics/internal/model"
	"github.com/pable/go-r6-metrics/internal/report"
	"github.com/pable/go-r6-metrics/internal/storage"
)

var (
	roundsClutch   bool
	roundsOpenings bool
)

// roundsCmd is the cobra command for the per-round drill-down of a stored
// match, optionally narrowed to one player.
var roundsCmd = &cobra.Command{
	Use:   "rounds <hash-prefix> [<username>]",
	Short: "Per-round drill-down for a stored match",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runRounds,
}

func init() {
	roundsCmd.Flags().BoolVar(&roundsClutch, "clutch", false, "only show clutch rounds")
	roundsCmd.Flags().BoolVar(&roundsOpenings, "openings", false, "only show rounds with an opening pick or death")
}

// filterRounds applies the username, --clutch and --openings filters.
func filterRounds(stats []model.PlayerRoundStats, username string, clutch, openings bool) []model.PlayerRoundStats {
	var out []model.PlayerRoundStats
	for _, s := range stats {
		if username != "" && s.Username != username {
			continue
		}
		if clutch && !s.Clutch {
			continue
		}
		if openings && !s.OpeningPick && !s.OpeningDeath {
			continue
		}
		out = append(out, s)
	}
	return out
}

func runRounds(cmd *cobra.Command, args []string) error {
	prefix := args[0]
	username := ""
	if len(args) == 2 {
		username = args[1]
	}

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

	all, err := db.GetRoundStats(match.MatchHash)
	if err != nil {
		return fmt.Errorf("get round stats: %w", err)
	}
	if len(all) == 0 {
		fmt.Fprintf(os.Stderr, "No round data stored for match %s\n", prefix)
		return nil
	}

	rows := filterRounds(all, username, roundsClutch, roundsOpenings)
	if len(rows) == 0 {
		if username != "" {
			fmt.Fprintf(os.Stderr, "No rounds match for player %q in match %s\n", username, prefix)
		} else {
			fmt.Fprintln(os.Stderr, "No rounds match the given filters.")
		}
		return nil
	}

	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintRoundTable(os.Stdout, rows, "")
	return nil
}
