package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-r6-metrics/internal/model"
	"github.com/pable/go-r6-metrics/internal/report"
	"github.com/pable/go-r6-metrics/internal/storage"
)

var exportOut string

// reportEnvelope is the top-level JSON schema for exported match reports.
// Player records are keyed by username; keys marshal in sorted order.
type reportEnvelope struct {
	ReportID    string                        `json:"report_id"`
	GeneratedAt string                        `json:"generated_at"`
	Match       matchBlock                    `json:"match"`
	Players     map[string]model.PlayerReport `json:"players"`
}

type matchBlock struct {
	Hash     string `json:"hash"`
	MatchID  string `json:"match_id,omitempty"`
	Map      string `json:"map"`
	Date     string `json:"date"`
	GameMode string `json:"game_mode,omitempty"`
	TeamA    string `json:"team_a,omitempty"`
	TeamB    string `json:"team_b,omitempty"`
	ScoreA   int    `json:"score_a"`
	ScoreB   int    `json:"score_b"`
}

var exportCmd = &cobra.Command{
	Use:   "export <hash-prefix>",
	Short: "Export a stored match report as JSON",
	Long: `Produce the per-player report for a stored match as a JSON document:
accumulated counters plus the derived ratio metrics, keyed by username.

Example:
  r6metrics export 29f8d6 --out report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	out := reportEnvelope{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Match: matchBlock{
			Hash:     match.MatchHash,
			MatchID:  match.MatchID,
			Map:      match.MapName,
			Date:     match.MatchDate,
			GameMode: match.GameMode,
			TeamA:    match.TeamAName,
			TeamB:    match.TeamBName,
			ScoreA:   match.TeamAScore,
			ScoreB:   match.TeamBScore,
		},
		Players: report.Assemble(stats),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}
