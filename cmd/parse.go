package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-r6-metrics/internal/aggregator"
	"github.com/pable/go-r6-metrics/internal/model"
	"github.com/pable/go-r6-metrics/internal/parser"
	"github.com/pable/go-r6-metrics/internal/report"
	"github.com/pable/go-r6-metrics/internal/storage"
)

var (
	parseFocus   string
	parseNoStore bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <match.json> [<match.json>...]",
	Short: "Parse r6-dissect match exports and store metrics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFocus, "player", "", "focus player username")
	parseCmd.Flags().BoolVar(&parseNoStore, "no-store", false, "print results without writing to the database")
}

func runParse(cmd *cobra.Command, args []string) error {
	var db *storage.DB
	if !parseNoStore {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
		var err error
		db, err = storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()
	}

	raws := make([]*model.RawMatch, len(args))
	g := new(errgroup.Group)
	g.SetLimit(4)
	for i, path := range args {
		g.Go(func() error {
			start := time.Now()
			raw, err := parser.ParseReplay(path)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			log.Debugw("parsed replay",
				"path", path,
				"hash", raw.MatchHash[:12],
				"rounds", len(raw.Rounds),
				"elapsed", time.Since(start))
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, raw := range raws {
		if err := storeAndPrint(db, raw); err != nil {
			return err
		}
	}
	return nil
}

// storeAndPrint persists one parsed match (when a database is open) and
// prints its tables. Already-stored matches are re-shown from the cache.
func storeAndPrint(db *storage.DB, raw *model.RawMatch) error {
	if db != nil {
		exists, err := db.MatchExists(raw.MatchHash)
		if err != nil {
			return fmt.Errorf("check match: %w", err)
		}
		if exists {
			fmt.Fprintf(os.Stdout, "Match %s already stored, showing cached results.\n", raw.MatchHash[:12])
			return showByHash(db, raw.MatchHash)
		}
	}

	matchStats, roundStats, err := aggregator.Aggregate(raw)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	log.Debugw("aggregated match",
		"hash", raw.MatchHash[:12],
		"players", len(matchStats),
		"roundRows", len(roundStats))

	summary := matchSummary(raw)

	if db != nil {
		if err := db.InsertMatch(summary); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		if err := db.InsertPlayerMatchStats(matchStats); err != nil {
			return fmt.Errorf("insert player stats: %w", err)
		}
		if err := db.InsertPlayerRoundStats(roundStats); err != nil {
			return fmt.Errorf("insert round stats: %w", err)
		}
	}

	report.PrintMatchSummary(os.Stdout, summary)
	report.PrintPlayerTable(matchStats, parseFocus)
	return nil
}

// matchSummary builds the list/show record from parsed metadata. Team order
// follows the export's roster order; minimal exports leave the names empty.
func matchSummary(raw *model.RawMatch) model.MatchSummary {
	s := model.MatchSummary{
		MatchHash: raw.MatchHash,
		MatchID:   raw.MatchID,
		MapName:   raw.MapName,
		MatchDate: raw.MatchDate,
		GameMode:  raw.GameMode,
	}
	if len(raw.Teams) > 0 {
		s.TeamAName = raw.Teams[0].Name
		s.TeamAScore = raw.Teams[0].Score
	}
	if len(raw.Teams) > 1 {
		s.TeamBName = raw.Teams[1].Name
		s.TeamBScore = raw.Teams[1].Score
	}
	return s
}

func showByHash(db *storage.DB, hash string) error {
	match, err := db.GetMatchByPrefix(hash)
	if err != nil || match == nil {
		return fmt.Errorf("match not found: %s", hash)
	}
	stats, err := db.GetPlayerMatchStats(hash)
	if err != nil {
		return err
	}
	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintPlayerTable(stats, parseFocus)
	return nil
}
