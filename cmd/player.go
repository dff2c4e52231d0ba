package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pable/go-r6-metrics/internal/model"
	"github.com/pable/go-r6-metrics/internal/report"
	"github.com/pable/go-r6-metrics/internal/storage"
)

// playerCmd is the cobra command for cross-match analysis of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <username> [<username>...]",
	Short: "Cross-match analysis for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

// runPlayer loads all match data for each given username, builds cross-match
// aggregates, and prints the overview and per-map tables.
func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var allAggs []model.PlayerAggregate
	var allMaps []model.PlayerMapAggregate

	for _, name := range args {
		stats, err := db.GetAllPlayerMatchStats(name)
		if err != nil {
			return fmt.Errorf("query stats for %s: %w", name, err)
		}
		if len(stats) == 0 {
			fmt.Fprintf(os.Stderr, "No data found for player %q\n", name)
			continue
		}
		allAggs = append(allAggs, buildAggregate(name, stats))
		allMaps = append(allMaps, buildMapAggregates(name, stats)...)
	}

	if len(allAggs) == 0 {
		return nil
	}

	fmt.Fprintln(os.Stdout)
	report.PrintPlayerAggregateOverview(os.Stdout, allAggs)
	fmt.Fprintln(os.Stdout)
	report.PrintPlayerMapTable(os.Stdout, allMaps)
	return nil
}

// buildAggregate sums per-match counters across all of a player's matches.
func buildAggregate(username string, stats []model.PlayerMatchStats) model.PlayerAggregate {
	agg := model.PlayerAggregate{
		Username: username,
		Matches:  len(stats),
	}
	for _, s := range stats {
		agg.Kills += s.Kills
		agg.Deaths += s.Deaths
		agg.RoundsPlayed += s.RoundsPlayed
		agg.Multikills += s.Multikills
		agg.OpeningPicks += s.OpeningPicks
		agg.OpeningDeaths += s.OpeningDeaths
		agg.Clutches += s.Clutches
		agg.TradeDifferential += s.TradeDifferential
		agg.KOSTRounds += s.KOSTRounds
		agg.RoundsSurvived += s.RoundsSurvived
	}
	return agg
}

// buildMapAggregates groups match stats by map and sums the counters.
// Rows must carry the joined map name.
func buildMapAggregates(username string, stats []model.PlayerMatchStats) []model.PlayerMapAggregate {
	m := make(map[string]*model.PlayerMapAggregate)

	for _, s := range stats {
		mapName := s.MapName
		if mapName == "" {
			mapName = "UNKNOWN"
		}
		a, ok := m[mapName]
		if !ok {
			a = &model.PlayerMapAggregate{
				Username: username,
				MapName:  mapName,
			}
			m[mapName] = a
		}
		a.Matches++
		a.Kills += s.Kills
		a.Deaths += s.Deaths
		a.RoundsPlayed += s.RoundsPlayed
		a.OpeningPicks += s.OpeningPicks
		a.OpeningDeaths += s.OpeningDeaths
		a.Clutches += s.Clutches
		a.TradeDifferential += s.TradeDifferential
		a.KOSTRounds += s.KOSTRounds
		a.RoundsSurvived += s.RoundsSurvived
	}

	out := make([]model.PlayerMapAggregate, 0, len(m))
	for _, v := range m {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MapName < out[j].MapName })
	return out
}
