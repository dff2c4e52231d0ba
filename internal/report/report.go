package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pable/go-r6-metrics/internal/model"
)

// Assemble converts accumulated per-match counters into the final report
// records, keyed by username. Every player that accumulated anything gets an
// entry, including players seen only in kill feedback.
func Assemble(stats []model.PlayerMatchStats) map[string]model.PlayerReport {
	out := make(map[string]model.PlayerReport, len(stats))
	for i := range stats {
		s := &stats[i]
		out[s.Username] = model.PlayerReport{
			Username:          s.Username,
			KPR:               s.KPR(),
			Teamkills:         0,
			Multikills:        s.Multikills,
			OpeningPicks:      s.OpeningPicks,
			OpeningDeaths:     s.OpeningDeaths,
			Clutches:          s.Clutches,
			KOSTPct:           s.KOSTPct(),
			SurvivalRatePct:   s.SurvivalPct(),
			TradeDifferential: s.TradeDifferential,
			HeadshotRatePct:   s.HeadshotPct,
		}
	}
	return out
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	fmt.Fprintf(w, "\nMap: %s  |  Date: %s  |  Mode: %s  |  Score: %s %d – %d %s  |  Hash: %s\n\n",
		s.MapName, s.MatchDate, s.GameMode, s.TeamAName, s.TeamAScore, s.TeamBScore, s.TeamBName, shortHash(s.MatchHash))
}

// PrintPlayerTable prints the player stats table to stdout.
// If focus is non-empty, that player's row is marked with ">".
func PrintPlayerTable(stats []model.PlayerMatchStats, focus string) {
	PrintPlayerTableTo(os.Stdout, stats, focus)
}

// PrintPlayerTableTo writes the table to the provided writer.
func PrintPlayerTableTo(w io.Writer, stats []model.PlayerMatchStats, focus string) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header(
		" ", "NAME", "RNDS", "K", "D", "K/D", "KPR", "HS%",
		"MK", "OPEN_K", "OPEN_D", "CLUTCH", "KOST%", "SURV%", "TRADE_DIFF",
	)

	for i := range stats {
		s := &stats[i]
		marker := " "
		if focus != "" && s.Username == focus {
			marker = ">"
		}
		table.Append(
			marker,
			s.Username,
			strconv.Itoa(s.RoundsPlayed),
			strconv.Itoa(s.Kills),
			strconv.Itoa(s.Deaths),
			fmt.Sprintf("%.2f", s.KDRatio()),
			fmt.Sprintf("%.2f", s.KPR()),
			fmt.Sprintf("%.0f%%", s.HeadshotPct),
			strconv.Itoa(s.Multikills),
			strconv.Itoa(s.OpeningPicks),
			strconv.Itoa(s.OpeningDeaths),
			strconv.Itoa(s.Clutches),
			fmt.Sprintf("%.0f%%", s.KOSTPct()),
			fmt.Sprintf("%.0f%%", s.SurvivalPct()),
			fmt.Sprintf("%+d", s.TradeDifferential),
		)
	}
	table.Render()
}

// PrintRoundTable prints the per-round drill-down.
// If focus is non-empty, only rows for that player are shown.
func PrintRoundTable(w io.Writer, rounds []model.PlayerRoundStats, focus string) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("RND", "PLAYER", "K", "D", "TRADE", "SURV", "OPENING", "MK", "CLUTCH", "TRADED", "KOST")

	for i := range rounds {
		r := &rounds[i]
		if focus != "" && r.Username != focus {
			continue
		}

		opening := "—"
		if r.OpeningPick {
			opening = "pick"
		} else if r.OpeningDeath {
			opening = "death"
		}

		table.Append(
			strconv.Itoa(r.RoundNumber),
			r.Username,
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Deaths),
			fmt.Sprintf("%+d", r.TradeDelta),
			mark(r.Survived),
			opening,
			mark(r.Multikill),
			mark(r.Clutch),
			mark(r.WasTraded),
			mark(r.KOSTEarned),
		)
	}
	table.Render()
}

// PrintPlayerAggregateOverview prints performance stats aggregated across all
// stored matches.
func PrintPlayerAggregateOverview(w io.Writer, aggs []model.PlayerAggregate) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("PLAYER", "MATCHES", "RNDS", "K", "D", "K/D", "KPR",
		"MK", "OPEN_K", "OPEN_D", "CLUTCH", "KOST%", "SURV%", "TRADE_DIFF")

	for i := range aggs {
		a := &aggs[i]
		table.Append(
			a.Username,
			strconv.Itoa(a.Matches),
			strconv.Itoa(a.RoundsPlayed),
			strconv.Itoa(a.Kills),
			strconv.Itoa(a.Deaths),
			fmt.Sprintf("%.2f", a.KDRatio()),
			fmt.Sprintf("%.2f", a.KPR()),
			strconv.Itoa(a.Multikills),
			strconv.Itoa(a.OpeningPicks),
			strconv.Itoa(a.OpeningDeaths),
			strconv.Itoa(a.Clutches),
			fmt.Sprintf("%.0f%%", a.KOSTPct()),
			fmt.Sprintf("%.0f%%", a.SurvivalPct()),
			fmt.Sprintf("%+d", a.TradeDifferential),
		)
	}
	table.Render()
}

// PrintPlayerMapTable prints cross-match totals grouped by map.
func PrintPlayerMapTable(w io.Writer, aggs []model.PlayerMapAggregate) {
	if len(aggs) == 0 {
		return
	}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("PLAYER", "MAP", "MATCHES", "RNDS", "K", "D", "KPR",
		"OPEN_K", "OPEN_D", "CLUTCH", "KOST%", "SURV%")

	for i := range aggs {
		a := &aggs[i]
		table.Append(
			a.Username,
			a.MapName,
			strconv.Itoa(a.Matches),
			strconv.Itoa(a.RoundsPlayed),
			strconv.Itoa(a.Kills),
			strconv.Itoa(a.Deaths),
			fmt.Sprintf("%.2f", a.KPR()),
			strconv.Itoa(a.OpeningPicks),
			strconv.Itoa(a.OpeningDeaths),
			strconv.Itoa(a.Clutches),
			fmt.Sprintf("%.0f%%", a.KOSTPct()),
			fmt.Sprintf("%.0f%%", a.SurvivalPct()),
		)
	}
	table.Render()
}

// PrintTrendTable prints one row per stored match for a single player,
// oldest first. Rows must carry the joined map name and match date.
func PrintTrendTable(w io.Writer, rows []model.PlayerMatchStats) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("DATE", "MAP", "HASH", "RNDS", "K", "D", "KPR", "KOST%", "SURV%", "TRADE_DIFF")

	for i := range rows {
		s := &rows[i]
		table.Append(
			s.MatchDate,
			s.MapName,
			shortHash(s.MatchHash),
			strconv.Itoa(s.RoundsPlayed),
			strconv.Itoa(s.Kills),
			strconv.Itoa(s.Deaths),
			fmt.Sprintf("%.2f", s.KPR()),
			fmt.Sprintf("%.0f%%", s.KOSTPct()),
			fmt.Sprintf("%.0f%%", s.SurvivalPct()),
			fmt.Sprintf("%+d", s.TradeDifferential),
		)
	}
	table.Render()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return ""
}
