package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-r6-metrics/internal/report"
	"github.com/pable/go-r6-metrics/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all matches stored in the database:
total match count, map breakdown, and the top players by kills.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Matches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'r6metrics parse <match.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored : %d\n", ov.Matches)
	fmt.Fprintf(os.Stdout, "  Players seen   : %d\n", ov.Players)
	fmt.Fprintf(os.Stdout, "  Round rows     : %d\n", ov.RoundRows)

	maps, err := db.GetMapBreakdown()
	if err != nil {
		return fmt.Errorf("get map breakdown: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Maps ---\n\n")
	mt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	mt.Header("MAP", "MATCHES")
	for _, m := range maps {
		mt.Append(m.MapName, fmt.Sprintf("%d", m.Matches))
	}
	mt.Render()

	top, err := db.AggregatePlayers(10)
	if err != nil {
		return fmt.Errorf("get top players: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Top Players by Kills ---\n\n")
	report.PrintPlayerAggregateOverview(os.Stdout, top)
	return nil
}
