package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-r6-metrics/internal/logging"
)

var (
	dbPath  string
	verbose bool

	log = zap.NewNop().Sugar()
)

var rootCmd = &cobra.Command{
	Use:   "r6metrics",
	Short: "Rainbow Six Siege replay metrics tool",
	Long:  "Parse r6-dissect match exports and compute per-player performance metrics.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logging.New(verbose).Sugar()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".r6metrics", "metrics.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
