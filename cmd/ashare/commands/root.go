package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ashare",
	Short: "Fundamental valuation and backtesting for A-share securities",
	Long: `ashare evaluates a single security against its fundamentals and
replays the resulting buy/sell/hold decisions over history.

Usage:
  go run ./cmd/ashare [command]

Examples:
  go run ./cmd/ashare migrate
  go run ./cmd/ashare sync 600900.SH
  go run ./cmd/ashare decide 600900.SH --date 2024-06-28
  go run ./cmd/ashare backtest 600900.SH --start 2015-01-01 --end 2024-12-31`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
