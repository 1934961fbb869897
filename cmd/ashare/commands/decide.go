package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ashare/internal/decision"
)

// decideCmd represents the decide command
var decideCmd = &cobra.Command{
	Use:   "decide <ts_code>",
	Short: "Evaluate a security on a single date",
	Long: `Runs the fundamental screen and valuation against cached data and
prints the resulting action.

Examples:
  go run ./cmd/ashare decide 600900.SH
  go run ./cmd/ashare decide 600900.SH --date 2024-06-28`,
	Args: cobra.ExactArgs(1),
	RunE: runDecide,
}

var decideDate string

func init() {
	rootCmd.AddCommand(decideCmd)
	decideCmd.Flags().StringVar(&decideDate, "date", "", "evaluation date (YYYY-MM-DD, default today)")
}

// decisionConfig builds the trader configuration from the loaded app config.
func (a *app) decisionConfig() decision.Config {
	cfg := decision.DefaultConfig()
	cfg.DiscountRate = a.cfg.Backtest.DiscountRate
	cfg.RiskFreeRate = a.cfg.Backtest.RiskFreeRate
	return cfg
}

func runDecide(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if decideDate != "" {
		date, err = time.Parse("2006-01-02", decideDate)
		if err != nil {
			return fmt.Errorf("parse --date: %w", err)
		}
	}

	tsCode := args[0]
	data, err := a.loadData(context.Background(), tsCode)
	if err != nil {
		return err
	}

	trader := decision.NewTrader(a.decisionConfig(), a.log,
		data.Indicators, data.Quotes, data.Dividends, data.Reports, date)
	eval := trader.Decide()

	fmt.Printf("Security:       %s (%s)\n", tsCode, data.Stock.Name)
	fmt.Printf("Date:           %s\n", date.Format("2006-01-02"))
	fmt.Printf("Action:         %s\n", eval.Action)
	fmt.Printf("ROE qualified:  %v\n", eval.ROEQualified)
	fmt.Printf("DCF ratio:      %.4f\n", eval.DCFRatio)
	fmt.Printf("PE percentile:  %.4f\n", eval.PEPercentile)
	if verbose {
		for _, line := range eval.Debug {
			fmt.Printf("  %s\n", line)
		}
	}
	return nil
}
