package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wonny/ashare/internal/backtest"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest <ts_code>",
	Short: "Replay the strategy over cached history",
	Long: `Runs the day-by-day simulation against cached data and prints the
trades and the final portfolio summary.

Examples:
  go run ./cmd/ashare backtest 600900.SH
  go run ./cmd/ashare backtest 600900.SH --start 2015-01-01 --end 2024-12-31
  go run ./cmd/ashare backtest 600900.SH --csv days.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runBacktest,
}

var (
	backtestStart   string
	backtestEnd     string
	backtestCapital float64
	backtestCSV     string
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.Flags().StringVar(&backtestStart, "start", "", "start date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&backtestEnd, "end", "", "end date (YYYY-MM-DD, default today)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "initial capital")
	backtestCmd.Flags().StringVar(&backtestCSV, "csv", "", "write the per-day series to this file")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	cfg, err := a.backtestConfig()
	if err != nil {
		return err
	}

	tsCode := args[0]
	data, err := a.loadData(context.Background(), tsCode)
	if err != nil {
		return err
	}

	sim := backtest.NewSimulator(cfg, a.log)
	result, err := sim.Run(context.Background(), data)
	if err != nil {
		return err
	}

	printBacktestResult(result, cfg)

	if backtestCSV != "" {
		if err := writeDaysCSV(backtestCSV, result.Days); err != nil {
			return err
		}
		fmt.Printf("Day series written to %s\n", backtestCSV)
	}
	return nil
}

// backtestConfig merges flags over configured defaults.
func (a *app) backtestConfig() (backtest.Config, error) {
	startStr := a.cfg.Backtest.StartDate
	if backtestStart != "" {
		startStr = backtestStart
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return backtest.Config{}, fmt.Errorf("parse start date: %w", err)
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	endStr := a.cfg.Backtest.EndDate
	if backtestEnd != "" {
		endStr = backtestEnd
	}
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return backtest.Config{}, fmt.Errorf("parse end date: %w", err)
		}
	}

	capital := a.cfg.Backtest.InitialCapital
	if backtestCapital > 0 {
		capital = backtestCapital
	}

	return backtest.Config{
		StartDate:      start,
		EndDate:        end,
		InitialCapital: decimal.NewFromFloat(capital),
		Decision:       a.decisionConfig(),
	}, nil
}

func printBacktestResult(result *backtest.Result, cfg backtest.Config) {
	fmt.Printf("Backtest %s: %s to %s\n", result.TsCode,
		cfg.StartDate.Format("2006-01-02"), cfg.EndDate.Format("2006-01-02"))
	fmt.Printf("Trading days evaluated: %d\n", len(result.Days))
	fmt.Printf("Trades executed:        %d\n", len(result.Trades))

	for _, t := range result.Trades {
		fmt.Printf("  %s %-4s %s shares @ %s\n",
			t.TradeDate.Format("2006-01-02"), t.Side, t.Shares.String(), t.Price.String())
	}

	if len(result.Days) == 0 {
		return
	}
	last := result.Days[len(result.Days)-1]
	fmt.Printf("Final position:         %s shares\n", last.Position.String())
	fmt.Printf("Final capital:          %s\n", last.Capital.StringFixed(2))
	fmt.Printf("Final total value:      %s\n", last.TotalValue.StringFixed(2))
	fmt.Printf("Annualized return:      %s%%\n",
		last.AnnualizedReturn.Mul(decimal.NewFromInt(100)).StringFixed(2))
}

func writeDaysCSV(path string, days []backtest.DayResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"date", "price", "action", "position", "capital",
		"net_cash_flow", "final_value", "total_value", "annualized_return"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, d := range days {
		row := []string{
			d.Date.Format("2006-01-02"),
			d.Price.String(),
			string(d.Action),
			d.Position.String(),
			d.Capital.String(),
			d.NetCashFlow.String(),
			d.FinalValue.String(),
			d.TotalValue.String(),
			d.AnnualizedReturn.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
