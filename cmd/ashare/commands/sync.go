package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/ashare/internal/datasync"
	"github.com/wonny/ashare/internal/provider/tushare"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync <ts_code>...",
	Short: "Refresh cached market data from Tushare",
	Long: `Fetches reference data, quotes, indicators, dividends and financial
reports for the given securities, skipping anything still fresh.

With --schedule the command stays running and repeats the sync on the
given cron expression.

Examples:
  go run ./cmd/ashare sync 600900.SH
  go run ./cmd/ashare sync 600900.SH 000001.SZ --schedule "0 18 * * *"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSync,
}

var syncSchedule string

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVar(&syncSchedule, "schedule", "", "cron expression to keep syncing on")
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	provider := tushare.NewClient(a.cfg, a.log)
	service := datasync.NewService(provider,
		a.stocks, a.quotes, a.indicators, a.dividends, a.reports, a.tasks, a.log)

	ctx := context.Background()

	if syncSchedule == "" {
		for _, tsCode := range args {
			if err := service.SyncAll(ctx, tsCode); err != nil {
				return err
			}
		}
		return nil
	}

	scheduler := datasync.NewScheduler(a.log)
	if err := scheduler.AddJob(datasync.NewSyncJob(service, args, syncSchedule)); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Run once up front, then let the schedule take over.
	if err := scheduler.RunJob("data_sync"); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	return nil
}
