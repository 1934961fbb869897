package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wonny/ashare/internal/store"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Creates the cache tables if they do not exist.

Example:
  go run ./cmd/ashare migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	if err := store.Migrate(ctx, a.db.Pool); err != nil {
		return err
	}
	a.log.Info("Schema migration completed")
	return nil
}
