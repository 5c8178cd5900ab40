package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var dbhealthCmd = &cobra.Command{
	Use:   "dbhealth",
	Short: "Ping the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := newLogger(verbose)
		ctx := cmd.Context()

		db, err := openDB(ctx, loadConfig(), logger)
		if err != nil {
			return err
		}
		defer db.Close(logger)

		timeout, _ := cmd.Flags().GetDuration("timeout")
		if err := db.HealthCheck(ctx, timeout); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "database ok (%s)\n", db.Dialect)
		return nil
	},
}

func init() {
	dbhealthCmd.Flags().Duration("timeout", 5*time.Second, "ping timeout")

	rootCmd.AddCommand(dbhealthCmd)
}
